// Package assets reads program, module and template sources and reports
// when they change.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ErrNotFound is returned by Load for paths that do not exist.
var ErrNotFound = errors.New("asset not found")

// Provider is a source of assets addressed by slash-separated paths
// relative to the provider's root.
type Provider interface {
	Load(path string) ([]byte, error)
	// Changes delivers one value per batch of modifications. Providers
	// that never change return a nil channel.
	Changes() <-chan struct{}
}

// FSProvider serves assets from an fs.FS. It never reports changes.
type FSProvider struct {
	fsys fs.FS
}

func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

func (p *FSProvider) Load(name string) ([]byte, error) {
	return load(p.fsys, name)
}

func (p *FSProvider) Changes() <-chan struct{} {
	return nil
}

func load(fsys fs.FS, name string) ([]byte, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Route names the assets that serve one URL path.
type Route struct {
	Program  string
	Template string
}

// ResolveRoute maps a URL path to its route assets: `/a/b` is served by
// routes/a/b/index.blox and routes/a/b/index.html.
func ResolveRoute(urlPath string) (Route, bool) {
	clean := path.Clean("/" + urlPath)
	for _, segment := range strings.Split(clean, "/") {
		if strings.HasPrefix(segment, ".") {
			return Route{}, false
		}
	}
	dir := path.Join("routes", clean)
	return Route{
		Program:  path.Join(dir, "index.blox"),
		Template: path.Join(dir, "index.html"),
	}, true
}
