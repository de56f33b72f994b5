package assets

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DebounceInterval groups bursts of file events into one change.
const DebounceInterval = 100 * time.Millisecond

// DirProvider serves assets from a directory and, once Watch is running,
// reports modifications anywhere beneath it.
type DirProvider struct {
	root    string
	fsys    fs.FS
	log     *logrus.Entry
	changes chan struct{}
}

func NewDirProvider(root string, log *logrus.Entry) *DirProvider {
	return &DirProvider{
		root:    root,
		fsys:    os.DirFS(root),
		log:     log.WithField("component", "assets"),
		changes: make(chan struct{}, 1),
	}
}

func (p *DirProvider) Root() string {
	return p.root
}

func (p *DirProvider) Load(name string) ([]byte, error) {
	return load(p.fsys, name)
}

func (p *DirProvider) Changes() <-chan struct{} {
	return p.changes
}

// Watch follows the directory tree until ctx is done.
func (p *DirProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := p.addTree(watcher, p.root); err != nil {
		return err
	}
	p.log.WithField("root", p.root).Info("watching assets")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if hidden(event.Name) {
				continue
			}
			p.log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("asset changed")
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := p.addTree(watcher, event.Name); err != nil {
						p.log.WithError(err).Warn("cannot watch new directory")
					}
				}
			}
			pending = time.After(DebounceInterval)

		case <-pending:
			pending = nil
			select {
			case p.changes <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.WithError(err).Warn("watcher error")
		}
	}
}

func (p *DirProvider) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// hidden matches dot files and editor swap files.
func hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
