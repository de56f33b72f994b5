// Package stdlib holds the standard library: modules written in the
// language itself, embedded under logical paths such as "stdlib/math", and
// the native intrinsics bound in every root environment.
package stdlib

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed stdlib/*.blox
var sources embed.FS

const extension = ".blox"

// Has reports whether path names an embedded module.
func Has(path string) bool {
	if !strings.HasPrefix(path, "stdlib/") {
		return false
	}
	_, err := fs.Stat(sources, path+extension)
	return err == nil
}

// Source returns the text of the embedded module at path.
func Source(path string) ([]byte, error) {
	return sources.ReadFile(path + extension)
}

// Paths lists the embedded modules in lexical order.
func Paths() []string {
	entries, err := sources.ReadDir("stdlib")
	if err != nil {
		return nil
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, "stdlib/"+strings.TrimSuffix(entry.Name(), extension))
	}
	sort.Strings(paths)
	return paths
}
