package lingo

import (
	"fmt"
	"io/fs"
	"os"
)

// bundledSource reads the baseline payloads shipped with the application.
// It is the terminal chain step and the floor below which no other source's
// result is accepted.
type bundledSource struct {
	fsys fs.FS
}

func newBundledSource(path string) *bundledSource {
	return &bundledSource{fsys: os.DirFS(path)}
}

func newBundledSourceFS(fsys fs.FS) *bundledSource {
	return &bundledSource{fsys: fsys}
}

// load returns the baseline payload for key. Every supported locale ships a
// bundled file, so a missing one is a configuration error, not a fallback case.
func (b *bundledSource) load(key string) ([]byte, error) {
	data, err := fs.ReadFile(b.fsys, key+".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, key)
	}
	return data, nil
}
