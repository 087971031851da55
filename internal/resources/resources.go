// Package resources exposes the files compiled into the binary under
// logical paths rooted at BasePath.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"fyne.io/fyne/v2"
)

const (
	BasePath = "/se/tingping/IrcClient"

	ApplicationWindowTemplate = BasePath + "/ui/ApplicationWindow.yaml"
	IconPath                  = BasePath + "/icons/irc-client.svg"
	TranslationsDir           = "data/translations"
)

var ErrNotFound = errors.New("resource not found")

//go:embed data
var data embed.FS

// Bundle resolves logical paths against an fs.FS.
type Bundle struct {
	base  string
	files fs.FS
}

// NewBundle serves files under base, so base+"/ui/x.yaml" reads "ui/x.yaml".
func NewBundle(base string, files fs.FS) *Bundle {
	return &Bundle{
		base:  path.Clean("/" + base),
		files: files,
	}
}

var defaultBundle = NewBundle(BasePath, mustSub(data, "data"))

// Default returns the bundle of resources embedded in the binary.
func Default() *Bundle {
	return defaultBundle
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Lookup returns the content stored at a logical path. Paths outside the
// bundle's base and missing files both yield ErrNotFound.
func (b *Bundle) Lookup(logical string) ([]byte, error) {
	rel, err := b.relative(logical)
	if err != nil {
		return nil, err
	}

	content, err := fs.ReadFile(b.files, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, logical)
		}
		return nil, fmt.Errorf("reading resource %s: %w", logical, err)
	}
	return content, nil
}

// StaticResource wraps a looked up resource for the toolkit.
func (b *Bundle) StaticResource(logical string) (fyne.Resource, error) {
	content, err := b.Lookup(logical)
	if err != nil {
		return nil, err
	}
	return fyne.NewStaticResource(path.Base(logical), content), nil
}

func (b *Bundle) relative(logical string) (string, error) {
	clean := path.Clean(logical)
	prefix := b.base + "/"
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrNotFound, logical, b.base)
	}
	return strings.TrimPrefix(clean, prefix), nil
}

// Lookup reads a logical path from the embedded bundle.
func Lookup(logical string) ([]byte, error) {
	return defaultBundle.Lookup(logical)
}

// Translations returns the embedded filesystem and the directory holding the
// <tag>.json message files.
func Translations() (embed.FS, string) {
	return data, TranslationsDir
}
