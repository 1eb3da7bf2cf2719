package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath indicates a path or root that cannot be turned into a
// document URI.
var ErrInvalidPath = errors.New("invalid document path")

const fileScheme = "file"

// PathToURI converts p into a document URI. Absolute paths map directly to
// file URIs; relative paths are resolved against root, which must itself be
// a URI.
func PathToURI(p, root string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) {
		if !strings.HasPrefix(slashed, "/") {
			slashed = "/" + slashed
		}
		return (&url.URL{Scheme: fileScheme, Path: slashed}).String(), nil
	}

	base, err := url.Parse(root)
	if err != nil {
		return "", fmt.Errorf("%w: root %q: %w", ErrInvalidPath, root, err)
	}
	if base.Scheme == "" {
		return "", fmt.Errorf("%w: root %q is not a URI", ErrInvalidPath, root)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return base.ResolveReference(&url.URL{Path: slashed}).String(), nil
}

// DirURI returns the file URI of directory dir, with a trailing slash so
// relative paths resolve inside it.
func DirURI(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return (&url.URL{Scheme: fileScheme, Path: p}).String(), nil
}

// FileURI returns the file URI of the file at p.
func FileURI(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return PathToURI(abs, "")
}

// URIToPath returns the local path of a file URI.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if u.Scheme != fileScheme {
		return "", fmt.Errorf("%w: %q is not a file URI", ErrInvalidPath, uri)
	}
	return filepath.FromSlash(u.Path), nil
}
