package http

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// pathScope confines client supplied paths to the directory tree under root
type pathScope struct {
	root string
}

// resolve interprets p relative to the scope root, resolves symbolic links of its
// existing components and rejects results outside the root as invalid input.
// Absolute paths are accepted when they point inside the root.
func (s pathScope) resolve(p string) (string, error) {
	root, err := resolveExisting(s.root)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve allowed directory",
			goerr.V("root", s.root), goerr.T(types.ErrTagIOFailure))
	}

	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	resolved, err := resolveExisting(p)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve path",
			goerr.V("path", p), goerr.T(types.ErrTagInvalidInput))
	}

	if !within(root, resolved) {
		return "", goerr.New("path is outside the allowed directory",
			goerr.V("path", p), goerr.T(types.ErrTagInvalidInput))
	}
	return resolved, nil
}

// within reports whether p equals root or lies below it. Both must be clean absolute paths.
func within(root, p string) bool {
	if p == root {
		return true
	}
	prefix := strings.TrimSuffix(root, string(os.PathSeparator)) + string(os.PathSeparator)
	return strings.HasPrefix(p, prefix)
}

// resolveExisting returns the absolute form of p with symbolic links resolved for
// the longest existing prefix. Missing trailing components are appended as is.
func resolveExisting(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	dir, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}
