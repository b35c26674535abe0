// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.funfront.dev/compiler.go/internal/fs"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// NewDefaultFS searches the given roots in order, then the entries of
// FUNFRONT_PATH, then the shared data directories of the platform.
func NewDefaultFS(lookup func(string) (string, bool), roots ...string) (lang.FileSystem, error) {
	if paths, ok := lookup("FUNFRONT_PATH"); ok {
		roots = append(roots, filepath.SplitList(paths)...)
	}
	roots = append(roots, getDefaultRoots(lookup)...)
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
