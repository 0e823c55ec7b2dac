// Package fsutil implements the external, non-core collaborator shared by
// all three cmd/ drivers: turning a list of user-supplied paths (files or
// directories) into a concrete list of input files matching a stage's
// source extension.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// CollectFiles resolves inputs (a mix of files and directories) into a
// sorted, de-duplicated list of files ending in ext (e.g. ".jack"). A
// directory is scanned non-recursively, matching the reference toolchain's
// per-directory translation-unit model; a bare file is included as-is
// regardless of its extension, since the caller explicitly named it.
func CollectFiles(inputs []string, ext string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot stat %q", input)
		}

		if !info.IsDir() {
			if !seen[input] {
				seen[input] = true
				files = append(files, input)
			}
			continue
		}

		dents, err := os.ReadDir(input)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read directory %q", input)
		}
		for _, dent := range dents {
			if dent.IsDir() || filepath.Ext(dent.Name()) != ext {
				continue
			}
			path := filepath.Join(input, dent.Name())
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsDir reports whether path is a directory. Errors are treated as "not a
// directory" — the caller will surface the real stat error when it tries
// to open the path.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// OutputPath replaces path's extension with newExt (which must include the
// leading dot), e.g. OutputPath("Main.jack", ".vm") == "Main.vm".
func OutputPath(path, newExt string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + newExt
}

// BaseName returns the file name without directory or extension, used as a
// class/module/static-segment name (e.g. BaseName("src/Main.jack") ==
// "Main").
func BaseName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// DirName returns the base name of a directory path, used to name the
// single .asm file produced when translating a directory of .vm files
// (e.g. DirName("project/MyProg") == "MyProg").
func DirName(dir string) string {
	clean := filepath.Clean(dir)
	return filepath.Base(clean)
}
