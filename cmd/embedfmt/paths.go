package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/embedfmt/internal/collections"
	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into when walking a directory
var skippedDirs = []string{"node_modules", "bower_components", "vendor"}

// expandPaths resolves command line arguments into files, in argument order
// without duplicates. Globs are expanded with doublestar, directories are
// walked for files that eligible accepts. Plain files are always kept.
func expandPaths(args []string, eligible func(path string) bool) ([]string, error) {
	seen := collections.NewSet[string]()
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen.Has(path) {
			seen.Add(path)
			files = append(files, path)
		}
	}

	for _, arg := range args {
		matches := []string{arg}
		if hasMeta(arg) {
			var err error
			matches, err = doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				if !hasMeta(arg) || eligible(match) {
					add(match)
				}
				continue
			}
			if err := walk(match, eligible, add); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

func walk(dir string, eligible func(string) bool, add func(string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || slices.Contains(skippedDirs, name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && eligible(path) {
			add(path)
		}
		return nil
	})
}

// hasMeta reports whether path contains glob syntax
func hasMeta(path string) bool {
	return strings.ContainsAny(filepath.ToSlash(path), "*?[{")
}
