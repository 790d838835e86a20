// Package submission reads Moodle assignment ZIP exports. Only the folder
// structure matters here: each top-level entry name encodes the student the
// submission belongs to. File contents stay opaque blobs.
package submission

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Entry is one top-level submission folder (or loose file) from the export.
type Entry struct {
	// Name is the raw folder/file name as Moodle packaged it, e.g.
	// "Jane Doe_123456_assignsubmission_file". Input to naming.Normalize.
	Name string `json:"name"`
	// Files lists the paths inside the folder, relative to it.
	Files []string `json:"files,omitempty"`
}

// ListEntries opens a submissions ZIP and returns its top-level entries in
// first-appearance order. Folder names are returned as-is; loose files at
// the archive root contribute their base name without extension. Directory
// placeholder entries and OS metadata files are skipped.
func ListEntries(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	order := make([]string, 0, len(zr.File))
	byName := make(map[string]*Entry)

	for _, zf := range zr.File {
		name := path.Clean(zf.Name)
		if name == "." || strings.HasPrefix(name, "__MACOSX") || path.Base(name) == ".DS_Store" {
			continue
		}
		top, rest, hasDir := strings.Cut(name, "/")
		if !hasDir {
			if zf.FileInfo().IsDir() {
				top = name
				rest = ""
			} else {
				// Loose file at the root: the base name minus extension
				// plays the role of the folder name.
				top = strings.TrimSuffix(name, path.Ext(name))
				rest = name
			}
		}
		e, ok := byName[top]
		if !ok {
			e = &Entry{Name: top}
			byName[top] = e
			order = append(order, top)
		}
		if rest != "" && !zf.FileInfo().IsDir() {
			e.Files = append(e.Files, rest)
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, n := range order {
		entries = append(entries, *byName[n])
	}
	return entries, nil
}
