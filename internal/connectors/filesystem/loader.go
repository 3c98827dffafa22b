// Package filesystem reads PDF study materials from local paths.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ResolvePath converts a file:// URI to a local path.
// Bare paths pass through unchanged.
func ResolvePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// IsPDF reports whether a path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// ExpandPaths resolves the given files and directories to a list of PDF paths.
// Directories are walked recursively and contribute only *.pdf files, sorted
// by path; files named explicitly are kept as given. Duplicates are removed.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, raw := range paths {
		p := ResolvePath(raw)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrNotFound, p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && IsPDF(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	return out, nil
}

// NewProcessRequest builds a request for the PDFs named by paths and url.
// A PDF that cannot be read fails only the PDF source: the error is kept
// on the request as an IngestionError and the website is still processed.
func NewProcessRequest(paths []string, url string) domain.ProcessRequest {
	req := domain.ProcessRequest{URL: url}
	if len(paths) == 0 {
		return req
	}

	pdfs, err := LoadPDFs(paths)
	if err != nil {
		req.PDFErr = domain.NewIngestionError(domain.SourceKindPDF, strings.Join(paths, ", "), err)
		return req
	}
	req.PDFs = pdfs
	return req
}

// LoadPDFs reads each path into a PDFFile named by its base name.
func LoadPDFs(paths []string) ([]domain.PDFFile, error) {
	expanded, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}

	files := make([]domain.PDFFile, 0, len(expanded))
	for _, p := range expanded {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, domain.PDFFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
