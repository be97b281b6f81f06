package usecase

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/scanify/backend/internal/domain"
)

// statementMIMETypes maps the statement file extensions the extractor can read
var statementMIMETypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".csv":  "text/csv",
	".txt":  "text/plain",
}

// spreadsheetExts are statement files stockists send that cannot be extracted yet
var spreadsheetExts = map[string]bool{
	".xls":  true,
	".xlsx": true,
}

// maxArchiveEntryBytes caps a single decompressed archive entry
const maxArchiveEntryBytes = 32 << 20

// archiveEntry is one visible file of an uploaded statement archive
type archiveEntry struct {
	name string
	ext  string
	file *zip.File
}

// statement reports whether the entry looks like a statement file at all
func (e archiveEntry) statement() bool {
	_, ok := statementMIMETypes[e.ext]
	return ok || spreadsheetExts[e.ext]
}

// document reads the entry into an extractor document
func (e archiveEntry) document() (domain.Document, error) {
	mimeType, ok := statementMIMETypes[e.ext]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, e.ext)
	}
	rc, err := e.file.Open()
	if err != nil {
		return domain.Document{}, fmt.Errorf("open %s: %w", e.name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxArchiveEntryBytes+1))
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", e.name, err)
	}
	if len(data) > maxArchiveEntryBytes {
		return domain.Document{}, fmt.Errorf("%w: %s is larger than %d MB", domain.ErrUnsupportedFile, e.name, maxArchiveEntryBytes>>20)
	}
	return domain.Document{Name: e.name, MIMEType: mimeType, Data: data}, nil
}

// readArchive lists the visible files of a ZIP archive in archive order.
// Directories, dot-files, macOS resource forks and Thumbs.db are left out.
func readArchive(data []byte) ([]archiveEntry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", domain.ErrInvalidRequest, err)
	}

	var entries []archiveEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() || hiddenEntry(f.Name) {
			continue
		}
		name := path.Base(f.Name)
		entries = append(entries, archiveEntry{
			name: name,
			ext:  strings.ToLower(path.Ext(name)),
			file: f,
		})
	}
	return entries, nil
}

func hiddenEntry(name string) bool {
	name = strings.ReplaceAll(name, `\`, "/")
	for _, part := range strings.Split(name, "/") {
		if part == "__MACOSX" || strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	base := path.Base(name)
	return base == "Thumbs.db" || strings.HasPrefix(base, "__")
}
