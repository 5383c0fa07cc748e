package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/lines"
)

// JSONLoader reads a pre-extracted document: a JSON array of blocks.
type JSONLoader struct{}

// Load implements engine.Loader.
func (JSONLoader) Load(_ context.Context, path string) (lines.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var blocks []string
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	seq := make(lines.Sequence, 0, len(blocks))
	for _, b := range blocks {
		if b = Clean(b); b != "" {
			seq = append(seq, b)
		}
	}
	return seq, nil
}

// Loader dispatches on the file extension.
type Loader struct {
	PDF  *PDFLoader
	JSON JSONLoader
}

// NewLoader creates a loader reading PDFs with layout.
func NewLoader(layout Layout) *Loader {
	return &Loader{PDF: NewPDFLoader(layout)}
}

// Load implements engine.Loader.
func (l *Loader) Load(ctx context.Context, path string) (lines.Sequence, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.PDF.Load(ctx, path)
	case ".json":
		return l.JSON.Load(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedInput, path)
	}
}

// Supported reports whether path has an extension Loader reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".json":
		return true
	}
	return false
}

// Find expands roots into the supported files they name or contain,
// recursively, sorted and without duplicates. A root that is a file is
// returned when supported.
func Find(roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if Supported(path) && !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(out)
	return out, nil
}
