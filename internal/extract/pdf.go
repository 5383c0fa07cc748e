// Package extract turns documents on disk into the ordered line sequence the
// classifiers read.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/Veraticus/docket/internal/lines"
)

// ErrNoPages is returned for a PDF without any page.
var ErrNoPages = errors.New("PDF has no pages")

// PDFLoader extracts the text blocks of every page of a PDF, in page order.
// Images and vector graphics carry no text and never produce a block.
type PDFLoader struct {
	Layout Layout
}

// NewPDFLoader creates a loader with the given layout.
func NewPDFLoader(layout Layout) *PDFLoader {
	return &PDFLoader{Layout: layout}
}

// Load implements engine.Loader.
func (p *PDFLoader) Load(ctx context.Context, path string) (seq lines.Sequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed on %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		seq = append(seq, p.Layout.Blocks(pageGlyphs(page))...)
	}
	return seq, nil
}

func pageGlyphs(page pdf.Page) []Glyph {
	content := page.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{S: t.S, X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize})
	}
	return glyphs
}
