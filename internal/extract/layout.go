package extract

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Glyph is one positioned run of text on a page, in PDF user space
// (Y grows upwards).
type Glyph struct {
	S        string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// Layout groups glyphs into text blocks. Margins are relative to the font size.
type Layout struct {
	// LineMargin is the largest baseline distance between two rows of one block.
	LineMargin float64
	// CharMargin is the horizontal gap that splits a row into separate blocks.
	CharMargin float64
	// WordMargin is the horizontal gap rendered as a space.
	WordMargin float64
}

// DefaultLayout mirrors the usual text-box analysis settings.
func DefaultLayout() Layout {
	return Layout{LineMargin: 1.5, CharMargin: 2.0, WordMargin: 0.1}
}

type segment struct {
	text string
	x0   float64
	x1   float64
	y    float64
	size float64
}

type block struct {
	rows  []string
	x0    float64
	lastY float64
	size  float64
}

// Blocks returns the text blocks of one page in reading order. Rows of a
// block are joined with "\n"; empty blocks are dropped.
func (l Layout) Blocks(glyphs []Glyph) []string {
	var open []*block
	var ordered []*block

	for _, seg := range l.segments(glyphs) {
		var target *block
		for _, b := range open {
			tolerance := math.Max(b.size, seg.size)
			if math.Abs(b.x0-seg.x0) <= tolerance && b.lastY-seg.y <= tolerance*l.LineMargin {
				target = b
				break
			}
		}
		if target == nil {
			target = &block{x0: seg.x0, size: seg.size}
			open = append(open, target)
			ordered = append(ordered, target)
		}
		target.rows = append(target.rows, seg.text)
		target.lastY = seg.y
	}

	out := make([]string, 0, len(ordered))
	for _, b := range ordered {
		if text := Clean(strings.Join(b.rows, "\n")); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// segments splits the page into rows by baseline, top to bottom, and each
// row into runs separated by more than CharMargin.
func (l Layout) segments(glyphs []Glyph) []segment {
	rows := make(map[int][]Glyph)
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		y := int(math.Round(g.Y))
		rows[y] = append(rows[y], g)
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var out []segment
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })

		var cur *segment
		var sb strings.Builder
		flush := func() {
			if cur != nil {
				cur.text = sb.String()
				out = append(out, *cur)
			}
			sb.Reset()
		}
		for _, g := range row {
			size := g.FontSize
			if size <= 0 {
				size = 1
			}
			if cur != nil {
				gap := g.X - cur.x1
				if gap > l.CharMargin*size {
					flush()
					cur = nil
				} else if gap > l.WordMargin*size && !strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(g.S, " ") {
					sb.WriteByte(' ')
				}
			}
			if cur == nil {
				cur = &segment{x0: g.X, y: g.Y, size: size}
			}
			sb.WriteString(g.S)
			cur.x1 = math.Max(cur.x1, g.X+g.W)
			cur.size = math.Max(cur.size, size)
		}
		flush()
	}
	return out
}

var (
	doubleSpaces   = regexp.MustCompile(`(  )+`)
	doubleNewlines = regexp.MustCompile(`(\n\n)+`)
)

// Clean removes layout padding from a block: runs of double spaces are
// deleted, doubled line breaks collapsed, and the result trimmed.
func Clean(text string) string {
	text = doubleSpaces.ReplaceAllString(text, "")
	text = doubleNewlines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
