// Package pdfdoc turns a (possibly password-protected) PDF statement into
// plain per-page text lines and coarse table rows, which is all the layout
// information the manager parsers work from.
package pdfdoc

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Positioned glyph runs closer together than cellGap belong to the same cell;
// runs on the same visual line are grouped within lineTolerance points.
const (
	lineTolerance = 2.0
	cellGap       = 12.0
)

// Page is one rendered statement page.
type Page struct {
	Lines []string   // visual text lines, top to bottom
	Rows  [][]string // the same lines split into cells on horizontal gaps
}

// Text returns the whole page as a single newline-joined string.
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Document is a fully extracted statement.
type Document struct {
	Path  string
	Pages []Page
}

// Open reads and, when password is non-empty, decrypts the PDF at path.
// A wrong password or corrupt file surfaces as an error here; parsers never
// see a half-opened document.
func Open(path, password string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %q: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pdf %q: %w", path, err)
	}

	// The reader retries the password func until it returns "", so hand the
	// configured password over exactly once.
	attempts := 0
	reader, err := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		attempts++
		if attempts > 1 {
			return ""
		}
		return password
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf %q (wrong password or corrupt file): %w", path, err)
	}

	doc := &Document{Path: path}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		doc.Pages = append(doc.Pages, layoutPage(page.Content().Text))
	}
	return doc, nil
}

// layoutPage reconstructs visual lines and cells from positioned glyph runs.
// PDF origin is bottom-left, so higher Y means earlier on the page.
func layoutPage(texts []pdf.Text) Page {
	if len(texts) == 0 {
		return Page{}
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > lineTolerance || diff < -lineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var page Page
	var line []pdf.Text
	flush := func() {
		if len(line) == 0 {
			return
		}
		cells := splitCells(line)
		page.Rows = append(page.Rows, cells)
		page.Lines = append(page.Lines, strings.Join(cells, " "))
		line = nil
	}

	currentY := sorted[0].Y
	for _, t := range sorted {
		if currentY-t.Y > lineTolerance {
			flush()
			currentY = t.Y
		}
		line = append(line, t)
	}
	flush()
	return page
}

func splitCells(line []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	var prevEnd float64

	for i, t := range line {
		s := strings.TrimRight(t.S, "\n")
		if i > 0 {
			gap := t.X - prevEnd
			switch {
			case gap > cellGap:
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			case gap > 1.0:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(s)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return cells
}
