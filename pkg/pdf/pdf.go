package pdf

import (
	"context"
	"math"
)

// FormatPDF is the format key of engines producing PDF output.
const FormatPDF = "pdf"

// ContentTypePDF is the MIME type of rendered documents.
const ContentTypePDF = "application/pdf"

// Page is a unit of content the printer can lay out.
type Page interface {
	// PrintTitle is used as the section heading and the document title.
	PrintTitle() string
	// PrintBody returns the HTML body of the page.
	PrintBody() string
}

// Document is the laid-out HTML handed to an engine.
type Document struct {
	Title string
	HTML  string
}

// Engine renders a Document into bytes of a specific format.
type Engine interface {
	// Format returns the registry key, e.g. "pdf".
	Format() string
	// ContentType returns the MIME type of rendered output.
	ContentType() string
	// Render produces the document bytes. Implementations honour ctx deadlines.
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// Printable is a rendered document persisted in storage.
type Printable struct {
	URI         string
	ContentType string
	Blob        []byte
}

// Size returns the length of the rendered blob.
func (p *Printable) Size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.Blob))
}

// PaperSize holds page dimensions in millimetres.
type PaperSize struct {
	Width  float64
	Height float64
}

var (
	PaperA4     = PaperSize{Width: 210, Height: 297}
	PaperLetter = PaperSize{Width: 215.9, Height: 279.4}
)

// Margins holds page margins in millimetres.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins are applied when no margins are configured.
var DefaultMargins = Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}

// mmToInches converts millimetres to inches, the unit Chrome expects.
func mmToInches(mm float64) float64 {
	return math.Round(mm/25.4*10000) / 10000
}
