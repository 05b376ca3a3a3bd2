// Package report renders a client listing into a paginated PDF document.
//
// The layout follows the tool's historical report: US Letter in points,
// Helvetica, the title on the first page, one line per client with all
// seven fields, and a new page when the page capacity is reached.
//
// Generator writes the document atomically (temp file + rename) so a failed
// export never truncates the previous report. Open hands the file to the
// system viewer.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/tbourn/cadastro-clientes/internal/domain"
	"github.com/tbourn/cadastro-clientes/internal/utils"
)

var (
	// ErrReportSink is returned when the document could not be written.
	ErrReportSink = errors.New("report could not be written")

	// ErrReportOpen is returned when the system viewer could not be launched.
	ErrReportOpen = errors.New("report could not be opened")
)

// Layout in points.
const (
	margin   = 30.0 // left, top and bottom margin
	titleGap = 30.0 // extra space under the title on page 1
	lineStep = 20.0
	fontSize = 10.0
)

// Options tunes rendering.
type Options struct {
	// LinesPerPage caps the records per page. Values <= 0, or larger than
	// what physically fits, are clamped to the physical capacity.
	LinesPerPage int
}

// Summary describes a rendered document.
type Summary struct {
	Path    string
	Pages   int
	Records int
}

// Line formats one client as a single report line.
func Line(c domain.Client) string {
	return fmt.Sprintf("ID: %d, Nome: %s, Endereço: %s, Telefone: %s, CPF: %s, RG: %s, Email: %s",
		c.ID, c.Name, c.Address, c.Phone, c.CPF, c.RG, c.Email)
}

// PhysicalCapacity returns how many record lines fit on the first page (the
// tightest one, since it also carries the title) of a page pageHeight tall.
func PhysicalCapacity(pageHeight float64) int {
	first := margin + titleGap
	usable := pageHeight - margin - first
	if usable < 0 {
		return 1
	}
	return int(math.Floor(usable/lineStep)) + 1
}

// Render writes the PDF for clients, in the given order, to w.
func Render(w io.Writer, title string, clients []domain.Client, opts Options) (Summary, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("cadastro", false)
	pdf.SetFont("Helvetica", "", fontSize)

	_, pageHeight := pdf.GetPageSize()
	perPage := PhysicalCapacity(pageHeight)
	if opts.LinesPerPage > 0 && opts.LinesPerPage < perPage {
		perPage = opts.LinesPerPage
	}

	pages := utils.PageCount(len(clients), perPage)
	for p := 1; p <= pages; p++ {
		pdf.AddPage()
		y := margin
		if p == 1 {
			pdf.Text(margin, y, winText(title))
			y += titleGap
		}
		start, end := utils.PageBounds(p, perPage, len(clients))
		for _, c := range clients[start:end] {
			pdf.Text(margin, y, winText(Line(c)))
			y += lineStep
		}
	}

	if err := pdf.Output(w); err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrReportSink, err)
	}
	return Summary{Pages: pages, Records: len(clients)}, nil
}

// winText transcodes s to Windows-1252, the encoding of the core PDF fonts.
// Runes outside the code page are replaced.
func winText(s string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.String(s)
	if err != nil {
		return s
	}
	return out
}
