package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/browser"

	"github.com/tbourn/cadastro-clientes/internal/domain"
	"github.com/tbourn/cadastro-clientes/internal/observability"
	"github.com/tbourn/cadastro-clientes/internal/sysutil"
)

// ---- TEST SEAMS ----
var (
	render   = Render
	openFile = browser.OpenFile
)

// Generator writes the report for a listing to a fixed path.
type Generator struct {
	Path    string
	Title   string
	Options Options
	Metrics *observability.Metrics
}

// Generate renders clients and replaces the file at g.Path. The document is
// first written to a temp file in the same directory and renamed into place,
// so on failure the previous report is left untouched.
func (g *Generator) Generate(ctx context.Context, clients []domain.Client) (Summary, error) {
	lg := sysutil.LoggerFrom(ctx)

	dir := filepath.Dir(g.Path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(g.Path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrReportSink, err)
	}
	sum, err := render(f, g.Title, clients, g.Options)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		if !errors.Is(err, ErrReportSink) {
			err = fmt.Errorf("%w: %w", ErrReportSink, err)
		}
		return Summary{}, err
	}
	if err := os.Rename(tmp, g.Path); err != nil {
		_ = os.Remove(tmp)
		return Summary{}, fmt.Errorf("%w: %w", ErrReportSink, err)
	}

	sum.Path = g.Path
	g.Metrics.ReportGenerated(sum.Pages)
	lg.Info().
		Str("path", sum.Path).
		Int("pages", sum.Pages).
		Int("records", sum.Records).
		Msg("report generated")
	return sum, nil
}

// Open launches the system viewer for the report at path.
func Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %w", ErrReportOpen, err)
	}
	browser.Stdout, browser.Stderr = io.Discard, io.Discard
	if err := openFile(path); err != nil {
		return fmt.Errorf("%w: %w", ErrReportOpen, err)
	}
	return nil
}
