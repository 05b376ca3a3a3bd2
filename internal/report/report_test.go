package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tbourn/cadastro-clientes/internal/domain"
)

func clients(n int) []domain.Client {
	out := make([]domain.Client, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Client{
			ID:      uint(i),
			Name:    fmt.Sprintf("Cliente %d", i),
			Address: "Rua da Conceição, 10",
			Phone:   "11999990000",
			CPF:     fmt.Sprintf("%03d.111.111-11", i),
			RG:      fmt.Sprintf("%02d.111.111-1", i),
			Email:   fmt.Sprintf("c%d@x.com", i),
		})
	}
	return out
}

// pageObjects counts page objects in an uncompressed PDF object table.
func pageObjects(pdf string) int {
	return strings.Count(pdf, "/Type /Page") - strings.Count(pdf, "/Type /Pages")
}

func TestLine_AllSevenFields(t *testing.T) {
	c := domain.Client{ID: 1, Name: "Ana Silva", Address: "Rua A,10", Phone: "11999990000",
		CPF: "111.111.111-11", RG: "11.111.111-1", Email: "ana@x.com"}
	want := "ID: 1, Nome: Ana Silva, Endereço: Rua A,10, Telefone: 11999990000, CPF: 111.111.111-11, RG: 11.111.111-1, Email: ana@x.com"
	if got := Line(c); got != want {
		t.Fatalf("Line() =\n%q\nwant\n%q", got, want)
	}
}

func TestPhysicalCapacity_Letter(t *testing.T) {
	// Letter is 792pt tall: lines at 60, 80, ..., 760.
	if got := PhysicalCapacity(792); got != 36 {
		t.Fatalf("PhysicalCapacity(792) = %d; want 36", got)
	}
	if got := PhysicalCapacity(10); got != 1 {
		t.Fatalf("PhysicalCapacity(10) = %d; want 1", got)
	}
}

func TestRender_Pagination(t *testing.T) {
	cases := []struct {
		records, perPage, wantPages int
	}{
		{0, 36, 1},   // title only
		{1, 36, 1},
		{36, 36, 1},
		{37, 36, 2},
		{10, 3, 4},
		{100, 0, 3},    // physical capacity (36)
		{100, 1000, 3}, // clamped to physical capacity
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		sum, err := Render(&buf, "Relatório de Clientes", clients(tc.records), Options{LinesPerPage: tc.perPage})
		if err != nil {
			t.Fatalf("Render(%d, %d): %v", tc.records, tc.perPage, err)
		}
		if sum.Pages != tc.wantPages || sum.Records != tc.records {
			t.Fatalf("Render(%d, %d) summary = %+v; want %d pages", tc.records, tc.perPage, sum, tc.wantPages)
		}
		out := buf.String()
		if !strings.HasPrefix(out, "%PDF-") || !strings.Contains(out, "%%EOF") {
			t.Fatalf("output is not a PDF")
		}
		if got := pageObjects(out); got != tc.wantPages {
			t.Fatalf("Render(%d, %d) wrote %d page objects; want %d", tc.records, tc.perPage, got, tc.wantPages)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriterFailure(t *testing.T) {
	_, err := Render(failingWriter{}, "t", clients(2), Options{})
	if !errors.Is(err, ErrReportSink) {
		t.Fatalf("expected ErrReportSink, got %v", err)
	}
}

func TestWinText(t *testing.T) {
	if got := winText("Endereço"); got != "Endere\xe7o" {
		t.Fatalf("winText(Endereço) = %q", got)
	}
	if got := winText("plain"); got != "plain" {
		t.Fatalf("winText(plain) = %q", got)
	}
	// Runes outside Windows-1252 are replaced, not dropped.
	if got := winText("a日b"); len(got) != 3 || got[0] != 'a' || got[2] != 'b' {
		t.Fatalf("winText(a日b) = %q", got)
	}
}
