package importer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"
)

func TestImportCSVWithHeader(t *testing.T) {
	input := "word,pos,meaning,example\n" +
		"harbor,noun,a sheltered port,Ships anchored in the harbor.\n" +
		"anchor,noun,a heavy mooring device,Drop the anchor.\n"

	result, err := New().ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.Processed != 2 || result.Skipped != 0 {
		t.Errorf("processed = %d, skipped = %d", result.Processed, result.Skipped)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(result.Entries))
	}
	e := result.Entries[0]
	if e.Word != "harbor" || e.POS != "noun" || e.Example != "Ships anchored in the harbor." {
		t.Errorf("entry = %+v", e)
	}
	if e.ID == "" || e.DateAdded.IsZero() {
		t.Error("entry missing id or date added")
	}
}

func TestImportCSVSniffsTabs(t *testing.T) {
	input := "harbor\tnoun\ta sheltered port\tShips anchored.\n" +
		"anchor\tnoun\ta heavy device\tDrop it.\n"

	result, err := New().ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 2 || result.Entries[1].Word != "anchor" {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestImportCSVSkipsBadRows(t *testing.T) {
	input := "harbor,noun,a sheltered port\n" +
		"\n" +
		",noun,missing the word itself\n" +
		"anchor,noun,a heavy device\n"

	result, err := New().ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(result.Entries))
	}
	if result.Skipped != 1 || len(result.Errors) != 1 {
		t.Errorf("skipped = %d, errors = %v", result.Skipped, result.Errors)
	}
}

func TestImportCSVShortRows(t *testing.T) {
	result, err := New().ImportCSV(strings.NewReader("harbor\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	if result.Entries[0].POS != "" || result.Entries[0].Meaning != "" {
		t.Errorf("short row fields not empty: %+v", result.Entries[0])
	}
}

func TestImportExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"word", "pos", "meaning", "example"},
		{"harbor", "noun", "a sheltered port", "Ships anchored."},
		{"anchor", "noun", "a heavy device", "Drop it."},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	result, err := New().Import(&buf, "words.xlsx")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Entries) != 2 || result.Entries[0].Word != "harbor" {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	if _, err := New().Import(strings.NewReader("x"), "words.pdf"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestImportSheet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/sheet123/export") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("harbor,noun,a sheltered port,Ships anchored.\n"))
	}))
	defer server.Close()

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})
	client := NewSheetClient(New(), source)
	client.baseURL = server.URL

	result, err := client.ImportSheet(context.Background(), "sheet123")
	if err != nil {
		t.Fatalf("ImportSheet: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Word != "harbor" {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestImportSheetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	client := NewSheetClient(New(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))
	client.baseURL = server.URL

	if _, err := client.ImportSheet(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing sheet")
	}
}
