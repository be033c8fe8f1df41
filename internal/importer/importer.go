package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"dictado/internal/models"
)

// Result summarizes one import run.
type Result struct {
	Entries   []*models.VocabularyEntry `json:"entries"`
	Processed int                       `json:"processed"`
	Skipped   int                       `json:"skipped"`
	Errors    []string                  `json:"errors,omitempty"`
}

// Importer parses vocabulary files into entries ready for storage.
type Importer struct {
	now func() time.Time
}

// New creates an importer.
func New() *Importer {
	return &Importer{now: time.Now}
}

// Import parses r according to the file name's extension. CSV and TSV
// files are read row-wise, .xlsx workbooks through their first sheet.
func (im *Importer) Import(r io.Reader, filename string) (*Result, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return im.importExcel(r)
	case strings.HasSuffix(name, ".csv"), strings.HasSuffix(name, ".tsv"), strings.HasSuffix(name, ".txt"):
		return im.ImportCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// ImportCSV reads delimited rows of word, part of speech, meaning and
// example. The delimiter is sniffed from the first line and a header row
// is detected and skipped.
func (im *Importer) ImportCSV(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import data: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing rows: %w", err)
	}
	return im.fromRows(rows), nil
}

// importExcel reads the first sheet of an xlsx workbook.
func (im *Importer) importExcel(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return im.fromRows(rows), nil
}

func (im *Importer) fromRows(rows [][]string) *Result {
	result := &Result{}
	now := im.now()

	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		result.Processed++

		word := cell(row, 0)
		if word == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing word", i+1))
			continue
		}

		result.Entries = append(result.Entries, &models.VocabularyEntry{
			ID:        uuid.NewString(),
			Word:      word,
			POS:       cell(row, 1),
			Meaning:   cell(row, 2),
			Example:   cell(row, 3),
			DateAdded: now,
		})
	}
	return result
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// isHeaderRow detects a leading column-name row like "word,pos,meaning".
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "word" || first == "term" || first == "vocabulary"
}

// sniffDelimiter picks the most frequent candidate separator in the first
// line. Comma wins ties.
func sniffDelimiter(data string) rune {
	line := data
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best := ','
	bestCount := strings.Count(line, ",")
	for _, cand := range []rune{'\t', ';'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}
