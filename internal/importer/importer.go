// Package importer reads flashcards from spreadsheet uploads. The first
// column holds the question and the second the answer; an optional header
// row and blank rows are skipped.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a supported upload format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoRows is returned when a file holds no usable question/answer rows.
	ErrNoRows = errors.New("file contains no flashcards")
)

// Row is one question/answer pair read from a file. Values are trimmed but
// not otherwise validated.
type Row struct {
	Question string
	Answer   string
	// Line is the 1-based record number in the source, for error messages.
	Line int
}

// Result holds the rows of an import and how many source rows were dropped.
type Result struct {
	Rows    []Row
	Skipped int
}

// DetectFormat picks the format from the file name extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Parse reads rows from r using the format implied by filename.
func Parse(filename string, r io.Reader) (*Result, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	}
	if err != nil {
		return nil, err
	}

	result := collect(records)
	if len(result.Rows) == 0 {
		return nil, ErrNoRows
	}
	return result, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func collect(records [][]string) *Result {
	result := &Result{}
	for i, rec := range records {
		q, a := cell(rec, 0), cell(rec, 1)
		if q == "" && a == "" {
			continue
		}
		if i == 0 && isHeader(q, a) {
			continue
		}
		if q == "" || a == "" {
			result.Skipped++
			continue
		}
		result.Rows = append(result.Rows, Row{Question: q, Answer: a, Line: i + 1})
	}
	return result
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isHeader(q, a string) bool {
	return strings.EqualFold(q, "question") && strings.EqualFold(a, "answer")
}
