package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"capitals.csv", FormatCSV, false},
		{"Capitals.XLSX", FormatXLSX, false},
		{"macro.xlsm", FormatXLSX, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Question,Answer",
		"Capital of France?, Paris ",
		"",
		"2+2,4,extra column ignored",
		"orphan question,",
		`"Quoted, with comma",yes`,
	}, "\n")

	result, err := Parse("deck.csv", strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Question: "Capital of France?", Answer: "Paris", Line: 2},
		{Question: "2+2", Answer: "4", Line: 3},
		{Question: "Quoted, with comma", Answer: "yes", Line: 5},
	}, result.Rows)
	assert.Equal(t, 1, result.Skipped)
}

func TestParseCSV_HeaderOnlyInFirstRow(t *testing.T) {
	input := "hola,hello\nquestion,answer\n"

	result, err := Parse("deck.csv", strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "question", result.Rows[1].Question)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Question"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Answer"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "perro"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "dog"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "gato"))
	require.NoError(t, f.SetCellValue(sheet, "B4", "cat"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	result, err := Parse("spanish.xlsx", bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Question: "perro", Answer: "dog", Line: 2},
		{Question: "gato", Answer: "cat", Line: 4},
	}, result.Rows)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("deck.csv", strings.NewReader("Question,Answer\n\n"))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Parse("deck.xlsx", strings.NewReader("not a zip archive"))
	assert.Error(t, err)

	_, err = Parse("deck.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
