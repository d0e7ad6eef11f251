package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
)

type csvReader struct{}

func (csvReader) Format() string { return "csv" }

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (c csvReader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: c.Format(), Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(path)

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Format: c.Format(), Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Path: path, Format: c.Format(), Err: errEmptyFile}
	}
	header := records[0]
	if len(header) > 0 {
		// UTF-8 BOM shows up glued to the first header cell
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	t := NewTable(header, records[1:])
	t.Name = filepath.Base(path)
	return t, nil
}

// sniffDelimiter picks the field delimiter from the filename alone; content
// sniffing is out of scope for the loader.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
