package dataset

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// parquetReader decodes flat Parquet files: every leaf column becomes a
// string column of the Table, nulls become empty cells.
type parquetReader struct{}

func (parquetReader) Format() string { return "parquet" }

func (parquetReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".parquet")
}

func (p parquetReader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: p.Format(), Err: err}
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, &ParseError{Path: path, Format: p.Format(), Err: err}
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, &ParseError{Path: path, Format: p.Format(), Err: err}
	}

	fields := pf.Schema().Fields()
	cols := make([]string, len(fields))
	for i, fld := range fields {
		cols[i] = fld.Name()
	}
	if len(cols) == 0 {
		return nil, &ParseError{Path: path, Format: p.Format(), Err: errEmptyFile}
	}

	var rows [][]string
	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		buf := make([]parquet.Row, 256)
		for {
			n, err := rr.ReadRows(buf)
			for _, prow := range buf[:n] {
				cells := make([]string, len(cols))
				for _, v := range prow {
					ci := v.Column()
					if ci < 0 || ci >= len(cells) || v.IsNull() {
						continue
					}
					cells[ci] = parquetCellString(v)
				}
				rows = append(rows, cells)
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rr.Close()
				return nil, &ParseError{Path: path, Format: p.Format(), Err: err}
			}
			if n == 0 {
				break
			}
		}
		rr.Close()
	}

	t := NewTable(cols, rows)
	t.Name = filepath.Base(path)
	return t, nil
}

func parquetCellString(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	default:
		return v.String()
	}
}
