package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// jsonReader decodes JSON datasets in the tabular layouts produced by
// dataframe exports: an array of record objects, newline-delimited record
// objects, or a single object mapping column names to equal-length value
// arrays. Decoding walks tokens so column order follows first appearance in
// the document.
type jsonReader struct{}

func (jsonReader) Format() string { return "json" }

func (jsonReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (j jsonReader) Read(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: j.Format(), Err: err}
	}
	t, err := decodeJSONTable(b)
	if err != nil {
		return nil, &ParseError{Path: path, Format: j.Format(), Err: err}
	}
	t.Name = filepath.Base(path)
	return t, nil
}

func decodeJSONTable(b []byte) (*Table, error) {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errEmptyFile
	}
	switch trimmed[0] {
	case '[':
		return decodeRecordArray(b)
	case '{':
		objs, err := splitTopLevelObjects(b)
		if err != nil {
			return nil, err
		}
		if len(objs) > 1 {
			// newline-delimited records
			return decodeRecordObjects(objs)
		}
		return decodeColumnArrays(objs[0])
	default:
		return nil, errors.New("top-level JSON value is not an array or object")
	}
}

// splitTopLevelObjects reads the document as a stream of top-level JSON
// values; more than one value means newline-delimited records.
func splitTopLevelObjects(b []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	var out []json.RawMessage
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	if len(out) == 0 {
		return nil, errEmptyFile
	}
	return out, nil
}

// decodeRecordArray handles [{"col": val, ...}, ...].
func decodeRecordArray(b []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var objs []json.RawMessage
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		objs = append(objs, raw)
	}
	if len(objs) == 0 {
		return nil, errEmptyFile
	}
	return decodeRecordObjects(objs)
}

// decodeRecordObjects builds a table from record objects. Keys seen in later
// records extend the column set; earlier rows keep empty cells there.
func decodeRecordObjects(objs []json.RawMessage) (*Table, error) {
	var cols []string
	colIdx := map[string]int{}
	rows := make([][]string, 0, len(objs))
	for _, obj := range objs {
		cells, err := decodeRecordCells(obj, &cols, colIdx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, cells)
	}
	if len(cols) == 0 {
		return nil, errEmptyFile
	}
	return NewTable(cols, rows), nil
}

func decodeRecordCells(obj json.RawMessage, cols *[]string, colIdx map[string]int) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("record rows must be objects")
	}
	cells := make([]string, len(*cols))
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		idx, ok := colIdx[key]
		if !ok {
			idx = len(*cols)
			colIdx[key] = idx
			*cols = append(*cols, key)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if len(cells) <= idx {
			grown := make([]string, idx+1)
			copy(grown, cells)
			cells = grown
		}
		cells[idx] = jsonCellString(v)
	}
	return cells, nil
}

// decodeColumnArrays handles {"col": [v1, v2, ...], ...}.
func decodeColumnArrays(b []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var cols []string
	var series [][]string
	height := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var vals []any
		if err := dec.Decode(&vals); err != nil {
			return nil, fmt.Errorf("column %q: %w", key, err)
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = jsonCellString(v)
		}
		cols = append(cols, key)
		series = append(series, cells)
		if len(cells) > height {
			height = len(cells)
		}
	}
	if len(cols) == 0 {
		return nil, errEmptyFile
	}
	rows := make([][]string, height)
	for i := range rows {
		row := make([]string, len(cols))
		for j, s := range series {
			if i < len(s) {
				row[j] = s[i]
			}
		}
		rows[i] = row
	}
	return NewTable(cols, rows), nil
}

func jsonCellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		// nested arrays/objects keep their compact JSON form
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
