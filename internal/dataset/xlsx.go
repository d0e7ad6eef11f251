package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// xlsxReader decodes .xlsx workbooks. Only the first worksheet in workbook
// order is loaded; the pipeline works on a single table per file.
type xlsxReader struct{}

func (xlsxReader) Format() string { return "xlsx" }

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (x xlsxReader) Read(p string) (*Table, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, &ParseError{Path: p, Format: x.Format(), Err: err}
	}
	t, err := readWorkbook(b)
	if err != nil {
		return nil, &ParseError{Path: p, Format: x.Format(), Err: err}
	}
	t.Name = filepath.Base(p)
	return t, nil
}

func readWorkbook(b []byte) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	target := firstSheetPath(zr)
	sheetXML := zipEntry(zr, target)
	if sheetXML == nil {
		return nil, fmt.Errorf("worksheet %s not found in workbook", target)
	}
	shared := sharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	rows := newSheetRows(sheetXML, shared)
	header, ok := rows.Next()
	if !ok || len(header) == 0 {
		return nil, errors.New("worksheet has no header row")
	}
	var data [][]string
	for {
		row, ok := rows.Next()
		if !ok {
			break
		}
		data = append(data, row)
	}
	return NewTable(header, data), nil
}

// firstSheetPath resolves the archive path of the first worksheet declared in
// xl/workbook.xml via its relationship id, with a fallback to the
// conventional sheet1 location.
func firstSheetPath(zr *zip.Reader) string {
	rels := sheetRelationships(zipEntry(zr, "xl/_rels/workbook.xml.rels"))
	if rid := firstSheetRID(zipEntry(zr, "xl/workbook.xml")); rid != "" {
		if target, ok := rels[rid]; ok {
			return normalizeSheetPath(target)
		}
	}
	return "xl/worksheets/sheet1.xml"
}

func firstSheetRID(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheet" {
			for _, a := range se.Attr {
				if a.Name.Local == "id" { // r:id relationship attribute
					return a.Value
				}
			}
			return ""
		}
	}
}

func sheetRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

// normalizeSheetPath converts relationship targets to ZIP entry paths.
// Targets may carry a leading slash or be relative to xl/.
func normalizeSheetPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sharedStrings decodes xl/sharedStrings.xml into the indexed string list
// referenced by cells of type "s".
func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

// sheetRows streams <row> elements out of a worksheet XML document, resolving
// shared-string and inline-string cells and honoring cell references so that
// skipped (empty) cells keep their column positions.
type sheetRows struct {
	dec    *xml.Decoder
	shared []string
	cur    []string
	width  int
}

func newSheetRows(data []byte, shared []string) *sheetRows {
	return &sheetRows{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRows) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				r.cur = nil
				r.width = 0
			case "c":
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnFromRef(ref)
				if col < 0 {
					col = r.width
				}
				if col+1 > r.width {
					r.width = col + 1
				}
				val := r.cellValue(typ)
				if len(r.cur) <= col {
					grown := make([]string, col+1)
					copy(grown, r.cur)
					r.cur = grown
				}
				r.cur[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.cur) < r.width {
					grown := make([]string, r.width)
					copy(grown, r.cur)
					r.cur = grown
				}
				return r.cur, true
			}
		}
	}
}

// cellValue consumes tokens up to </c>, capturing <v> (plain or shared) or
// inline <is><t> content.
func (r *sheetRows) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				val = r.textUntil(se.Name.Local)
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					idx := digitsPrefix(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

func (r *sheetRows) textUntil(local string) string {
	var sb strings.Builder
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return sb.String()
		}
		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == local {
			return sb.String()
		}
		if ch, ok := tok.(xml.CharData); ok {
			sb.Write([]byte(ch))
		}
	}
}

// columnFromRef maps a cell reference like "C12" to its 0-based column
// index. Returns -1 when the reference carries no column letters.
func columnFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return -1
	}
	idx := 0
	for _, c := range strings.ToUpper(ref[:i]) {
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

func digitsPrefix(s string) int {
	n := 0
	ok := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		ok = true
	}
	if !ok {
		return -1
	}
	return n
}
