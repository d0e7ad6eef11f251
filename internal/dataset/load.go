package dataset

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reader decodes one on-disk table format.
type Reader interface {
	CanRead(filename string) bool
	Format() string
	Read(path string) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	// Register default readers; declaration order decides dispatch order.
	Register(csvReader{})
	Register(xlsxReader{})
	Register(parquetReader{})
	Register(jsonReader{})
}

// extPriority orders candidate files when several formats are present in an
// archive or directory scan.
var extPriority = []string{".csv", ".tsv", ".xlsx", ".parquet", ".json"}

// Load selects a reader based on the file extension and returns the decoded
// table. ZIP archives are searched for their first supported entry. There is
// no content sniffing: an extension no reader claims fails with
// UnsupportedFormatError.
func Load(path string) (*Table, error) {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".zip") {
		return loadArchive(path)
	}
	if r := readerFor(path); r != nil {
		return r.Read(path)
	}
	if strings.HasSuffix(name, ".xls") {
		return nil, &UnsupportedFormatError{Path: path, Ext: ".xls",
			Hint: "legacy Excel workbooks are not readable; convert the file to .xlsx"}
	}
	return nil, &UnsupportedFormatError{Path: path, Ext: filepath.Ext(path)}
}

// Supported reports whether the filename would dispatch to a reader
// (directly or as a ZIP archive).
func Supported(filename string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return true
	}
	return readerFor(filename) != nil
}

func readerFor(filename string) Reader {
	for _, r := range registry {
		if r.CanRead(filename) {
			return r
		}
	}
	return nil
}

// FindTableFile walks dir recursively and returns the first loadable table
// file, honoring extPriority and, within one extension, lexical path order.
// ok=false when the directory holds nothing loadable.
func FindTableFile(dir string) (string, bool) {
	byExt := map[string][]string{}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		byExt[ext] = append(byExt[ext], path)
		return nil
	})
	candidates := append(append([]string{}, extPriority...), ".zip")
	for _, ext := range candidates {
		files := byExt[ext]
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		return files[0], true
	}
	return "", false
}

// loadArchive extracts the preferred entry of a ZIP archive to a temporary
// file and loads it. Candidates follow extPriority, then archive order;
// directory and metadata entries (dotfiles, __MACOSX) are skipped.
func loadArchive(path string) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: "zip", Err: err}
	}
	defer zr.Close()

	entry := pickArchiveEntry(&zr.Reader)
	if entry == nil {
		return nil, &UnsupportedFormatError{Path: path, Ext: ".zip",
			Hint: "archive contains no supported table file"}
	}
	base := filepath.Base(entry.Name)
	inner, err := extractEntry(entry, base)
	if err != nil {
		return nil, &ParseError{Path: path, Format: "zip", Err: err}
	}
	defer os.RemoveAll(filepath.Dir(inner))

	t, err := readerFor(base).Read(inner)
	if err != nil {
		return nil, err
	}
	t.Name = base
	return t, nil
}

func pickArchiveEntry(zr *zip.Reader) *zip.File {
	for _, ext := range extPriority {
		for _, f := range zr.File {
			if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
				continue
			}
			base := filepath.Base(f.Name)
			if strings.HasPrefix(base, ".") {
				continue
			}
			if strings.HasSuffix(strings.ToLower(base), ext) && readerFor(base) != nil {
				return f
			}
		}
	}
	return nil
}

func extractEntry(f *zip.File, base string) (string, error) {
	dir, err := os.MkdirTemp("", "filmtally-zip-")
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, base)
	rc, err := f.Open()
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	defer rc.Close()
	out, err := os.Create(dst)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return dst, nil
}
