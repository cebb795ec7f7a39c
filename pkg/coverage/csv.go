package coverage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Format describes the layout of a delimited export. Zero values mean
// UTF-8 and auto-detected delimiter.
type Format struct {
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	Encoding  string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
}

// ParseCSV reads a whole delimited export into a Dataset. The first record
// is the header.
func ParseCSV(r io.Reader, g Granularity, f Format) (*Dataset, error) {
	if enc := f.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter(f.Delimiter, data)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, rec)
	}
	return NewDataset(g, "", header, records), nil
}

// delimiter returns the configured delimiter, or guesses between ';' and ','
// from the header line.
func delimiter(configured string, data []byte) rune {
	if configured != "" {
		if configured == `\t` {
			return '\t'
		}
		return []rune(configured)[0]
	}
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
