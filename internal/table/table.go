// Package table decodes delimited text and single-sheet spreadsheet exports
// into header-keyed rows.
package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Row is a single data row keyed by trimmed header name.
type Row map[string]string

// Table is a decoded tabular file. Columns preserves source order; Rows
// preserves source row order.
type Table struct {
	Columns []string
	Rows    []Row
}

// JSON serializes the row for audit retention alongside the extracted record.
func (r Row) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// charset is one entry in the ordered decode fallback.
type charset struct {
	name    string
	decoder *charmap.Charmap // nil means plain UTF-8
}

// charsets are tried in order; the first that decodes without error wins.
// Windows-1252 stands in for latin-1: real exports labelled latin-1 routinely
// use the 0x80-0x9F punctuation range.
var charsets = []charset{
	{"utf-8", nil},
	{"latin-1", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// decodeText converts raw file bytes to a UTF-8 string using the ordered
// charset fallback.
func decodeText(data []byte) (string, error) {
	for _, cs := range charsets {
		if cs.decoder == nil {
			if utf8.Valid(data) {
				return string(data), nil
			}
			continue
		}
		out, err := cs.decoder.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), nil
		}
	}
	names := make([]string, len(charsets))
	for i, cs := range charsets {
		names[i] = cs.name
	}
	return "", fmt.Errorf("could not decode file with any supported encoding (tried %s)", strings.Join(names, ", "))
}

// SniffSep guesses the delimiter of a delimited text file from its header
// line, choosing between semicolon and comma.
func SniffSep(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// DecodeCSV parses delimited text into a Table. The header row names the
// columns; leading/trailing whitespace is trimmed from headers and values.
func DecodeCSV(data []byte, sep rune) (*Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sep
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// DecodeExcel parses the first sheet of an xlsx workbook into a Table.
// headerRow is the zero-based index of the header row; institutions that put
// report banners above the data use a non-zero offset.
func DecodeExcel(data []byte, headerRow int) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in spreadsheet")
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet rows: %w", err)
	}
	if len(all) <= headerRow {
		return nil, fmt.Errorf("spreadsheet has no header row at offset %d", headerRow)
	}

	header := all[headerRow]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(all)-headerRow-1)
	for _, rec := range all[headerRow+1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// IsExcel checks magic bytes for xlsx (ZIP) or legacy xls (OLE2) content.
func IsExcel(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return true
	}
	if data[0] == 0xD0 && data[1] == 0xCF && data[2] == 0x11 && data[3] == 0xE0 {
		return true
	}
	return false
}
