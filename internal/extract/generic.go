package extract

import (
	"fmt"
	"strings"

	"github.com/uttrekk-dev/uttrekk/internal/locale"
	"github.com/uttrekk-dev/uttrekk/internal/model"
	"github.com/uttrekk-dev/uttrekk/internal/table"
)

// Candidate column names for each role, in priority order. Exact matches
// against the case-folded header win before any content heuristic runs.
var (
	genericDateCols   = []string{"date", "datum", "transaction_date", "bokföringsdatum", "transaktionsdatum"}
	genericDescCols   = []string{"description", "title", "text", "beskrivning", "transaktion", "memo", "name"}
	genericAmountCols = []string{"amount", "belopp", "sum", "summa", "value", "värde"}
)

// sampleSize is how many leading values a content heuristic inspects.
const sampleSize = 5

// genericCSV extracts delimited exports with no registered fixed schema by
// inferring which column holds the date, description, and amount.
func genericCSV() Definition {
	return Definition{
		Name:        "generic_csv",
		Description: "Generic CSV extractor - expects columns: date, description/title, amount",
		Formats:     []string{"csv"},
		Extract:     extractGenericCSV,
	}
}

func extractGenericCSV(data []byte, _ string) (*RawResult, error) {
	tbl, err := table.DecodeCSV(data, table.SniffSep(data))
	if err != nil {
		return nil, asValidation(err)
	}

	// Case-folded, trimmed header names aligned with tbl.Columns.
	norm := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		norm[i] = strings.ToLower(strings.TrimSpace(c))
	}

	dateCol, err := findDateColumn(tbl, norm)
	if err != nil {
		return nil, err
	}
	descCol, err := findDescColumn(tbl, norm, dateCol)
	if err != nil {
		return nil, err
	}
	amountCol, err := findAmountColumn(tbl, norm, dateCol, descCol)
	if err != nil {
		return nil, err
	}

	res := &RawResult{}
	for i, row := range tbl.Rows {
		line := i + 2 // 1-based, header on line 1

		date, ok := locale.ParseDateStrict(row[dateCol])
		if !ok {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("unparseable date %q", row[dateCol])})
			continue
		}
		amount, ok := locale.ParseSignedAmount(row[amountCol])
		if !ok {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("unparseable amount %q", row[amountCol])})
			continue
		}
		title := strings.TrimSpace(row[descCol])
		if title == "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "empty description"})
			continue
		}

		res.Transactions = append(res.Transactions, model.ExtractedTransaction{
			Date:    date,
			Title:   title,
			Amount:  locale.MinorUnits(amount),
			RawData: row.JSON(),
		})
	}
	return res, nil
}

// findByName returns the original header name of the first candidate present
// in the normalized header, trying candidates in priority order.
func findByName(tbl *table.Table, norm []string, candidates []string) (string, bool) {
	for _, want := range candidates {
		for i, n := range norm {
			if n == want {
				return tbl.Columns[i], true
			}
		}
	}
	return "", false
}

// sample returns up to sampleSize leading non-empty values of a column.
func sample(tbl *table.Table, col string) []string {
	var vals []string
	for _, row := range tbl.Rows {
		if v := strings.TrimSpace(row[col]); v != "" {
			vals = append(vals, v)
		}
		if len(vals) == sampleSize {
			break
		}
	}
	return vals
}

// allDates reports whether every sampled value parses as a date.
func allDates(vals []string) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if _, ok := locale.ParseDateStrict(v); !ok {
			return false
		}
	}
	return true
}

// allNumeric reports whether every sampled value parses as a number after
// locale cleanup.
func allNumeric(vals []string) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if _, ok := locale.ParseSignedAmount(v); !ok {
			return false
		}
	}
	return true
}

func findDateColumn(tbl *table.Table, norm []string) (string, error) {
	if col, ok := findByName(tbl, norm, genericDateCols); ok {
		return col, nil
	}
	for _, col := range tbl.Columns {
		if allDates(sample(tbl, col)) {
			return col, nil
		}
	}
	return "", validationf("could not find a date column")
}

func findDescColumn(tbl *table.Table, norm []string, dateCol string) (string, error) {
	if col, ok := findByName(tbl, norm, genericDescCols); ok {
		return col, nil
	}
	// First remaining text-typed column: has values and they are not all
	// numeric.
	for _, col := range tbl.Columns {
		if col == dateCol {
			continue
		}
		vals := sample(tbl, col)
		if len(vals) > 0 && !allNumeric(vals) {
			return col, nil
		}
	}
	return "", validationf("could not find a description column")
}

func findAmountColumn(tbl *table.Table, norm []string, dateCol, descCol string) (string, error) {
	if col, ok := findByName(tbl, norm, genericAmountCols); ok {
		return col, nil
	}
	for _, col := range tbl.Columns {
		if col == dateCol || col == descCol {
			continue
		}
		if allNumeric(sample(tbl, col)) {
			return col, nil
		}
	}
	return "", validationf("could not find an amount column")
}
