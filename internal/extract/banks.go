package extract

import (
	"strings"

	"github.com/uttrekk-dev/uttrekk/internal/locale"
	"github.com/uttrekk-dev/uttrekk/internal/model"
	"github.com/uttrekk-dev/uttrekk/internal/table"
)

// requireColumns verifies every required column is present in the decoded
// table.
func requireColumns(tbl *table.Table, required []string) error {
	have := make(map[string]bool, len(tbl.Columns))
	for _, c := range tbl.Columns {
		have[c] = true
	}
	for _, c := range required {
		if !have[c] {
			return validationf("missing required column: %s (found: %s)", c, strings.Join(tbl.Columns, ", "))
		}
	}
	return nil
}

// selectColumns narrows a row to the named columns for audit serialization.
func selectColumns(row table.Row, cols ...string) table.Row {
	out := make(table.Row, len(cols))
	for _, c := range cols {
		out[c] = row[c]
	}
	return out
}

// dnbMastercard extracts DNB MasterCard spreadsheet exports. The export
// carries an incoming/outgoing column pair; only outgoing rows (empty Inn)
// are kept.
func dnbMastercard() Definition {
	return Definition{
		Name:        "dnb_mastercard",
		Description: "DNB MasterCard Extraction",
		Formats:     []string{"xlsx", "xls"},
		Extract:     extractDNBMastercard,
	}
}

func extractDNBMastercard(data []byte, _ string) (*RawResult, error) {
	tbl, err := table.DecodeExcel(data, 0)
	if err != nil {
		return nil, asValidation(err)
	}
	required := []string{"Dato", "Beløpet gjelder", "Inn", "Ut"}
	if err := requireColumns(tbl, required); err != nil {
		return nil, err
	}

	res := &RawResult{}
	for _, row := range tbl.Rows {
		if row["Inn"] != "" {
			continue // incoming (refund) rows are excluded
		}
		res.Transactions = append(res.Transactions, model.ExtractedTransaction{
			Date:    locale.ParseDate(row["Dato"]),
			Title:   strings.TrimSpace(row["Beløpet gjelder"]),
			Amount:  locale.MinorUnits(locale.ParseAmount(row["Ut"])),
			Source:  "DNB Credit",
			RawData: selectColumns(row, "Dato", "Beløpet gjelder", "Ut").JSON(),
		})
	}
	return res, nil
}

// amexNorway extracts American Express Norway activity spreadsheets. The
// export puts a report banner above the data; the header sits at row 7.
func amexNorway() Definition {
	return Definition{
		Name:        "amex_norway",
		Description: "American Express Norway (aktivitet.xlsx)",
		Formats:     []string{"xlsx", "xls"},
		Extract:     extractAmexNorway,
	}
}

const amexHeaderRow = 6

func extractAmexNorway(data []byte, _ string) (*RawResult, error) {
	tbl, err := table.DecodeExcel(data, amexHeaderRow)
	if err != nil {
		return nil, asValidation(err)
	}
	required := []string{"Dato", "Beskrivelse", "Beløp"}
	if err := requireColumns(tbl, required); err != nil {
		return nil, err
	}

	res := &RawResult{}
	for _, row := range tbl.Rows {
		if row["Dato"] == "" || row["Beskrivelse"] == "" {
			continue // trailing summary rows have no date/description
		}
		res.Transactions = append(res.Transactions, model.ExtractedTransaction{
			Date:    locale.ParseDate(row["Dato"]),
			Title:   strings.TrimSpace(row["Beskrivelse"]),
			Amount:  locale.MinorUnits(locale.ParseAmount(row["Beløp"])),
			Source:  "Amex",
			RawData: selectColumns(row, required...).JSON(),
		})
	}
	return res, nil
}

// sb1CSV handles the three Sparebank1 CSV layouts: semicolon separator,
// comma decimal, and a designated outgoing-amount column where expenses are
// negative. Only negative rows survive.
type sb1CSV struct {
	required  []string
	dateCol   string
	titleCol  string
	amountCol string
	source    string
	isShared  bool
}

func (s sb1CSV) extract(data []byte, _ string) (*RawResult, error) {
	tbl, err := table.DecodeCSV(data, ';')
	if err != nil {
		return nil, asValidation(err)
	}
	if err := requireColumns(tbl, s.required); err != nil {
		return nil, err
	}

	res := &RawResult{}
	for _, row := range tbl.Rows {
		amount, ok := locale.ParseSignedAmount(row[s.amountCol])
		if !ok || !amount.IsNegative() {
			continue // refunds and incoming transfers are excluded
		}
		res.Transactions = append(res.Transactions, model.ExtractedTransaction{
			Date:     locale.ParseDate(row[s.dateCol]),
			Title:    strings.TrimSpace(row[s.titleCol]),
			Amount:   locale.MinorUnits(amount),
			Source:   s.source,
			IsShared: s.isShared,
			RawData:  selectColumns(row, s.required...).JSON(),
		})
	}
	return res, nil
}

func sb1Credit() Definition {
	p := sb1CSV{
		required:  []string{"Kjøpsdato", "Beskrivelse", "Beløp"},
		dateCol:   "Kjøpsdato",
		titleCol:  "Beskrivelse",
		amountCol: "Beløp",
		source:    "SB1 Credit",
	}
	return Definition{
		Name:        "sb1_credit",
		Description: "Sparebank1 MasterCard Credit (transactions.csv)",
		Formats:     []string{"csv"},
		Extract:     p.extract,
	}
}

func sb1Common() Definition {
	p := sb1CSV{
		required:  []string{"Dato", "Beskrivelse", "Ut"},
		dateCol:   "Dato",
		titleCol:  "Beskrivelse",
		amountCol: "Ut",
		source:    "SB1 Common",
		isShared:  true, // jointly-owned account
	}
	return Definition{
		Name:        "sb1_common",
		Description: "Sparebank1 Common Account (common.csv)",
		Formats:     []string{"csv"},
		Extract:     p.extract,
	}
}

func sb1Debit() Definition {
	p := sb1CSV{
		required:  []string{"Dato", "Beskrivelse", "Ut"},
		dateCol:   "Dato",
		titleCol:  "Beskrivelse",
		amountCol: "Ut",
		source:    "SB1 Debit",
	}
	return Definition{
		Name:        "sb1_debit",
		Description: "Sparebank1 Debit Account (debit.csv)",
		Formats:     []string{"csv"},
		Extract:     p.extract,
	}
}
