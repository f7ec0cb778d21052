package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"golang.org/x/text/encoding/charmap"
)

// buildXLSX writes string cells starting at the given zero-based row offset.
func buildXLSX(t *testing.T, rows [][]string, startRow int) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, rec := range rows {
		for j, val := range rec {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, startRow+i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func semicolonCSV(header string, rows ...string) []byte {
	return []byte(header + "\n" + strings.Join(rows, "\n") + "\n")
}

func TestDNBMastercard_Basic(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Beløpet gjelder", "Valuta", "Inn", "Ut"},
		{"2025-01-15", "Coffee Shop", "NOK", "", "45,00"},
		{"2025-01-16", "Grocery Store", "NOK", "", "250,50"},
	}, 0)

	res, err := extractDNBMastercard(data, "test.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "Coffee Shop", res.Transactions[0].Title)
	assert.Equal(t, int64(4500), res.Transactions[0].Amount)
	assert.Equal(t, "DNB Credit", res.Transactions[0].Source)
	assert.Equal(t, "2025-01-15", res.Transactions[0].Date)
	assert.False(t, res.Transactions[0].IsShared)

	assert.Equal(t, int64(25050), res.Transactions[1].Amount)
}

func TestDNBMastercard_FiltersIncoming(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Beløpet gjelder", "Inn", "Ut"},
		{"2025-01-15", "Purchase", "", "100,00"},
		{"2025-01-16", "Refund", "50,00", ""},
	}, 0)

	res, err := extractDNBMastercard(data, "test.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Purchase", res.Transactions[0].Title)
}

func TestDNBMastercard_MissingColumn(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Wrong Column", "Inn", "Ut"},
		{"2025-01-15", "test", "", "100,00"},
	}, 0)

	_, err := extractDNBMastercard(data, "test.xlsx")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "missing required column: Beløpet gjelder")
	assert.Contains(t, err.Error(), "Wrong Column")
}

func TestDNBMastercard_RawDataRetained(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Beløpet gjelder", "Inn", "Ut"},
		{"2025-01-15", "Coffee Shop", "", "45,00"},
	}, 0)

	res, err := extractDNBMastercard(data, "test.xlsx")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Dato":"2025-01-15","Beløpet gjelder":"Coffee Shop","Ut":"45,00"}`, res.Transactions[0].RawData)
}

func TestAmexNorway_HeaderOffset(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Beskrivelse", "Kortmedlem", "Beløp"},
		{"2025-01-15", "Restaurant ABC", "John Doe", "450,00"},
		{"2025-01-16", "Online Store", "John Doe", "199,90"},
	}, amexHeaderRow)

	res, err := extractAmexNorway(data, "aktivitet.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "Restaurant ABC", res.Transactions[0].Title)
	assert.Equal(t, int64(45000), res.Transactions[0].Amount)
	assert.Equal(t, "Amex", res.Transactions[0].Source)
	assert.Equal(t, int64(19990), res.Transactions[1].Amount)
}

func TestAmexNorway_SkipsRowsWithoutDateOrDescription(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"Dato", "Beskrivelse", "Beløp"},
		{"2025-01-15", "Restaurant", "450,00"},
		{"", "", "450,00"}, // summary footer
	}, amexHeaderRow)

	res, err := extractAmexNorway(data, "aktivitet.xlsx")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
}

func TestSB1Credit_Basic(t *testing.T) {
	data := semicolonCSV(
		"Kjøpsdato;Posteringsdato;Beskrivelse;Beløp",
		"2025-01-15;2025-01-16;Coffee Shop;-45,50",
		"2025-01-16;2025-01-17;Supermarket;-320,00",
	)

	res, err := sb1Credit().Extract(data, "transactions.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "Coffee Shop", res.Transactions[0].Title)
	assert.Equal(t, int64(4550), res.Transactions[0].Amount)
	assert.Equal(t, "SB1 Credit", res.Transactions[0].Source)
	assert.Equal(t, int64(32000), res.Transactions[1].Amount)
}

func TestSB1Credit_FiltersPositiveAmounts(t *testing.T) {
	data := semicolonCSV(
		"Kjøpsdato;Posteringsdato;Beskrivelse;Beløp",
		"2025-01-15;2025-01-16;Purchase;-100,00",
		"2025-01-16;2025-01-17;Refund;50,00",
	)

	res, err := sb1Credit().Extract(data, "transactions.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Purchase", res.Transactions[0].Title)
}

func TestSB1Credit_Latin1Encoding(t *testing.T) {
	enc := charmap.ISO8859_1.NewEncoder()
	data, err := enc.Bytes(semicolonCSV(
		"Kjøpsdato;Posteringsdato;Beskrivelse;Beløp",
		"2025-01-15;2025-01-16;Café Nørdik;-89,00",
	))
	require.NoError(t, err)

	res, err := sb1Credit().Extract(data, "transactions.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Café Nørdik", res.Transactions[0].Title)
}

func TestSB1Credit_MissingColumn(t *testing.T) {
	data := semicolonCSV(
		"Dato;Beskrivelse;Sum",
		"2025-01-15;Coffee;-45,50",
	)

	_, err := sb1Credit().Extract(data, "transactions.csv")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "missing required column: Kjøpsdato")
}

func TestSB1Common_SharedAndNorwegianDates(t *testing.T) {
	data := semicolonCSV(
		"Dato;Beskrivelse;Ut",
		"16.01.2025;Utilities;-450,00",
		"15.01.2025;Rent Payment;-8500,00",
	)

	res, err := Default().Run("sb1_common", data, "common.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	rent := res.Transactions[0]
	assert.Equal(t, "2025-01-15", rent.Date)
	assert.Equal(t, "Rent Payment", rent.Title)
	assert.Equal(t, int64(850000), rent.Amount)
	assert.Equal(t, "SB1 Common", rent.Source)
	assert.True(t, rent.IsShared)
	assert.Equal(t, 0, rent.SortIndex)

	utilities := res.Transactions[1]
	assert.Equal(t, "2025-01-16", utilities.Date)
	assert.Equal(t, int64(45000), utilities.Amount)
	assert.True(t, utilities.IsShared)
	assert.Equal(t, 1, utilities.SortIndex)
}

func TestSB1Common_FiltersIncoming(t *testing.T) {
	data := semicolonCSV(
		"Dato;Beskrivelse;Ut",
		"15.01.2025;Expense;-100,00",
		"16.01.2025;Transfer In;500,00",
	)

	res, err := sb1Common().Extract(data, "common.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Expense", res.Transactions[0].Title)
}

func TestSB1Debit_Basic(t *testing.T) {
	data := semicolonCSV(
		"Dato;Posteringsdato;Beskrivelse;Ut",
		"15.01.2025;16.01.2025;ATM Withdrawal;-500,00",
		"16.01.2025;17.01.2025;Card Payment;-125,50",
	)

	res, err := sb1Debit().Extract(data, "debit.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "ATM Withdrawal", res.Transactions[0].Title)
	assert.Equal(t, int64(50000), res.Transactions[0].Amount)
	assert.Equal(t, "SB1 Debit", res.Transactions[0].Source)
	assert.False(t, res.Transactions[0].IsShared)
	assert.Equal(t, int64(12550), res.Transactions[1].Amount)
}

func TestSB1Debit_UndecodableSkippedRowsAbsent(t *testing.T) {
	// Fixed extractors exclude rows only via the declared sign filter; an
	// unparseable outgoing amount counts as non-negative and is excluded.
	data := semicolonCSV(
		"Dato;Beskrivelse;Ut",
		"15.01.2025;Good;-10,00",
		"16.01.2025;Bad;not-a-number",
	)

	res, err := sb1Debit().Extract(data, "debit.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Empty(t, res.Skipped)
}
