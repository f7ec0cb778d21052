// Package export serializes extraction results for downstream use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uttrekk-dev/uttrekk/internal/model"
)

// Header is the CSV header for exported transactions.
const Header = "date,title,amount,source,description,is_shared,sort_index"

const (
	numFields    = 7
	colDate      = 0
	colTitle     = 1
	colAmount    = 2
	colSource    = 3
	colDesc      = 4
	colShared    = 5
	colSortIndex = 6
)

// Marshal converts a transaction to a CSV row. Raw audit data is not
// exported; it exists for debugging, not for downstream consumers.
func Marshal(txn model.ExtractedTransaction) []string {
	row := make([]string, numFields)
	row[colDate] = txn.Date
	row[colTitle] = txn.Title
	row[colAmount] = strconv.FormatInt(txn.Amount, 10)
	row[colSource] = txn.Source
	row[colDesc] = txn.Description
	row[colShared] = strconv.FormatBool(txn.IsShared)
	row[colSortIndex] = strconv.Itoa(txn.SortIndex)
	return row
}

// WriteCSV writes transactions to w as CSV, including the header row.
func WriteCSV(w io.Writer, txns []model.ExtractedTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(Marshal(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
