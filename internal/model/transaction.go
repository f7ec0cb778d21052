package model

// ExtractedTransaction is one normalized transaction produced by an extractor.
// Amounts are non-negative minor units (øre/cents): 1250 = 12.50 kr. Direction
// is resolved by extractor-level filtering, never carried as a negative amount.
type ExtractedTransaction struct {
	Date        string `json:"date"` // ISO YYYY-MM-DD
	Title       string `json:"title"`
	Amount      int64  `json:"amount"`
	Source      string `json:"source,omitempty"`      // producing extractor/institution
	Description string `json:"description,omitempty"` // secondary text, unused by current extractors
	IsShared    bool   `json:"isShared"`
	RawData     string `json:"raw_data,omitempty"` // original source row, serialized for audit
	SortIndex   int    `json:"sortIndex"`          // dense zero-based, assigned after sorting
}
