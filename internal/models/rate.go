package models

import "time"

// KeyRate is the latest central bank key rate and the lending reference
// rate derived from it
type KeyRate struct {
	KeyRate       float64   `json:"key_rate"`
	BankMargin    float64   `json:"bank_margin"`
	ReferenceRate float64   `json:"reference_rate"`
	FetchedAt     time.Time `json:"fetched_at"`
}
