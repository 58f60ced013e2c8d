package payer

import "time"

// Payer is an insurance plan or health-coverage provider.
type Payer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation *string   `json:"abbreviation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PayerRequest struct {
	Name         string  `json:"name"`
	Abbreviation *string `json:"abbreviation,omitempty"`
}
