package models

import "time"

// PaymentBatch groups approved vistorias for inspector payout. Batches
// only read inspection data; they never feed back into inspection state.
type PaymentBatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Reference string `gorm:"size:50;not null" json:"reference"` // e.g. "2026-08"

	GeneratedByID uint `gorm:"not null" json:"generated_by_id"`
	GeneratedBy   User `json:"generated_by,omitempty"`

	Total float64 `json:"total"`

	Items []PaymentBatchItem `json:"items,omitempty"`
}

type PaymentBatchItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PaymentBatchID uint `gorm:"not null;index" json:"payment_batch_id"`

	// A vistoria is billed at most once.
	VistoriaID uint     `gorm:"not null;uniqueIndex" json:"vistoria_id"`
	Vistoria   Vistoria `json:"vistoria,omitempty"`

	InspectorID uint    `gorm:"not null;index" json:"inspector_id"`
	Amount      float64 `json:"amount"`
}
