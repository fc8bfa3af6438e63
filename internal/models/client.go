package models

import "time"

// Client is the vessel owner that requested the inspection.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	CPFCNPJ string `gorm:"column:cpf_cnpj;size:20" json:"cpf_cnpj"`
	Email   string `gorm:"size:255" json:"email"`
	Phone   string `gorm:"size:50" json:"phone"`
	Notes   string `gorm:"type:text" json:"notes"`

	Vessels []Vessel `json:"vessels,omitempty"`
}
