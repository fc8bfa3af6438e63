package models

import "time"

type VesselType string

const (
	VesselLancha  VesselType = "lancha"
	VesselVeleiro VesselType = "veleiro"
	VesselJetSki  VesselType = "jetski"
	VesselIate    VesselType = "iate"
	VesselOutro   VesselType = "outro"
)

func (t VesselType) Valid() bool {
	switch t {
	case VesselLancha, VesselVeleiro, VesselJetSki, VesselIate, VesselOutro:
		return true
	}
	return false
}

type Vessel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `json:"client,omitempty"`

	InsurerID uint    `gorm:"index" json:"insurer_id"`
	Insurer   Insurer `json:"insurer,omitempty"`

	Name         string     `gorm:"size:255;not null" json:"name"`
	Type         VesselType `gorm:"type:varchar(20);not null" json:"type"`
	Registration string     `gorm:"size:50" json:"registration"` // TIE / registro na Capitania
	HullID       string     `gorm:"size:50" json:"hull_id"`
	Year         int        `json:"year"`
	LengthMeters float64    `json:"length_meters"`
}
