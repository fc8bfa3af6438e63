package models

import (
	"fmt"
	"math"
	"time"
)

// ChecklistTemplate is the reusable master checklist for one vessel type.
// Templates are master data: editing them never touches item copies that
// were already instantiated into open vistorias.
type ChecklistTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VesselType  VesselType `gorm:"type:varchar(20);not null;index" json:"vessel_type"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Active      bool       `gorm:"not null;default:true" json:"active"`

	Items []ChecklistTemplateItem `json:"items,omitempty"`
}

type ChecklistTemplateItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ChecklistTemplateID uint `gorm:"not null;index" json:"checklist_template_id"`

	Position    int    `gorm:"not null" json:"position"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Mandatory   bool   `gorm:"not null;default:false" json:"mandatory"`
	AllowsVideo bool   `gorm:"not null;default:false" json:"allows_video"` // video evidence accepted instead of a photo
	Active      bool   `gorm:"not null;default:true" json:"active"`
}

type ItemStatus string

const (
	ItemPending       ItemStatus = "PENDING"
	ItemDone          ItemStatus = "DONE"
	ItemNotApplicable ItemStatus = "NOT_APPLICABLE"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemDone, ItemNotApplicable:
		return true
	}
	return false
}

// VistoriaChecklistItem is the per-vistoria copy of a template item (or an
// ad hoc custom item). Mandatory/AllowsVideo are snapshots taken at
// instantiation time and never change afterwards: they record what was
// required when this inspection started.
type VistoriaChecklistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VistoriaID uint `gorm:"not null;index" json:"vistoria_id"`

	// Code is the stable identifier the photo app matches on.
	Code string `gorm:"size:36;uniqueIndex;not null" json:"code"`

	Position    int    `gorm:"not null" json:"position"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Mandatory   bool   `gorm:"not null;default:false" json:"mandatory"`
	AllowsVideo bool   `gorm:"not null;default:false" json:"allows_video"`

	Status      ItemStatus `gorm:"type:varchar(20);not null" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`

	PhotoID *uint           `json:"photo_id"`
	Photo   *ChecklistPhoto `json:"photo,omitempty"`
}

// SetStatus moves the item between PENDING/DONE/NOT_APPLICABLE in any
// direction; field conditions are reversible. Entering DONE stamps the
// completion time, leaving DONE clears it.
func (i *VistoriaChecklistItem) SetStatus(next ItemStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("invalid checklist item status %q", next)
	}
	if next == ItemDone {
		if i.Status != ItemDone {
			i.CompletedAt = &now
		}
	} else {
		i.CompletedAt = nil
	}
	i.Status = next
	return nil
}

type ChecklistProgress struct {
	Total            int  `json:"total"`
	Done             int  `json:"done"`
	Pending          int  `json:"pending"`
	NotApplicable    int  `json:"not_applicable"`
	MandatoryPending int  `json:"mandatory_pending"`
	Percent          int  `json:"percent"`
	CanApprove       bool `json:"can_approve"`
}

// ComputeProgress derives completion metrics and the approval eligibility
// flag from the item set. Pure: no storage access, no side effects.
// CanApprove only reflects checklist readiness; the state machine still
// requires COMPLETED status before APPROVED.
func ComputeProgress(items []VistoriaChecklistItem) ChecklistProgress {
	p := ChecklistProgress{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case ItemDone:
			p.Done++
		case ItemNotApplicable:
			p.NotApplicable++
		default:
			p.Pending++
			if it.Mandatory {
				p.MandatoryPending++
			}
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Done) / float64(p.Total) * 100))
	}
	p.CanApprove = p.MandatoryPending == 0
	return p
}

// CanApprove reports whether the checklist itself permits approval:
// no mandatory item may still be PENDING.
func CanApprove(items []VistoriaChecklistItem) bool {
	return ComputeProgress(items).CanApprove
}
