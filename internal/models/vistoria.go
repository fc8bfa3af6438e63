package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type VistoriaStatus string

const (
	StatusPending    VistoriaStatus = "PENDING"
	StatusInProgress VistoriaStatus = "IN_PROGRESS"
	StatusCompleted  VistoriaStatus = "COMPLETED"
	StatusApproved   VistoriaStatus = "APPROVED"
	StatusRejected   VistoriaStatus = "REJECTED"
)

func (s VistoriaStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s VistoriaStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ErrAlreadyStarted signals a benign double-submit of the start action.
var ErrAlreadyStarted = errors.New("vistoria already started")

type InvalidStateError struct {
	Current   VistoriaStatus
	Attempted VistoriaStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot move vistoria from %s to %s", e.Current, e.Attempted)
}

type ApprovalBlockedError struct {
	Current          VistoriaStatus
	MandatoryPending int
}

func (e *ApprovalBlockedError) Error() string {
	return fmt.Sprintf("approval blocked: status=%s, %d mandatory item(s) pending", e.Current, e.MandatoryPending)
}

// Vistoria is one vessel inspection engagement, tracked from assignment
// until it is approved or rejected.
type Vistoria struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VesselID uint   `gorm:"not null;index" json:"vessel_id"`
	Vessel   Vessel `json:"vessel,omitempty"`

	LocationID uint     `gorm:"not null" json:"location_id"`
	Location   Location `json:"location,omitempty"`

	InspectorID uint `gorm:"not null;index" json:"inspector_id"`
	Inspector   User `json:"inspector,omitempty"`

	AdminID uint `gorm:"not null" json:"admin_id"`
	Admin   User `json:"admin,omitempty"`

	Status VistoriaStatus `gorm:"type:varchar(20);not null" json:"status"`

	// LockVersion is bumped by every write that can move the approval
	// gate, including checklist item writes that belong to this
	// vistoria. Lifecycle updates guard on it so a transition never
	// commits over an item flip it did not see.
	LockVersion uint `gorm:"not null;default:0" json:"-"`

	// Free-form field-form payload, persisted and returned verbatim.
	DraftData json.RawMessage `gorm:"type:jsonb" json:"draft_data,omitempty"`

	StartDate      *time.Time `json:"start_date"`
	ConclusionDate *time.Time `json:"conclusion_date"`
	ApprovalDate   *time.Time `json:"approval_date"`

	VesselValue   float64 `json:"vessel_value"`
	InspectionFee float64 `json:"inspection_fee"`
	InspectorFee  float64 `json:"inspector_fee"`

	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`

	ChecklistItems []VistoriaChecklistItem `json:"checklist_items,omitempty"`
}

// Start moves PENDING -> IN_PROGRESS and stamps the start date.
// The start date is set exactly once; a second call fails even if the
// status were somehow rolled back.
func (v *Vistoria) Start(now time.Time) error {
	if v.StartDate != nil {
		return ErrAlreadyStarted
	}
	if v.Status != StatusPending {
		return &InvalidStateError{Current: v.Status, Attempted: StatusInProgress}
	}
	v.StartDate = &now
	v.Status = StatusInProgress
	return nil
}

// ChangeStatus applies a transition requested after field work has begun.
// progress must be computed from the checklist items as read in the same
// transaction, so the approval gate observes a consistent snapshot.
func (v *Vistoria) ChangeStatus(next VistoriaStatus, progress ChecklistProgress, now time.Time) error {
	if !next.Valid() || next == StatusPending {
		return &InvalidStateError{Current: v.Status, Attempted: next}
	}
	if v.Status == StatusPending || v.Status.Terminal() {
		return &InvalidStateError{Current: v.Status, Attempted: next}
	}

	switch next {
	case StatusInProgress:
		// The field app re-states the current status alongside draft
		// patches; anything else has no path back to IN_PROGRESS.
		if v.Status != StatusInProgress {
			return &InvalidStateError{Current: v.Status, Attempted: next}
		}
	case StatusCompleted:
		// Re-stating COMPLETED must not reset the conclusion date.
		if v.ConclusionDate == nil {
			v.ConclusionDate = &now
		}
	case StatusApproved:
		if v.Status != StatusCompleted || !progress.CanApprove {
			return &ApprovalBlockedError{Current: v.Status, MandatoryPending: progress.MandatoryPending}
		}
		v.ApprovalDate = &now
	case StatusRejected:
		if v.Status != StatusCompleted {
			return &InvalidStateError{Current: v.Status, Attempted: next}
		}
	}

	v.Status = next
	return nil
}

// CanDelete reports whether the record may still be removed. Once field
// work has started the vistoria must be kept.
func (v *Vistoria) CanDelete() bool {
	return v.Status == StatusPending
}
