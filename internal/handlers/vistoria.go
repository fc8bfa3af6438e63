package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// CREATE
//

type createVistoriaRequest struct {
	VesselID      uint            `json:"vessel_id"`
	LocationID    uint            `json:"location_id"`
	InspectorID   uint            `json:"inspector_id"`
	VesselValue   float64         `json:"vessel_value"`
	InspectionFee float64         `json:"inspection_fee"`
	InspectorFee  float64         `json:"inspector_fee"`
	ContactName   string          `json:"contact_name"`
	ContactPhone  string          `json:"contact_phone"`
	DraftData     json.RawMessage `json:"draft_data"`
}

func CreateVistoria(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createVistoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	var vessel models.Vessel
	if err := database.DB.First(&vessel, req.VesselID).Error; err != nil {
		respondNotFound(c, "vessel")
		return
	}

	var location models.Location
	if err := database.DB.First(&location, req.LocationID).Error; err != nil {
		respondNotFound(c, "location")
		return
	}

	var inspector models.User
	if err := database.DB.First(&inspector, req.InspectorID).Error; err != nil {
		respondNotFound(c, "inspector")
		return
	}
	if inspector.Role != models.RoleInspector {
		respondValidation(c, "assigned user is not an inspector")
		return
	}

	v := models.Vistoria{
		VesselID:      vessel.ID,
		LocationID:    location.ID,
		InspectorID:   inspector.ID,
		AdminID:       admin.ID,
		Status:        models.StatusPending,
		DraftData:     req.DraftData,
		VesselValue:   req.VesselValue,
		InspectionFee: req.InspectionFee,
		InspectorFee:  req.InspectorFee,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
	}

	if err := database.DB.Create(&v).Error; err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(admin.ID, "vistoria", v.ID, "create",
		fmt.Sprintf("Vistoria criada para embarcação %s", vessel.Name))

	c.JSON(http.StatusCreated, v)
}

//
// LIST / DETAIL
//

func ListVistorias(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	dbq := database.DB.
		Preload("Vessel").
		Preload("Location").
		Preload("Inspector").
		Order("created_at desc")

	// inspectors only ever see their own assignments
	if user.Role == models.RoleInspector {
		dbq = dbq.Where("inspector_id = ?", user.ID)
	} else if inspStr := c.Query("inspector_id"); inspStr != "" {
		if iid, err := strconv.Atoi(inspStr); err == nil && iid > 0 {
			dbq = dbq.Where("inspector_id = ?", iid)
		}
	}

	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if vesselStr := c.Query("vessel_id"); vesselStr != "" {
		if vid, err := strconv.Atoi(vesselStr); err == nil && vid > 0 {
			dbq = dbq.Where("vessel_id = ?", vid)
		}
	}

	var vistorias []models.Vistoria
	if err := dbq.Find(&vistorias).Error; err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, vistorias)
}

// GetVistoria returns the record together with its ordered checklist
// items so the field app can render everything in one round trip.
func GetVistoria(c *gin.Context) {
	v, _, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	var full models.Vistoria
	err := database.DB.
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("ChecklistItems.Photo").
		Preload("Vessel.Client").
		Preload("Location").
		Preload("Inspector").
		First(&full, v.ID).Error
	if err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, full)
}

//
// LIFECYCLE
//

// StartVistoria moves PENDING -> IN_PROGRESS. Allowed for the assigned
// inspector or an admin; the start date is stamped exactly once.
func StartVistoria(c *gin.Context) {
	v, user, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	now := time.Now()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var cur models.Vistoria
		if err := tx.First(&cur, v.ID).Error; err != nil {
			return err
		}
		prev := cur.Status

		if err := cur.Start(now); err != nil {
			return err
		}

		res := tx.Model(&models.Vistoria{}).
			Where("id = ? AND status = ? AND lock_version = ?", cur.ID, string(prev), cur.LockVersion).
			Updates(map[string]any{
				"status":       string(cur.Status),
				"start_date":   cur.StartDate,
				"lock_version": cur.LockVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConflict
		}
		cur.LockVersion++
		*v = cur
		return nil
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "vistoria", v.ID, "start", "Vistoria iniciada")

	c.JSON(http.StatusOK, v)
}

type updateStatusRequest struct {
	Status        models.VistoriaStatus `json:"status"`
	DraftData     json.RawMessage       `json:"draft_data"`
	VesselValue   *float64              `json:"vessel_value"`
	InspectionFee *float64              `json:"inspection_fee"`
	InspectorFee  *float64              `json:"inspector_fee"`
	ContactName   *string               `json:"contact_name"`
	ContactPhone  *string               `json:"contact_phone"`
}

// UpdateVistoriaStatus advances the lifecycle and applies field patches in
// the same call. The checklist is re-read inside the transaction so the
// approval gate and the status write observe one consistent snapshot.
func UpdateVistoriaStatus(c *gin.Context) {
	v, user, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	if !req.Status.Valid() {
		respondValidation(c, "invalid status")
		return
	}

	now := time.Now()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var cur models.Vistoria
		if err := tx.First(&cur, v.ID).Error; err != nil {
			return err
		}
		prev := cur.Status

		var items []models.VistoriaChecklistItem
		if err := tx.Where("vistoria_id = ?", cur.ID).Find(&items).Error; err != nil {
			return err
		}
		progress := models.ComputeProgress(items)

		// patches ride along with the transition; if the transition is
		// rejected nothing is persisted
		if req.DraftData != nil {
			cur.DraftData = req.DraftData
		}
		if req.VesselValue != nil {
			cur.VesselValue = *req.VesselValue
		}
		if req.InspectionFee != nil {
			cur.InspectionFee = *req.InspectionFee
		}
		if req.InspectorFee != nil {
			cur.InspectorFee = *req.InspectorFee
		}
		if req.ContactName != nil {
			cur.ContactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			cur.ContactPhone = *req.ContactPhone
		}

		if err := cur.ChangeStatus(req.Status, progress, now); err != nil {
			return err
		}

		// the version guard is what actually serializes approval against
		// item writers: a checklist flip committed after the item read
		// above bumped lock_version, so this update matches zero rows
		res := tx.Model(&models.Vistoria{}).
			Where("id = ? AND status = ? AND lock_version = ?", cur.ID, string(prev), cur.LockVersion).
			Updates(map[string]any{
				"status":          string(cur.Status),
				"draft_data":      cur.DraftData,
				"conclusion_date": cur.ConclusionDate,
				"approval_date":   cur.ApprovalDate,
				"vessel_value":    cur.VesselValue,
				"inspection_fee":  cur.InspectionFee,
				"inspector_fee":   cur.InspectorFee,
				"contact_name":    cur.ContactName,
				"contact_phone":   cur.ContactPhone,
				"lock_version":    cur.LockVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConflict
		}
		cur.LockVersion++
		*v = cur
		return nil
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "vistoria", v.ID, "status_change",
		"Status alterado para: "+string(v.Status))

	c.JSON(http.StatusOK, v)
}

// DeleteVistoria removes a vistoria that never left PENDING. Anything
// later is field work and must be preserved.
func DeleteVistoria(c *gin.Context) {
	v, user, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	if !v.CanDelete() {
		respondForbidden(c)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vistoria_id = ?", v.ID).Delete(&models.VistoriaChecklistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vistoria{}, v.ID).Error
	})
	if err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "vistoria", v.ID, "delete", "Vistoria removida")

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
