package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bumpVistoriaVersion invalidates any in-flight lifecycle update on the
// parent vistoria. Every item write that can move the approval gate must
// call this in the same transaction, otherwise an approve that already
// read the items could commit over the flip.
func bumpVistoriaVersion(tx *gorm.DB, vistoriaID uint) error {
	return tx.Model(&models.Vistoria{}).
		Where("id = ?", vistoriaID).
		Update("lock_version", gorm.Expr("lock_version + 1")).Error
}

//
// INSTANTIATION
//

// InstantiateChecklist copies the active template for the vistoria's
// vessel type into per-vistoria item copies, preserving order and the
// mandatory/allows-video flags as they are right now. Calling it again
// produces a second full set: callers invoke it once, from the start
// action of the field app.
func InstantiateChecklist(c *gin.Context) {
	v, user, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	var vessel models.Vessel
	if err := database.DB.First(&vessel, v.VesselID).Error; err != nil {
		respondNotFound(c, "vessel")
		return
	}

	var template models.ChecklistTemplate
	err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("position asc, id asc")
		}).
		Where("vessel_type = ? AND active = ?", vessel.Type, true).
		First(&template).Error
	if err != nil {
		respondNotFound(c, "checklist_template")
		return
	}

	items := make([]models.VistoriaChecklistItem, 0, len(template.Items))
	for _, ti := range template.Items {
		items = append(items, models.VistoriaChecklistItem{
			VistoriaID:  v.ID,
			Code:        uuid.NewString(),
			Position:    ti.Position,
			Name:        ti.Name,
			Description: ti.Description,
			Mandatory:   ti.Mandatory,
			AllowsVideo: ti.AllowsVideo,
			Status:      models.ItemPending,
		})
	}

	if len(items) > 0 {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			return bumpVistoriaVersion(tx, v.ID)
		})
		if err != nil {
			respondInternal(c)
			return
		}
	}

	database.CreateAuditLog(user.ID, "vistoria", v.ID, "checklist_instantiate",
		fmt.Sprintf("Checklist copiado do modelo %q (%d itens)", template.Name, len(items)))

	c.JSON(http.StatusCreated, items)
}

//
// CUSTOM ITEMS
//

type addCustomItemRequest struct {
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
	AllowsVideo bool   `json:"allows_video"`
}

// AddCustomItem inserts one ad hoc item outside any template. Defaults to
// non-mandatory so a field addition can never block approval by accident.
func AddCustomItem(c *gin.Context) {
	v, user, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	var req addCustomItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondValidation(c, "item name is required")
		return
	}

	item := models.VistoriaChecklistItem{
		VistoriaID:  v.ID,
		Code:        uuid.NewString(),
		Position:    req.Position,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Mandatory:   req.Mandatory,
		AllowsVideo: req.AllowsVideo,
		Status:      models.ItemPending,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return bumpVistoriaVersion(tx, v.ID)
	})
	if err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "checklist_item", item.ID, "create",
		"Item avulso adicionado: "+item.Name)

	c.JSON(http.StatusCreated, item)
}

//
// TRACKING
//

type updateItemStatusRequest struct {
	Status models.ItemStatus `json:"status"`
}

// UpdateItemStatus moves one item between PENDING/DONE/NOT_APPLICABLE.
// Backward moves are allowed (an inspector may un-mark an item), and a
// photo is never required: evidence capture must not block progress when
// the camera or connectivity fails on the water.
func UpdateItemStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid item id")
		return
	}

	var req updateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	if !req.Status.Valid() {
		respondValidation(c, "invalid item status")
		return
	}

	var item models.VistoriaChecklistItem
	if err := database.DB.First(&item, id).Error; err != nil {
		respondNotFound(c, "checklist_item")
		return
	}

	var v models.Vistoria
	if err := database.DB.First(&v, item.VistoriaID).Error; err != nil {
		respondNotFound(c, "vistoria")
		return
	}
	if !canActOnVistoria(user, &v) {
		respondForbidden(c)
		return
	}

	if err := item.SetStatus(req.Status, time.Now()); err != nil {
		respondValidation(c, err.Error())
		return
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.VistoriaChecklistItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"status":       string(item.Status),
				"completed_at": item.CompletedAt,
			}).Error
		if err != nil {
			return err
		}
		return bumpVistoriaVersion(tx, item.VistoriaID)
	})
	if txErr != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "checklist_item", item.ID, "status_change",
		"Item "+item.Name+": "+string(item.Status))

	c.JSON(http.StatusOK, item)
}

//
// PROGRESS
//

// GetProgress derives the completion metrics and the approval gate flag.
// Read-only, safe for UI polling.
func GetProgress(c *gin.Context) {
	v, _, ok := loadVistoriaForActor(c, true)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.ComputeProgress(v.ChecklistItems))
}
