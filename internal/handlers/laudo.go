package handlers

import (
	"net/http"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetLaudo returns the full inspection document used by the report
// renderer: vistoria, vessel, owner, checklist results and photos.
// Only meaningful once field work is concluded, so anything before
// COMPLETED is rejected as invalid_state.
func GetLaudo(c *gin.Context) {
	v, _, ok := loadVistoriaForActor(c, false)
	if !ok {
		return
	}

	if v.Status != models.StatusCompleted && !v.Status.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_state", "current_status": v.Status})
		return
	}

	var full models.Vistoria
	err := database.DB.
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("ChecklistItems.Photo").
		Preload("Vessel.Client").
		Preload("Vessel.Insurer").
		Preload("Location").
		Preload("Inspector").
		Preload("Admin").
		First(&full, v.ID).Error
	if err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vistoria": full,
		"progress": models.ComputeProgress(full.ChecklistItems),
	})
}
