package handlers

import (
	"net/http"
	"strings"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type attachPhotoRequest struct {
	ItemCode string `json:"item_code"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// AttachChecklistPhoto links evidence captured by the photo app to a
// checklist item, matched by the item's stable code. The code is an
// unguessable identifier handed to the photo app when the item is
// created; no transition ever depends on a photo being present.
func AttachChecklistPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req attachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	req.ItemCode = strings.TrimSpace(req.ItemCode)
	req.FileName = strings.TrimSpace(req.FileName)
	req.URL = strings.TrimSpace(req.URL)
	if req.ItemCode == "" || req.FileName == "" || req.URL == "" {
		respondValidation(c, "item_code, file_name and url are required")
		return
	}

	var item models.VistoriaChecklistItem
	if err := database.DB.Where("code = ?", req.ItemCode).First(&item).Error; err != nil {
		respondNotFound(c, "checklist_item")
		return
	}

	photo := models.ChecklistPhoto{
		FileName: req.FileName,
		URL:      req.URL,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		return tx.Model(&models.VistoriaChecklistItem{}).
			Where("id = ?", item.ID).
			Update("photo_id", photo.ID).Error
	})
	if err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "checklist_item", item.ID, "photo_attach",
		"Foto anexada: "+photo.FileName)

	item.PhotoID = &photo.ID
	item.Photo = &photo
	c.JSON(http.StatusCreated, item)
}
