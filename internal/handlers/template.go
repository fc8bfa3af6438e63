package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// CATALOG (master data, admin-managed)
//

func ListTemplates(c *gin.Context) {
	var templates []models.ChecklistTemplate
	err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Order("vessel_type asc, id asc").
		Find(&templates).Error
	if err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplateByVesselType returns the active template used to instantiate
// checklists for the given vessel type.
func GetTemplateByVesselType(c *gin.Context) {
	vesselType := models.VesselType(c.Param("type"))
	if !vesselType.Valid() {
		respondValidation(c, "invalid vessel type")
		return
	}

	var template models.ChecklistTemplate
	err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("position asc, id asc")
		}).
		Where("vessel_type = ? AND active = ?", vesselType, true).
		First(&template).Error
	if err != nil {
		respondNotFound(c, "checklist_template")
		return
	}

	c.JSON(http.StatusOK, template)
}

type templateItemRequest struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
	AllowsVideo bool   `json:"allows_video"`
}

type createTemplateRequest struct {
	VesselType  models.VesselType     `json:"vessel_type"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Items       []templateItemRequest `json:"items"`
}

func CreateTemplate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	if !req.VesselType.Valid() {
		respondValidation(c, "invalid vessel type")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		respondValidation(c, "template name must have at least 3 characters")
		return
	}

	template := models.ChecklistTemplate{
		VesselType:  req.VesselType,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
	}
	for _, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			respondValidation(c, "template item name is required")
			return
		}
		template.Items = append(template.Items, models.ChecklistTemplateItem{
			Position:    it.Position,
			Name:        name,
			Description: strings.TrimSpace(it.Description),
			Mandatory:   it.Mandatory,
			AllowsVideo: it.AllowsVideo,
			Active:      true,
		})
	}

	if err := database.DB.Create(&template).Error; err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "template", template.ID, "create",
		"Modelo de checklist criado: "+template.Name)

	c.JSON(http.StatusCreated, template)
}

//
// TEMPLATE ITEMS
//

// AddTemplateItem appends one item at the caller-supplied position;
// re-numbering neighbours is the caller's responsibility.
func AddTemplateItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid template id")
		return
	}

	var template models.ChecklistTemplate
	if err := database.DB.First(&template, id).Error; err != nil {
		respondNotFound(c, "checklist_template")
		return
	}

	var req templateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondValidation(c, "item name is required")
		return
	}

	item := models.ChecklistTemplateItem{
		ChecklistTemplateID: template.ID,
		Position:            req.Position,
		Name:                req.Name,
		Description:         strings.TrimSpace(req.Description),
		Mandatory:           req.Mandatory,
		AllowsVideo:         req.AllowsVideo,
		Active:              true,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "template", template.ID, "item_add",
		"Item adicionado ao modelo: "+item.Name)

	c.JSON(http.StatusCreated, item)
}

type updateTemplateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Mandatory   *bool   `json:"mandatory"`
	AllowsVideo *bool   `json:"allows_video"`
	Active      *bool   `json:"active"`
}

// UpdateTemplateItem edits a master item. Copies already instantiated into
// vistorias are separate rows and are deliberately left untouched: they
// describe what was required when those inspections started.
func UpdateTemplateItem(c *gin.Context) {
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

	var item models.ChecklistTemplateItem
	if err := database.DB.First(&item, id).Error; err != nil {
		respondNotFound(c, "template_item")
		return
	}

	var req updateTemplateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondValidation(c, "item name is required")
			return
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Mandatory != nil {
		item.Mandatory = *req.Mandatory
	}
	if req.AllowsVideo != nil {
		item.AllowsVideo = *req.AllowsVideo
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := database.DB.Save(&item).Error; err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "template", item.ChecklistTemplateID, "item_update",
		"Item do modelo atualizado: "+item.Name)

	c.JSON(http.StatusOK, item)
}

// DeleteTemplateItem removes a master item; already-instantiated copies
// keep existing (snapshot rule).
func DeleteTemplateItem(c *gin.Context) {
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

	var item models.ChecklistTemplateItem
	if err := database.DB.First(&item, id).Error; err != nil {
		respondNotFound(c, "template_item")
		return
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "template", item.ChecklistTemplateID, "item_delete",
		"Item removido do modelo: "+item.Name)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
