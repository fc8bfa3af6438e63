package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createPaymentBatchRequest struct {
	Reference string `json:"reference"`
}

// CreatePaymentBatch collects approved vistorias that were not billed yet
// into a payout batch. Reads inspection data only; inspection and
// checklist state are never touched.
func CreatePaymentBatch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createPaymentBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Reference = strings.TrimSpace(req.Reference)
	if req.Reference == "" {
		respondValidation(c, "reference is required")
		return
	}

	var billable []models.Vistoria
	err := database.DB.
		Where("status = ?", models.StatusApproved).
		Where("id NOT IN (?)", database.DB.Model(&models.PaymentBatchItem{}).Select("vistoria_id")).
		Order("approval_date asc").
		Find(&billable).Error
	if err != nil {
		respondInternal(c)
		return
	}
	if len(billable) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "nothing_to_bill"})
		return
	}

	batch := models.PaymentBatch{
		Reference:     req.Reference,
		GeneratedByID: user.ID,
	}
	for _, v := range billable {
		batch.Total += v.InspectorFee
		batch.Items = append(batch.Items, models.PaymentBatchItem{
			VistoriaID:  v.ID,
			InspectorID: v.InspectorID,
			Amount:      v.InspectorFee,
		})
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&batch).Error
	}); err != nil {
		respondInternal(c)
		return
	}

	database.CreateAuditLog(user.ID, "payment_batch", batch.ID, "create",
		fmt.Sprintf("Lote %s gerado com %d vistoria(s)", batch.Reference, len(batch.Items)))

	c.JSON(http.StatusCreated, batch)
}

func ListPaymentBatches(c *gin.Context) {
	var batches []models.PaymentBatch
	err := database.DB.
		Preload("Items").
		Preload("GeneratedBy").
		Order("created_at desc").
		Find(&batches).Error
	if err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, batches)
}
