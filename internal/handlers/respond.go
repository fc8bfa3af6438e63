package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// errConflict is returned when a guarded update matched zero rows, i.e. a
// concurrent request changed the vistoria status under us.
var errConflict = errors.New("concurrent update")

func currentUser(c *gin.Context) (models.User, bool) {
	uVal, ok := c.Get("CurrentUser")
	if !ok {
		return models.User{}, false
	}
	switch u := uVal.(type) {
	case models.User:
		return u, true
	case *models.User:
		return *u, true
	}
	return models.User{}, false
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "resource": resource})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

func respondValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": msg})
}

func respondInternal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
}

// respondDomainError maps state machine failures onto the API error
// vocabulary. None of these are retried: they are business rule
// violations, not transient faults.
func respondDomainError(c *gin.Context, err error) {
	var blocked *models.ApprovalBlockedError
	var invalid *models.InvalidStateError

	switch {
	// a delete can race the in-transaction re-read
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "vistoria")
	case errors.Is(err, models.ErrAlreadyStarted):
		c.JSON(http.StatusConflict, gin.H{"error": "already_started"})
	case errors.As(err, &blocked):
		c.JSON(http.StatusConflict, gin.H{
			"error":             "approval_blocked",
			"current_status":    blocked.Current,
			"mandatory_pending": blocked.MandatoryPending,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "invalid_state",
			"current_status": invalid.Current,
		})
	case errors.Is(err, errConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	default:
		respondInternal(c)
	}
}

// canActOnVistoria is the single ownership rule: admins act on any
// vistoria, inspectors only on their own assignments.
func canActOnVistoria(user models.User, v *models.Vistoria) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleInspector:
		return v.InspectorID == user.ID
	}
	return false
}

// loadVistoriaForActor is the gate every vistoria-scoped handler goes
// through: parse the id, load the record, apply the ownership rule.
// Writes the error response itself and returns ok=false on failure.
func loadVistoriaForActor(c *gin.Context, withItems bool) (*models.Vistoria, models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, models.User{}, false
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid vistoria id")
		return nil, user, false
	}

	q := database.DB
	if withItems {
		q = q.Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		})
	}

	var v models.Vistoria
	if err := q.First(&v, id).Error; err != nil {
		respondNotFound(c, "vistoria")
		return nil, user, false
	}

	if !canActOnVistoria(user, &v) {
		respondForbidden(c)
		return nil, user, false
	}

	return &v, user, true
}
