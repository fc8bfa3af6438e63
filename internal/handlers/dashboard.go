package handlers

import (
	"net/http"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
)

type statusCount struct {
	Status models.VistoriaStatus `json:"status"`
	Count  int64                 `json:"count"`
}

type inspectorCount struct {
	InspectorID uint  `json:"inspector_id"`
	Count       int64 `json:"count"`
}

// Dashboard returns vistoria counts per status. Admins see the whole
// operation plus a per-inspector breakdown; inspectors see their own.
func Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	dbq := database.DB.Model(&models.Vistoria{})
	if user.Role == models.RoleInspector {
		dbq = dbq.Where("inspector_id = ?", user.ID)
	}

	var byStatus []statusCount
	if err := dbq.Select("status, count(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		respondInternal(c)
		return
	}

	resp := gin.H{"by_status": byStatus}

	if user.Role == models.RoleAdmin {
		var byInspector []inspectorCount
		err := database.DB.Model(&models.Vistoria{}).
			Select("inspector_id, count(*) as count").
			Group("inspector_id").
			Scan(&byInspector).Error
		if err != nil {
			respondInternal(c)
			return
		}
		resp["by_inspector"] = byInspector
	}

	c.JSON(http.StatusOK, resp)
}
