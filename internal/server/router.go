package server

import (
	"net/http"

	"vistoria-api/internal/config"
	"vistoria-api/internal/handlers"
	"vistoria-api/internal/middleware"
	"vistoria-api/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("vistoria_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/login", handlers.Login)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	admin := middleware.RequireRole(models.RoleAdmin)

	auth.POST("/logout", handlers.Logout)
	auth.GET("/me", handlers.Me)

	// ACCOUNTS
	auth.POST("/inspectors", admin, handlers.RegisterInspector)
	auth.GET("/inspectors", handlers.ListInspectors)

	// FLEET MASTER DATA
	auth.GET("/clients", handlers.ListClients)
	auth.POST("/clients", admin, handlers.CreateClient)
	auth.PUT("/clients/:id", admin, handlers.UpdateClient)

	auth.GET("/insurers", handlers.ListInsurers)
	auth.POST("/insurers", admin, handlers.CreateInsurer)

	auth.GET("/locations", handlers.ListLocations)
	auth.POST("/locations", admin, handlers.CreateLocation)

	auth.GET("/vessels", handlers.ListVessels)
	auth.POST("/vessels", admin, handlers.CreateVessel)
	auth.PUT("/vessels/:id", admin, handlers.UpdateVessel)

	// CHECKLIST TEMPLATE CATALOG (reads open, writes admin-only)
	auth.GET("/templates", handlers.ListTemplates)
	auth.GET("/vessel-types/:type/template", handlers.GetTemplateByVesselType)
	auth.POST("/templates", admin, handlers.CreateTemplate)
	auth.POST("/templates/:id/items", admin, handlers.AddTemplateItem)
	auth.PUT("/template-items/:id", admin, handlers.UpdateTemplateItem)
	auth.DELETE("/template-items/:id", admin, handlers.DeleteTemplateItem)

	// VISTORIAS (ownership enforced inside the handlers)
	auth.POST("/vistorias", admin, handlers.CreateVistoria)
	auth.GET("/vistorias", handlers.ListVistorias)
	auth.GET("/vistorias/:id", handlers.GetVistoria)
	auth.DELETE("/vistorias/:id", admin, handlers.DeleteVistoria)

	auth.POST("/vistorias/:id/start", handlers.StartVistoria)
	auth.PUT("/vistorias/:id/status", handlers.UpdateVistoriaStatus)

	auth.POST("/vistorias/:id/checklist", handlers.InstantiateChecklist)
	auth.POST("/vistorias/:id/checklist/items", handlers.AddCustomItem)
	auth.GET("/vistorias/:id/progress", handlers.GetProgress)
	auth.GET("/vistorias/:id/laudo", handlers.GetLaudo)

	auth.PATCH("/checklist/items/:id", handlers.UpdateItemStatus)
	auth.POST("/checklist/photos", handlers.AttachChecklistPhoto)

	// PAYMENTS
	auth.POST("/payment-batches", admin, handlers.CreatePaymentBatch)
	auth.GET("/payment-batches", admin, handlers.ListPaymentBatches)

	// DASHBOARD / AUDIT
	auth.GET("/dashboard", handlers.Dashboard)
	auth.GET("/audit", admin, handlers.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
