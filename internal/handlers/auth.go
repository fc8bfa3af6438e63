package handlers

import (
	"net/http"
	"strings"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	_ = sess.Save()

	c.JSON(http.StatusOK, user)
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type registerInspectorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// RegisterInspector creates an inspector account. Admin only; admin
// accounts themselves are provisioned from the environment.
func RegisterInspector(c *gin.Context) {
	var req registerInspectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if len(req.Name) < 3 || len(req.Password) < 6 || req.Email == "" {
		respondValidation(c, "name, email and a password of at least 6 characters are required")
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(c)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleInspector,
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondInternal(c)
		return
	}

	if admin, ok := currentUser(c); ok {
		database.CreateAuditLog(admin.ID, "user", user.ID, "create", "Cadastrado vistoriador: "+user.Name)
	}

	c.JSON(http.StatusCreated, user)
}

// ListInspectors returns inspector accounts for assignment dropdowns.
func ListInspectors(c *gin.Context) {
	var inspectors []models.User
	database.DB.Where("role = ?", models.RoleInspector).Order("name asc").Find(&inspectors)
	c.JSON(http.StatusOK, inspectors)
}
