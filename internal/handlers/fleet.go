package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
)

//
// CLIENTS
//

func ListClients(c *gin.Context) {
	var clients []models.Client
	database.DB.Order("name asc").Find(&clients)
	c.JSON(http.StatusOK, clients)
}

type clientRequest struct {
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpf_cnpj"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		respondValidation(c, "client name must have at least 3 characters")
		return
	}

	// CPF/CNPJ must be unique when given
	if req.CPFCNPJ != "" {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("cpf_cnpj = ?", req.CPFCNPJ).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "cpf_cnpj_taken"})
			return
		}
	}

	client := models.Client{
		Name:    req.Name,
		CPFCNPJ: strings.TrimSpace(req.CPFCNPJ),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Notes:   strings.TrimSpace(req.Notes),
	}
	if err := database.DB.Create(&client).Error; err != nil {
		respondInternal(c)
		return
	}

	if user, ok := currentUser(c); ok {
		database.CreateAuditLog(user.ID, "client", client.ID, "create", "Cliente cadastrado: "+client.Name)
	}

	c.JSON(http.StatusCreated, client)
}

func UpdateClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid client id")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		respondNotFound(c, "client")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		respondValidation(c, "client name must have at least 3 characters")
		return
	}

	client.Name = req.Name
	client.CPFCNPJ = strings.TrimSpace(req.CPFCNPJ)
	client.Email = strings.TrimSpace(req.Email)
	client.Phone = strings.TrimSpace(req.Phone)
	client.Notes = strings.TrimSpace(req.Notes)

	if err := database.DB.Save(&client).Error; err != nil {
		respondInternal(c)
		return
	}

	if user, ok := currentUser(c); ok {
		database.CreateAuditLog(user.ID, "client", client.ID, "update", "Cliente atualizado: "+client.Name)
	}

	c.JSON(http.StatusOK, client)
}

//
// INSURERS
//

func ListInsurers(c *gin.Context) {
	var insurers []models.Insurer
	database.DB.Order("name asc").Find(&insurers)
	c.JSON(http.StatusOK, insurers)
}

type insurerRequest struct {
	Name         string `json:"name"`
	CNPJ         string `json:"cnpj"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

func CreateInsurer(c *gin.Context) {
	var req insurerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		respondValidation(c, "insurer name must have at least 3 characters")
		return
	}

	insurer := models.Insurer{
		Name:         req.Name,
		CNPJ:         strings.TrimSpace(req.CNPJ),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
	}
	if err := database.DB.Create(&insurer).Error; err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusCreated, insurer)
}

//
// LOCATIONS
//

func ListLocations(c *gin.Context) {
	var locations []models.Location
	database.DB.Order("name asc").Find(&locations)
	c.JSON(http.StatusOK, locations)
}

type locationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

func CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		respondValidation(c, "location name must have at least 3 characters")
		return
	}

	location := models.Location{
		Name:    req.Name,
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.ToUpper(strings.TrimSpace(req.State)),
	}
	if err := database.DB.Create(&location).Error; err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusCreated, location)
}

//
// VESSELS
//

func ListVessels(c *gin.Context) {
	dbq := database.DB.Preload("Client").Order("name asc")

	if clientStr := c.Query("client_id"); clientStr != "" {
		if cid, err := strconv.Atoi(clientStr); err == nil && cid > 0 {
			dbq = dbq.Where("client_id = ?", cid)
		}
	}
	if vtype := c.Query("type"); vtype != "" {
		dbq = dbq.Where("type = ?", vtype)
	}

	var vessels []models.Vessel
	dbq.Find(&vessels)
	c.JSON(http.StatusOK, vessels)
}

type vesselRequest struct {
	ClientID     uint              `json:"client_id"`
	InsurerID    uint              `json:"insurer_id"`
	Name         string            `json:"name"`
	Type         models.VesselType `json:"type"`
	Registration string            `json:"registration"`
	HullID       string            `json:"hull_id"`
	Year         int               `json:"year"`
	LengthMeters float64           `json:"length_meters"`
}

func CreateVessel(c *gin.Context) {
	var req vesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondValidation(c, "vessel name is required")
		return
	}
	if !req.Type.Valid() {
		respondValidation(c, "invalid vessel type")
		return
	}

	var client models.Client
	if err := database.DB.First(&client, req.ClientID).Error; err != nil {
		respondNotFound(c, "client")
		return
	}

	if req.InsurerID != 0 {
		var insurer models.Insurer
		if err := database.DB.First(&insurer, req.InsurerID).Error; err != nil {
			respondNotFound(c, "insurer")
			return
		}
	}

	vessel := models.Vessel{
		ClientID:     client.ID,
		InsurerID:    req.InsurerID,
		Name:         req.Name,
		Type:         req.Type,
		Registration: strings.TrimSpace(req.Registration),
		HullID:       strings.TrimSpace(req.HullID),
		Year:         req.Year,
		LengthMeters: req.LengthMeters,
	}
	if err := database.DB.Create(&vessel).Error; err != nil {
		respondInternal(c)
		return
	}

	if user, ok := currentUser(c); ok {
		database.CreateAuditLog(user.ID, "vessel", vessel.ID, "create", "Embarcação cadastrada: "+vessel.Name)
	}

	c.JSON(http.StatusCreated, vessel)
}

func UpdateVessel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid vessel id")
		return
	}

	var vessel models.Vessel
	if err := database.DB.First(&vessel, id).Error; err != nil {
		respondNotFound(c, "vessel")
		return
	}

	var req vesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondValidation(c, "vessel name is required")
		return
	}
	if !req.Type.Valid() {
		respondValidation(c, "invalid vessel type")
		return
	}

	vessel.Name = req.Name
	vessel.Type = req.Type
	vessel.Registration = strings.TrimSpace(req.Registration)
	vessel.HullID = strings.TrimSpace(req.HullID)
	vessel.Year = req.Year
	vessel.LengthMeters = req.LengthMeters
	if req.ClientID != 0 {
		vessel.ClientID = req.ClientID
	}
	vessel.InsurerID = req.InsurerID

	if err := database.DB.Save(&vessel).Error; err != nil {
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, vessel)
}
