package database

import (
	"log"
	"os"
	"time"

	"vistoria-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedChecklistTemplates()
}

// Migrate applies the schema; also used by tests against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Insurer{},
		&models.Location{},
		&models.Vessel{},
		&models.Vistoria{},
		&models.ChecklistTemplate{},
		&models.ChecklistTemplateItem{},
		&models.VistoriaChecklistItem{},
		&models.ChecklistPhoto{},
		&models.PaymentBatch{},
		&models.PaymentBatchItem{},
		&models.AuditLog{},
	)
}

// admin accounts come only from the environment, never from the API
func createDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@vistoria.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", email)
}

// starter templates so a fresh install can instantiate checklists right away
func seedChecklistTemplates() {
	var count int64
	if err := DB.Model(&models.ChecklistTemplate{}).Count(&count).Error; err != nil {
		log.Printf("failed to check checklist templates: %v", err)
		return
	}
	if count > 0 {
		return
	}

	templates := []models.ChecklistTemplate{
		{
			VesselType:  models.VesselLancha,
			Name:        "Checklist padrão - Lancha",
			Description: "Itens básicos de vistoria para lanchas",
			Active:      true,
			Items: []models.ChecklistTemplateItem{
				{Position: 1, Name: "Casco", Description: "Estado geral do casco", Mandatory: true, Active: true},
				{Position: 2, Name: "Motor", Description: "Funcionamento e horas de uso", Mandatory: true, Active: true},
				{Position: 3, Name: "Equipamentos de salvatagem", Mandatory: true, Active: true},
				{Position: 4, Name: "Eletrônicos de navegação", Active: true},
				{Position: 5, Name: "Teste de navegação", AllowsVideo: true, Active: true},
			},
		},
		{
			VesselType: models.VesselVeleiro,
			Name:       "Checklist padrão - Veleiro",
			Active:     true,
			Items: []models.ChecklistTemplateItem{
				{Position: 1, Name: "Casco e quilha", Mandatory: true, Active: true},
				{Position: 2, Name: "Mastro e velame", Mandatory: true, Active: true},
				{Position: 3, Name: "Equipamentos de salvatagem", Mandatory: true, Active: true},
				{Position: 4, Name: "Motor auxiliar", Active: true},
			},
		},
		{
			VesselType: models.VesselJetSki,
			Name:       "Checklist padrão - Jet ski",
			Active:     true,
			Items: []models.ChecklistTemplateItem{
				{Position: 1, Name: "Casco", Mandatory: true, Active: true},
				{Position: 2, Name: "Turbina", Mandatory: true, Active: true},
				{Position: 3, Name: "Teste na água", AllowsVideo: true, Active: true},
			},
		},
	}

	for i := range templates {
		if err := DB.Create(&templates[i]).Error; err != nil {
			log.Printf("failed to seed template %s: %v", templates[i].Name, err)
			continue
		}
		log.Printf("seeded checklist template: %s", templates[i].Name)
	}
}
