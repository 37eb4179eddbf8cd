// scripts/create_admin.go — bootstrap ศูนย์แรก + บัญชี owner
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/config"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/models"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)

	slug := os.Getenv("SEED_CENTER_SLUG")
	if slug == "" {
		slug = "demo-center"
	}
	username := os.Getenv("SEED_OWNER_USERNAME")
	if username == "" {
		username = "owner"
	}
	password := os.Getenv("SEED_OWNER_PASSWORD")
	if password == "" {
		password = "change-me-1234"
	}

	// tenant มีอยู่แล้วก็ใช้ตัวเดิม
	var tenant models.Tenant
	err := database.DB.Where("slug = ?", slug).First(&tenant).Error
	if err == gorm.ErrRecordNotFound {
		tenant = models.Tenant{Slug: slug, Name: "Demo Tutoring Center", Status: "active"}
		if err := database.DB.Create(&tenant).Error; err != nil {
			log.Fatalf("failed to create tenant: %v", err)
		}
	} else if err != nil {
		log.Fatalf("failed to query tenants: %v", err)
	}

	var existing models.User
	err = database.DB.Where("tenant_id = ? AND username = ?", tenant.ID, username).First(&existing).Error
	if err == nil {
		fmt.Println("owner already exists:", username)
		os.Exit(0)
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to query users: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := models.User{
		TenantID: tenant.ID,
		Username: username,
		Password: string(hashed),
		Role:     "owner",
		Name:     "Owner",
		Enabled:  true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert owner: %v", err)
	}

	fmt.Println("owner created for center:", slug)
	fmt.Println("  username:", username)
	fmt.Println("  password:", password, "(plain, remember to change later!)")
}
