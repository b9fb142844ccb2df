package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PampangaDental/clinic-scheduler/internal/config"
	dbpkg "github.com/PampangaDental/clinic-scheduler/internal/db"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/validators"
)

// Creates (or resets the password of) a staff dashboard account.
//
//	SEED_NAME="Front Desk" SEED_EMAIL=staff@clinic.ph SEED_PASSWORD=secret go run ./cmd/seed
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	_ = godotenv.Load()

	name := os.Getenv("SEED_NAME")
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_EMAIL")))
	password := os.Getenv("SEED_PASSWORD")
	role := os.Getenv("SEED_ROLE")
	if role == "" {
		role = "staff"
	}

	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}
	if name == "" {
		name = email
	}

	if !validators.IsEmailFormatValid(email) {
		log.Fatalf("invalid email: %s", email)
	}
	if !validators.IsEmailDomainValid(email) {
		log.Printf("warning: email domain of %s does not resolve", email)
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		user.Name = name
		user.PasswordHash = string(hashed)
		user.Role = role
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("update user: %v", err)
		}
		log.Printf("updated staff user %s (id=%d)", user.Email, user.ID)

	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hashed),
			Role:         role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create user: %v", err)
		}
		log.Printf("created staff user %s (id=%d)", user.Email, user.ID)

	default:
		log.Fatalf("lookup user: %v", err)
	}
}
