package users

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	model "feeportal_backend/internals/features/users/auth/model"
	authService "feeportal_backend/internals/features/users/auth/service"
)

type UserSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading user seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Failed to read %s: %v", filePath, err)
		return
	}

	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Failed to decode %s: %v", filePath, err)
		return
	}

	for _, data := range inputs {
		var existing model.User
		if err := db.Where("user_email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped", data.Email)
			continue
		}

		hash, err := authService.HashPassword(data.Password)
		if err != nil {
			log.Printf("❌ Failed to hash password for '%s': %v", data.Email, err)
			continue
		}

		user := model.User{
			UserName:         data.Name,
			UserEmail:        data.Email,
			UserRole:         data.Role,
			UserPasswordHash: &hash,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user '%s': %v", data.Email, err)
			continue
		}
		log.Printf("✅ Seeded user '%s' (%s)", data.Email, data.Role)
	}
}
