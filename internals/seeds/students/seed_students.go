package students

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	model "feeportal_backend/internals/features/school/students/model"
)

type StudentSeed struct {
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	ParentEmail string `json:"parent_email"`
}

func SeedStudentsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading student seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Failed to read %s: %v", filePath, err)
		return
	}

	var inputs []StudentSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Failed to decode %s: %v", filePath, err)
		return
	}

	for _, data := range inputs {
		var existing model.Student
		if err := db.First(&existing, "student_id = ?", data.StudentID).Error; err == nil {
			log.Printf("ℹ️ Student '%s' already exists, skipped", data.StudentID)
			continue
		}

		student := model.Student{
			StudentID:          data.StudentID,
			StudentName:        data.Name,
			StudentClass:       data.Class,
			StudentParentEmail: data.ParentEmail,
		}
		if err := db.Create(&student).Error; err != nil {
			log.Printf("❌ Failed to create student '%s': %v", data.StudentID, err)
			continue
		}
		log.Printf("✅ Seeded student '%s' (%s)", data.StudentID, data.Class)
	}
}
