package fees

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	model "feeportal_backend/internals/features/school/fees/model"
)

type FeeSeed struct {
	ClassName string `json:"class_name"`
	Tuition   int    `json:"tuition"`
	Transport int    `json:"transport"`
	Exam      int    `json:"exam"`
	Total     int    `json:"total"`
}

func SeedFeesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading fee seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Failed to read %s: %v", filePath, err)
		return
	}

	var inputs []FeeSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Failed to decode %s: %v", filePath, err)
		return
	}

	for _, data := range inputs {
		var count int64
		if err := db.Model(&model.FeeStructure{}).
			Where("fee_class_name = ?", data.ClassName).Count(&count).Error; err == nil && count > 0 {
			log.Printf("ℹ️ Fee structure for '%s' already exists, skipped", data.ClassName)
			continue
		}

		fee := model.FeeStructure{
			FeeClassName: data.ClassName,
			FeeTuition:   data.Tuition,
			FeeTransport: data.Transport,
			FeeExam:      data.Exam,
			FeeTotal:     data.Total,
		}
		if err := fee.Validate(); err != nil {
			log.Printf("❌ Invalid fee seed for '%s': %v", data.ClassName, err)
			continue
		}
		if err := db.Create(&fee).Error; err != nil {
			log.Printf("❌ Failed to create fee structure for '%s': %v", data.ClassName, err)
			continue
		}
		log.Printf("✅ Seeded fee structure for '%s' (total %d)", data.ClassName, fee.FeeTotal)
	}
}
