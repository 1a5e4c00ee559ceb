package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	model "feeportal_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanup purges blacklist rows whose token expired long
// enough ago. Runs daily in the background for the process lifetime.
func StartBlacklistCleanup(db *gorm.DB) {
	go func() {
		graceDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

		for {
			deleteBefore := time.Now().Add(-time.Duration(graceDays) * 24 * time.Hour)

			res := db.Unscoped().
				Where("token_expires_at < ?", deleteBefore).
				Delete(&model.TokenBlacklist{})
			if res.Error != nil {
				log.Printf("[CLEANUP] token blacklist purge failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] purged %d expired blacklist tokens", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
