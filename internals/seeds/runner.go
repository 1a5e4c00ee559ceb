package seeds

import (
	"gorm.io/gorm"

	fees "feeportal_backend/internals/seeds/fees"
	students "feeportal_backend/internals/seeds/students"
	users "feeportal_backend/internals/seeds/users"
)

// RunAllSeeds loads the bootstrap data set: the admin account, demo
// enrollments and their class fee structures. Every seeder skips rows
// that already exist, so re-running is safe.
func RunAllSeeds(db *gorm.DB) {
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
	fees.SeedFeesFromJSON(db, "internals/seeds/fees/data_fees.json")
	students.SeedStudentsFromJSON(db, "internals/seeds/students/data_students.json")
}
