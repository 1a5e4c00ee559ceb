package main

import (
	"log"

	"feeportal_backend/internals/configs"
	database "feeportal_backend/internals/databases"
	seeds "feeportal_backend/internals/seeds"
)

// Seeds the bootstrap data set (admin account, demo students, fee
// structures) and exits. Safe to run more than once.
func main() {
	configs.LoadEnv()

	database.ConnectDB()
	database.AutoMigrate()

	seeds.RunAllSeeds(database.DB)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Seeding finished")
}
