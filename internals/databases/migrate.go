package database

import (
	"log"

	paymentModel "feeportal_backend/internals/features/finance/payments/model"
	receiptModel "feeportal_backend/internals/features/finance/receipts/model"
	feeModel "feeportal_backend/internals/features/school/fees/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
	authModel "feeportal_backend/internals/features/users/auth/model"
)

// AutoMigrate creates/updates the ledger tables. Column constraints
// (unique session id, unique receipt number/transaction id) live on the
// model tags; the workflow relies on them for insert-if-absent.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&authModel.User{},
		&authModel.TokenBlacklist{},
		&studentModel.Student{},
		&feeModel.FeeStructure{},
		&paymentModel.Payment{},
		&receiptModel.Receipt{},
		&receiptModel.ReceiptCounter{},
	); err != nil {
		log.Fatalf("❌ auto-migrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}
