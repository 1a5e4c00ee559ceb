package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Payment modes shown on the receipt
	ModeOnline = "online"
	ModeManual = "manual_admin"
)

// Receipt is immutable after creation. receipt_transaction_id carries the
// checkout session id (or MANUAL-<uuid>) and is unique: one receipt per
// payment. receipt_number is the human-facing sequential identifier
// (PREFIX-YEAR-NNNN), unique and strictly increasing within a year.
type Receipt struct {
	ReceiptID uuid.UUID `gorm:"column:receipt_id;type:uuid;default:gen_random_uuid();primaryKey" json:"receipt_id"`

	ReceiptRef    string `gorm:"column:receipt_ref;type:varchar(32);not null" json:"receipt_ref"`
	ReceiptNumber string `gorm:"column:receipt_number;type:varchar(24);not null;uniqueIndex" json:"receipt_number"`

	ReceiptStudentID   string `gorm:"column:receipt_student_id;type:varchar(16);not null;index" json:"receipt_student_id"`
	ReceiptStudentName string `gorm:"column:receipt_student_name;type:varchar(128);not null" json:"receipt_student_name"`
	ReceiptClass       string `gorm:"column:receipt_class;type:varchar(32);not null" json:"receipt_class"`

	ReceiptFeeType    string `gorm:"column:receipt_fee_type;type:varchar(64);not null" json:"receipt_fee_type"`
	ReceiptAmountPaid int    `gorm:"column:receipt_amount_paid;not null;check:receipt_amount_paid > 0" json:"receipt_amount_paid"`

	ReceiptPaymentMode   string `gorm:"column:receipt_payment_mode;type:varchar(24);not null" json:"receipt_payment_mode"`
	ReceiptTransactionID string `gorm:"column:receipt_transaction_id;type:varchar(128);not null;uniqueIndex" json:"receipt_transaction_id"`
	ReceiptStatus        string `gorm:"column:receipt_status;type:varchar(16);not null" json:"receipt_status"`

	ReceiptPaidAt      time.Time `gorm:"column:receipt_paid_at;not null" json:"receipt_paid_at"`
	ReceiptGeneratedBy string    `gorm:"column:receipt_generated_by;type:varchar(64);not null" json:"receipt_generated_by"`

	CreatedAt time.Time `gorm:"column:receipt_created_at;autoCreateTime;index:,sort:desc" json:"receipt_created_at"`
}

func (Receipt) TableName() string { return "receipts" }
