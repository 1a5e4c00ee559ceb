package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

const (
	PaymentMethodOnline = "online_gateway"
	PaymentMethodManual = "manual_admin"
)

// Session ids synthesized for admin-recorded offline payments carry this
// prefix so they can never collide with gateway session ids.
const ManualSessionPrefix = "MANUAL-"

/* ===================== Model ===================== */

// Payment is written exactly once per checkout session: the unique index
// on payment_session_id is what makes the verification workflow's
// insert-if-absent idempotent.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	// Human-facing reference (PAY-<ms>)
	PaymentRef string `gorm:"column:payment_ref;type:varchar(32);not null" json:"payment_ref"`

	PaymentStudentID string `gorm:"column:payment_student_id;type:varchar(16);not null;index" json:"payment_student_id"`

	PaymentAmount int    `gorm:"column:payment_amount;not null;check:payment_amount > 0" json:"payment_amount"`
	PaymentStatus string `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaymentMethod string `gorm:"column:payment_method;type:varchar(24);not null" json:"payment_method"`

	PaymentSessionID string  `gorm:"column:payment_session_id;type:varchar(128);not null;uniqueIndex" json:"payment_session_id"`
	PaymentNote      *string `gorm:"column:payment_note" json:"payment_note,omitempty"`

	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime;index:,sort:desc" json:"payment_created_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) IsPaid() bool { return p.PaymentStatus == PaymentStatusPaid }

func (p *Payment) IsManual() bool { return p.PaymentMethod == PaymentMethodManual }
