package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTotalMismatch = errors.New("fee_total must equal the sum of its components")
	ErrInvalidFee    = errors.New("invalid fee structure")
)

// FeeStructure is the per-class fee breakdown. The store allows
// duplicates per class; reads take the first match. Amounts are whole
// currency units.
type FeeStructure struct {
	FeeID uuid.UUID `gorm:"column:fee_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_id"`

	FeeClassName string `gorm:"column:fee_class_name;type:varchar(32);not null;index" json:"fee_class_name"`

	FeeTuition   int `gorm:"column:fee_tuition;not null;check:fee_tuition >= 0" json:"fee_tuition"`
	FeeTransport int `gorm:"column:fee_transport;not null;check:fee_transport >= 0" json:"fee_transport"`
	FeeExam      int `gorm:"column:fee_exam;not null;check:fee_exam >= 0" json:"fee_exam"`
	FeeTotal     int `gorm:"column:fee_total;not null;check:fee_total >= 0" json:"fee_total"`

	CreatedAt time.Time `gorm:"column:fee_created_at;autoCreateTime" json:"fee_created_at"`
}

func (FeeStructure) TableName() string { return "fees" }

// Validate enforces total = tuition + transport + exam. The storage does
// not enforce it, so every create path must call this.
func (f *FeeStructure) Validate() error {
	if f.FeeClassName == "" {
		return fmt.Errorf("%w: fee_class_name is required", ErrInvalidFee)
	}
	if f.FeeTuition < 0 || f.FeeTransport < 0 || f.FeeExam < 0 {
		return fmt.Errorf("%w: components must not be negative", ErrInvalidFee)
	}
	if sum := f.FeeTuition + f.FeeTransport + f.FeeExam; f.FeeTotal != sum {
		return fmt.Errorf("%w: total=%d sum=%d", ErrTotalMismatch, f.FeeTotal, sum)
	}
	return nil
}
