package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentModel "feeportal_backend/internals/features/finance/payments/model"
	receiptModel "feeportal_backend/internals/features/finance/receipts/model"
	feeModel "feeportal_backend/internals/features/school/fees/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

/* =========================================================
   Aggregates
========================================================= */

type Stats struct {
	TotalStudents int `json:"total_students"`
	TotalPayments int `json:"total_payments"`

	// TotalRevenue is the sum of all recorded paid payments.
	TotalRevenue int `json:"total_revenue"`

	// PendingAmount is what the enrolled classes should have brought in,
	// minus revenue, floored at zero. It deliberately over-counts when
	// some students have paid more than their class total.
	PendingAmount int `json:"pending_amount"`
}

// ComputeStats is the pure aggregation: class sizes and per-class fee
// totals in, portal-wide numbers out. Classes with no fee structure
// contribute nothing to the expected total.
func ComputeStats(classSizes map[string]int, feeTotals map[string]int, revenue, paymentCount int) Stats {
	students := 0
	expected := 0
	for class, size := range classSizes {
		students += size
		if total, ok := feeTotals[class]; ok {
			expected += size * total
		}
	}

	pending := expected - revenue
	if pending < 0 {
		pending = 0
	}

	return Stats{
		TotalStudents: students,
		TotalPayments: paymentCount,
		TotalRevenue:  revenue,
		PendingAmount: pending,
	}
}

type StudentSummary struct {
	Student  studentModel.Student   `json:"student"`
	FeeTotal int                    `json:"fee_total"`
	Paid     int                    `json:"paid"`
	Pending  int                    `json:"pending"`
	Payments []paymentModel.Payment `json:"payments"`

	// Receipts keyed by transaction id, so the payment list can link
	// each row to its printable receipt.
	Receipts map[string]uuid.UUID `json:"receipts"`
}

// ComputeStudentSummary nets one student's payments against their class
// fee total.
func ComputeStudentSummary(student studentModel.Student, feeTotal int, payments []paymentModel.Payment) StudentSummary {
	paid := 0
	for i := range payments {
		if payments[i].IsPaid() {
			paid += payments[i].PaymentAmount
		}
	}
	pending := feeTotal - paid
	if pending < 0 {
		pending = 0
	}
	return StudentSummary{
		Student:  student,
		FeeTotal: feeTotal,
		Paid:     paid,
		Pending:  pending,
		Payments: payments,
	}
}

/* =========================================================
   GORM-backed reads
========================================================= */

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadStats(ctx context.Context) (Stats, error) {
	type classCount struct {
		StudentClass string
		N            int
	}
	var counts []classCount
	err := s.db.WithContext(ctx).Model(&studentModel.Student{}).
		Select("student_class, COUNT(*) AS n").
		Group("student_class").
		Scan(&counts).Error
	if err != nil {
		return Stats{}, err
	}
	classSizes := make(map[string]int, len(counts))
	for _, cc := range counts {
		classSizes[cc.StudentClass] = cc.N
	}

	// first fee row per class wins, matching the checkout lookup
	var fees []feeModel.FeeStructure
	err = s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (fee_class_name) *
		     FROM fees
		     ORDER BY fee_class_name, fee_created_at ASC`).
		Scan(&fees).Error
	if err != nil {
		return Stats{}, err
	}
	feeTotals := make(map[string]int, len(fees))
	for i := range fees {
		feeTotals[fees[i].FeeClassName] = fees[i].FeeTotal
	}

	var revenue int
	err = s.db.WithContext(ctx).Model(&paymentModel.Payment{}).
		Select("COALESCE(SUM(payment_amount), 0)").
		Where("payment_status = ?", paymentModel.PaymentStatusPaid).
		Scan(&revenue).Error
	if err != nil {
		return Stats{}, err
	}

	var paymentCount int64
	if err := s.db.WithContext(ctx).Model(&paymentModel.Payment{}).Count(&paymentCount).Error; err != nil {
		return Stats{}, err
	}

	return ComputeStats(classSizes, feeTotals, revenue, int(paymentCount)), nil
}

func (s *GormStore) LoadStudentSummary(ctx context.Context, studentID string) (*StudentSummary, error) {
	var student studentModel.Student
	if err := s.db.WithContext(ctx).First(&student, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}

	feeTotal := 0
	var fee feeModel.FeeStructure
	if err := s.db.WithContext(ctx).
		Where("fee_class_name = ?", student.StudentClass).
		Order("fee_created_at ASC").
		First(&fee).Error; err == nil {
		feeTotal = fee.FeeTotal
	}

	var payments []paymentModel.Payment
	if err := s.db.WithContext(ctx).
		Where("payment_student_id = ?", studentID).
		Order("payment_created_at DESC").
		Limit(50).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	summary := ComputeStudentSummary(student, feeTotal, payments)

	var receipts []receiptModel.Receipt
	if err := s.db.WithContext(ctx).
		Where("receipt_student_id = ?", studentID).
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	summary.Receipts = make(map[string]uuid.UUID, len(receipts))
	for i := range receipts {
		summary.Receipts[receipts[i].ReceiptTransactionID] = receipts[i].ReceiptID
	}

	return &summary, nil
}
