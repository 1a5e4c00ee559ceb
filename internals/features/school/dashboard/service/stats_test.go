package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	paymentModel "feeportal_backend/internals/features/finance/payments/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name       string
		classSizes map[string]int
		feeTotals  map[string]int
		revenue    int
		payments   int
		want       Stats
	}{
		{
			name:       "nothing collected yet",
			classSizes: map[string]int{"Class 5": 2, "Class 7": 1},
			feeTotals:  map[string]int{"Class 5": 6500, "Class 7": 8000},
			revenue:    0,
			payments:   0,
			want:       Stats{TotalStudents: 3, TotalPayments: 0, TotalRevenue: 0, PendingAmount: 21000},
		},
		{
			name:       "partially collected",
			classSizes: map[string]int{"Class 5": 2},
			feeTotals:  map[string]int{"Class 5": 6500},
			revenue:    6500,
			payments:   1,
			want:       Stats{TotalStudents: 2, TotalPayments: 1, TotalRevenue: 6500, PendingAmount: 6500},
		},
		{
			name:       "overpayment floors pending at zero",
			classSizes: map[string]int{"Class 5": 1},
			feeTotals:  map[string]int{"Class 5": 6500},
			revenue:    9000,
			payments:   2,
			want:       Stats{TotalStudents: 1, TotalPayments: 2, TotalRevenue: 9000, PendingAmount: 0},
		},
		{
			name:       "class without a fee structure adds no expectation",
			classSizes: map[string]int{"Class 5": 1, "Kindergarten": 4},
			feeTotals:  map[string]int{"Class 5": 6500},
			revenue:    0,
			payments:   0,
			want:       Stats{TotalStudents: 5, TotalPayments: 0, TotalRevenue: 0, PendingAmount: 6500},
		},
		{
			name: "empty portal",
			want: Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.classSizes, tt.feeTotals, tt.revenue, tt.payments)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeStudentSummary(t *testing.T) {
	student := studentModel.Student{StudentID: "ST-000123", StudentClass: "Class 5"}
	payments := []paymentModel.Payment{
		{PaymentAmount: 2500, PaymentStatus: paymentModel.PaymentStatusPaid},
		{PaymentAmount: 1000, PaymentStatus: paymentModel.PaymentStatusPaid},
		{PaymentAmount: 9999, PaymentStatus: paymentModel.PaymentStatusPending},
	}

	got := ComputeStudentSummary(student, 6500, payments)

	assert.Equal(t, 6500, got.FeeTotal)
	assert.Equal(t, 3500, got.Paid)
	assert.Equal(t, 3000, got.Pending)
	assert.Len(t, got.Payments, 3)
}

func TestComputeStudentSummaryOverpaid(t *testing.T) {
	student := studentModel.Student{StudentID: "ST-000123", StudentClass: "Class 5"}
	payments := []paymentModel.Payment{
		{PaymentAmount: 7000, PaymentStatus: paymentModel.PaymentStatusPaid},
	}

	got := ComputeStudentSummary(student, 6500, payments)
	assert.Equal(t, 0, got.Pending)
}
