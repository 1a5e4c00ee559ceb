package dto

import (
	"time"

	model "feeportal_backend/internals/features/finance/receipts/model"
)

type ReceiptResponse struct {
	ReceiptID     string    `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	Class         string    `json:"class"`
	FeeType       string    `json:"fee_type"`
	AmountPaid    int       `json:"amount_paid"`
	PaymentMode   string    `json:"payment_mode"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
	GeneratedBy   string    `json:"generated_by"`
}

func FromReceiptModel(r *model.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:     r.ReceiptID.String(),
		ReceiptNumber: r.ReceiptNumber,
		StudentID:     r.ReceiptStudentID,
		StudentName:   r.ReceiptStudentName,
		Class:         r.ReceiptClass,
		FeeType:       r.ReceiptFeeType,
		AmountPaid:    r.ReceiptAmountPaid,
		PaymentMode:   r.ReceiptPaymentMode,
		TransactionID: r.ReceiptTransactionID,
		Status:        r.ReceiptStatus,
		PaidAt:        r.ReceiptPaidAt,
		GeneratedBy:   r.ReceiptGeneratedBy,
	}
}

func FromReceiptModels(receipts []model.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, FromReceiptModel(&receipts[i]))
	}
	return out
}
