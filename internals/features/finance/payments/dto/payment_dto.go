package dto

import (
	"time"

	model "feeportal_backend/internals/features/finance/payments/model"
)

/* ===================== Requests ===================== */

type CreateCheckoutSessionRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	FeeType   string `json:"fee_type"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" query:"session_id" validate:"required"`
	StudentID string `json:"student_id" query:"studentId"`
	Amount    *int   `json:"amount" query:"amount"`
}

type ManualPaymentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Amount    int    `json:"amount" validate:"required,gt=0"`
	Note      string `json:"note"`
}

/* ===================== Responses ===================== */

type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	FeeType     string `json:"fee_type"`
}

type PaymentResponse struct {
	PaymentID string    `json:"payment_id"`
	Ref       string    `json:"ref"`
	StudentID string    `json:"student_id"`
	Amount    int       `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method"`
	SessionID string    `json:"session_id"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromPaymentModel(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID: p.PaymentID.String(),
		Ref:       p.PaymentRef,
		StudentID: p.PaymentStudentID,
		Amount:    p.PaymentAmount,
		Status:    p.PaymentStatus,
		Method:    p.PaymentMethod,
		SessionID: p.PaymentSessionID,
		Note:      p.PaymentNote,
		CreatedAt: p.CreatedAt,
	}
}

func FromPaymentModels(payments []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, FromPaymentModel(&payments[i]))
	}
	return out
}
