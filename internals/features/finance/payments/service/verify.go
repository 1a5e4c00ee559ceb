package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"feeportal_backend/internals/features/finance/payments/gateway"
	model "feeportal_backend/internals/features/finance/payments/model"

	receiptModel "feeportal_backend/internals/features/finance/receipts/model"
	receiptService "feeportal_backend/internals/features/finance/receipts/service"
)

/* =========================================================
   Outcomes
========================================================= */

type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeNotCompleted Outcome = "not_completed"
	OutcomeFailed       Outcome = "failed"
)

// Fixed user-visible messages per terminal state. Partial success is
// never exposed.
const (
	MsgSuccess      = "Payment successful! Your fees have been updated."
	MsgNotCompleted = "Payment was not completed."
	MsgFailed       = "Payment verification failed."
)

type Result struct {
	Outcome Outcome               `json:"outcome"`
	Message string                `json:"message"`
	Payment *model.Payment        `json:"payment,omitempty"`
	Receipt *receiptModel.Receipt `json:"receipt,omitempty"`
}

/* =========================================================
   Contracts
========================================================= */

// Store is the slice of persistence the workflow needs: a single
// conditional write keyed by the session id.
type Store interface {
	InsertIfAbsent(ctx context.Context, p *model.Payment) (created bool, existing *model.Payment, err error)
}

// ReceiptCreator is satisfied by the receipts service; Create is
// idempotent per transaction id.
type ReceiptCreator interface {
	Create(ctx context.Context, in receiptService.CreateInput) (*receiptModel.Receipt, error)
}

/* =========================================================
   Workflow
========================================================= */

type Workflow struct {
	gw       gateway.Gateway
	store    Store
	receipts ReceiptCreator
	nowFunc  func() time.Time
}

func NewWorkflow(gw gateway.Gateway, store Store, receipts ReceiptCreator) *Workflow {
	return &Workflow{gw: gw, store: store, receipts: receipts, nowFunc: time.Now}
}

type VerifyInput struct {
	SessionID string
	// StudentID comes from the redirect parameters; when the gateway
	// echoes its own copy the two must agree.
	StudentID string
	// ClaimedAmount is the redirect's amount parameter. It is only
	// cross-checked — the recorded amount always comes from the
	// verified session.
	ClaimedAmount *int
	GeneratedBy   string
}

// Verify runs one verification attempt: session status, then a single
// insert-if-absent for the payment, then receipt generation. Re-running
// it for an already-processed session touches nothing and reports
// success. Expected failures terminate with a Result, not an error;
// an error return means persistence itself broke.
func (w *Workflow) Verify(ctx context.Context, in VerifyInput) (*Result, error) {
	if in.SessionID == "" {
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}

	sess, err := w.gw.GetSession(ctx, in.SessionID)
	if err != nil {
		log.Printf("[ERROR] session lookup %s: %v", in.SessionID, err)
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}

	switch sess.Status {
	case gateway.StatusPaid:
		// fall through to Record
	case gateway.StatusUnpaid, gateway.StatusOpen:
		return &Result{Outcome: OutcomeNotCompleted, Message: MsgNotCompleted}, nil
	default:
		log.Printf("[WARN] session %s has unexpected status %q", in.SessionID, sess.Status)
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}

	// The session object is authoritative for the amount; a mismatching
	// redirect parameter points at tampering, so nothing is written.
	amount := sess.GrossAmount
	if in.ClaimedAmount != nil && *in.ClaimedAmount != amount {
		log.Printf("[WARN] session %s amount mismatch: claimed=%d session=%d",
			in.SessionID, *in.ClaimedAmount, amount)
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}
	if amount <= 0 {
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}

	studentID := sess.StudentID
	if studentID == "" {
		studentID = in.StudentID
	} else if in.StudentID != "" && in.StudentID != studentID {
		log.Printf("[WARN] session %s student mismatch: claimed=%s session=%s",
			in.SessionID, in.StudentID, studentID)
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}
	if studentID == "" {
		return &Result{Outcome: OutcomeFailed, Message: MsgFailed}, nil
	}

	meta := datatypes.JSONMap{"order_id": sess.ID}
	if sess.Currency != "" {
		meta["currency"] = sess.Currency
	}
	if sess.FeeType != "" {
		meta["fee_type"] = sess.FeeType
	}

	payment := &model.Payment{
		PaymentRef:       fmt.Sprintf("PAY-%d", w.nowFunc().UnixMilli()),
		PaymentStudentID: studentID,
		PaymentAmount:    amount,
		PaymentStatus:    model.PaymentStatusPaid,
		PaymentMethod:    model.PaymentMethodOnline,
		PaymentSessionID: in.SessionID,
		PaymentMeta:      meta,
	}

	created, existing, err := w.store.InsertIfAbsent(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	if !created {
		payment = existing
	}

	receipt, err := w.receipts.Create(ctx, receiptService.CreateInput{
		StudentID:     payment.PaymentStudentID,
		Amount:        payment.PaymentAmount,
		PaymentRef:    payment.PaymentRef,
		Mode:          receiptModel.ModeOnline,
		Status:        payment.PaymentStatus,
		TransactionID: payment.PaymentSessionID,
		GeneratedBy:   in.GeneratedBy,
		PaidAt:        payment.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}

	return &Result{
		Outcome: OutcomeSuccess,
		Message: MsgSuccess,
		Payment: payment,
		Receipt: receipt,
	}, nil
}

/* =========================================================
   Manual (administrator-recorded) variant
========================================================= */

type ManualInput struct {
	StudentID   string
	Amount      int
	Note        string
	GeneratedBy string
}

// RecordManual registers an offline payment (cash/cheque/transfer). It
// skips the gateway entirely: admin-entered data is trusted as-is. The
// synthesized MANUAL- session id keeps the idempotence key space shared
// with the online flow; its random component guarantees every admin
// entry lands as its own row, no matter how close together two entries
// arrive.
func (w *Workflow) RecordManual(ctx context.Context, in ManualInput) (*Result, error) {
	if in.StudentID == "" || in.Amount <= 0 {
		return nil, fmt.Errorf("manual payment requires a student id and a positive amount")
	}

	now := w.nowFunc()
	var note *string
	if in.Note != "" {
		note = &in.Note
	}

	meta := datatypes.JSONMap{"recorded_by": in.GeneratedBy}
	if in.Note != "" {
		meta["note"] = in.Note
	}

	payment := &model.Payment{
		PaymentRef:       fmt.Sprintf("PAY-%d", now.UnixMilli()),
		PaymentStudentID: in.StudentID,
		PaymentAmount:    in.Amount,
		PaymentStatus:    model.PaymentStatusPaid,
		PaymentMethod:    model.PaymentMethodManual,
		PaymentSessionID: model.ManualSessionPrefix + uuid.NewString(),
		PaymentNote:      note,
		PaymentMeta:      meta,
	}

	created, existing, err := w.store.InsertIfAbsent(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("record manual payment: %w", err)
	}
	if !created {
		payment = existing
	}

	result := &Result{Outcome: OutcomeSuccess, Message: MsgSuccess, Payment: payment}

	receipt, err := w.receipts.Create(ctx, receiptService.CreateInput{
		StudentID:     payment.PaymentStudentID,
		Amount:        payment.PaymentAmount,
		PaymentRef:    payment.PaymentRef,
		Mode:          receiptModel.ModeManual,
		Status:        payment.PaymentStatus,
		TransactionID: payment.PaymentSessionID,
		GeneratedBy:   in.GeneratedBy,
		PaidAt:        now,
	})
	if err != nil {
		// the payment is recorded; the receipt can be regenerated from
		// the admin payments list later
		log.Printf("[ERROR] receipt generation after manual payment %s: %v", payment.PaymentRef, err)
		return result, nil
	}
	result.Receipt = receipt
	return result, nil
}
