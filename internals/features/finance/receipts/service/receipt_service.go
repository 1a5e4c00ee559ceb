package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"feeportal_backend/internals/helpers/authz"

	model "feeportal_backend/internals/features/finance/receipts/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

var (
	ErrNotFound        = errors.New("receipt not found")
	ErrUnauthorized    = errors.New("unauthorized to view this receipt")
	ErrStudentNotFound = errors.New("student not found")
)

// DefaultFeeType labels receipts when the payment carries no fee detail.
const DefaultFeeType = "Tuition/Annual Fee"

/* =========================================================
   Store contract
========================================================= */

type Store interface {
	// NextNumber atomically increments and returns this year's sequence.
	NextNumber(ctx context.Context, year int) (int, error)

	GetStudent(ctx context.Context, studentID string) (*studentModel.Student, error)
	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.Student, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Receipt, error)

	// InsertIfAbsent creates r unless a receipt for the same transaction
	// id already exists; in that case it returns the existing row.
	InsertIfAbsent(ctx context.Context, r *model.Receipt) (created bool, existing *model.Receipt, err error)
}

/* =========================================================
   Service
========================================================= */

type Service struct {
	store   Store
	prefix  string
	nowFunc func() time.Time
}

func NewService(store Store, prefix string) *Service {
	return &Service{store: store, prefix: prefix, nowFunc: time.Now}
}

// NextReceiptNumber yields the next human-facing number for the current
// calendar year. A new year starts its own sequence at 0001.
func (s *Service) NextReceiptNumber(ctx context.Context) (string, error) {
	year := s.nowFunc().Year()
	seq, err := s.store.NextNumber(ctx, year)
	if err != nil {
		return "", fmt.Errorf("next receipt number: %w", err)
	}
	return FormatReceiptNumber(s.prefix, year, seq), nil
}

type CreateInput struct {
	StudentID     string
	Amount        int
	PaymentRef    string
	Mode          string
	Status        string
	TransactionID string
	FeeType       string
	GeneratedBy   string
	PaidAt        time.Time
}

// Create writes exactly one receipt per transaction id. Calling it again
// for the same transaction returns the existing receipt untouched.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Receipt, error) {
	if existing, err := s.store.FindByTransactionID(ctx, in.TransactionID); err == nil && existing != nil {
		return existing, nil
	}

	student, err := s.store.GetStudent(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, in.StudentID)
	}

	number, err := s.NextReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	feeType := in.FeeType
	if feeType == "" {
		feeType = DefaultFeeType
	}
	generatedBy := in.GeneratedBy
	if generatedBy == "" {
		generatedBy = "System"
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = s.nowFunc()
	}

	r := &model.Receipt{
		ReceiptRef:           fmt.Sprintf("RCP-%d", s.nowFunc().UnixMilli()),
		ReceiptNumber:        number,
		ReceiptStudentID:     student.StudentID,
		ReceiptStudentName:   student.StudentName,
		ReceiptClass:         student.StudentClass,
		ReceiptFeeType:       feeType,
		ReceiptAmountPaid:    in.Amount,
		ReceiptPaymentMode:   in.Mode,
		ReceiptTransactionID: in.TransactionID,
		ReceiptStatus:        in.Status,
		ReceiptPaidAt:        paidAt,
		ReceiptGeneratedBy:   generatedBy,
	}

	created, existing, err := s.store.InsertIfAbsent(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
	}
	if !created {
		// lost the race to a concurrent verification; its receipt wins
		return existing, nil
	}
	return r, nil
}

// GetForActor resolves a receipt by document id under the viewing rules:
// admins see everything; a student sees only receipts whose student id
// matches their own linked profile. Lookup failures surface as
// unauthorized so existence is not leaked.
func (s *Service) GetForActor(ctx context.Context, actor authz.Actor, id uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if actor.IsAdmin() {
		return receipt, nil
	}
	if !actor.IsStudent() {
		return nil, ErrUnauthorized
	}

	student, err := s.store.FindStudentByUserID(ctx, actor.UserID)
	if err != nil || student == nil {
		return nil, ErrUnauthorized
	}
	if student.StudentID != receipt.ReceiptStudentID {
		return nil, ErrUnauthorized
	}
	return receipt, nil
}

// FindByTransactionID looks a receipt up by its checkout session id.
func (s *Service) FindByTransactionID(ctx context.Context, transactionID string) (*model.Receipt, error) {
	r, err := s.store.FindByTransactionID(ctx, transactionID)
	if err != nil || r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}
