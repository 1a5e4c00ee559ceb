package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeportal_backend/internals/features/finance/payments/gateway"
	model "feeportal_backend/internals/features/finance/payments/model"

	receiptModel "feeportal_backend/internals/features/finance/receipts/model"
	receiptService "feeportal_backend/internals/features/finance/receipts/service"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

/* =========================================================
   Fakes
========================================================= */

type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*gateway.Session
	getErr   error
	getCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*gateway.Session)}
}

func (g *fakeGateway) add(s *gateway.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[s.ID] = s
}

func (g *fakeGateway) CreateSession(ctx context.Context, in gateway.CreateSessionInput) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := &gateway.Session{
		ID:          fmt.Sprintf("sess_%d", len(g.sessions)+1),
		Status:      gateway.StatusOpen,
		GrossAmount: in.Amount,
		Currency:    in.Currency,
		StudentID:   in.StudentID,
		FeeType:     in.FeeType,
		RedirectURL: "https://checkout.example/" + in.StudentID,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *fakeGateway) GetSession(ctx context.Context, sessionID string) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, gateway.ErrSessionNotFound
	}
	return s, nil
}

// fakePaymentStore mirrors the unique index on payment_session_id.
type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[string]*model.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*model.Payment)}
}

func (f *fakePaymentStore) InsertIfAbsent(ctx context.Context, p *model.Payment) (bool, *model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.payments[p.PaymentSessionID]; ok {
		return false, existing, nil
	}
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	f.payments[p.PaymentSessionID] = p
	return true, nil, nil
}

func (f *fakePaymentStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

// fakeReceiptStore backs a real receipts service so workflow tests cover
// payment and receipt writes together.
type fakeReceiptStore struct {
	mu       sync.Mutex
	counters map[int]int
	students map[string]*studentModel.Student
	receipts map[string]*receiptModel.Receipt
	byID     map[uuid.UUID]*receiptModel.Receipt
}

func newFakeReceiptStore() *fakeReceiptStore {
	return &fakeReceiptStore{
		counters: make(map[int]int),
		students: make(map[string]*studentModel.Student),
		receipts: make(map[string]*receiptModel.Receipt),
		byID:     make(map[uuid.UUID]*receiptModel.Receipt),
	}
}

func (f *fakeReceiptStore) addStudent(st *studentModel.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[st.StudentID] = st
}

func (f *fakeReceiptStore) NextNumber(ctx context.Context, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[year]++
	return f.counters[year], nil
}

func (f *fakeReceiptStore) GetStudent(ctx context.Context, studentID string) (*studentModel.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[studentID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return st, nil
}

func (f *fakeReceiptStore) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.Student, error) {
	return nil, errors.New("record not found")
}

func (f *fakeReceiptStore) GetByID(ctx context.Context, id uuid.UUID) (*receiptModel.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return r, nil
}

func (f *fakeReceiptStore) FindByTransactionID(ctx context.Context, transactionID string) (*receiptModel.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipts[transactionID], nil
}

func (f *fakeReceiptStore) InsertIfAbsent(ctx context.Context, r *receiptModel.Receipt) (bool, *receiptModel.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.receipts[r.ReceiptTransactionID]; ok {
		return false, existing, nil
	}
	if r.ReceiptID == uuid.Nil {
		r.ReceiptID = uuid.New()
	}
	f.receipts[r.ReceiptTransactionID] = r
	f.byID[r.ReceiptID] = r
	return true, nil, nil
}

func (f *fakeReceiptStore) receiptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}

/* =========================================================
   Harness
========================================================= */

type harness struct {
	gw       *fakeGateway
	payments *fakePaymentStore
	receipts *fakeReceiptStore
	workflow *Workflow
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gw := newFakeGateway()
	payments := newFakePaymentStore()
	receipts := newFakeReceiptStore()
	svc := receiptService.NewService(receipts, "SBS")
	return &harness{
		gw:       gw,
		payments: payments,
		receipts: receipts,
		workflow: NewWorkflow(gw, payments, svc),
	}
}

func (h *harness) seedStudent(id, name, class string) {
	h.receipts.addStudent(&studentModel.Student{
		StudentID:    id,
		StudentName:  name,
		StudentClass: class,
	})
}

func intPtr(v int) *int { return &v }

/* =========================================================
   Tests
========================================================= */

func TestVerifyPaidSession(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")
	h.gw.add(&gateway.Session{
		ID:          "cs_test_1",
		Status:      gateway.StatusPaid,
		GrossAmount: 6500,
		Currency:    "INR",
		StudentID:   "ST-000123",
		FeeType:     "tuition",
	})

	res, err := h.workflow.Verify(context.Background(), VerifyInput{
		SessionID:     "cs_test_1",
		StudentID:     "ST-000123",
		ClaimedAmount: intPtr(6500),
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, MsgSuccess, res.Message)

	require.NotNil(t, res.Payment)
	assert.Equal(t, "ST-000123", res.Payment.PaymentStudentID)
	assert.Equal(t, 6500, res.Payment.PaymentAmount)
	assert.Equal(t, model.PaymentStatusPaid, res.Payment.PaymentStatus)
	assert.Equal(t, model.PaymentMethodOnline, res.Payment.PaymentMethod)
	assert.Equal(t, "cs_test_1", res.Payment.PaymentSessionID)
	assert.Equal(t, "cs_test_1", res.Payment.PaymentMeta["order_id"])
	assert.Equal(t, "INR", res.Payment.PaymentMeta["currency"])
	assert.Equal(t, "tuition", res.Payment.PaymentMeta["fee_type"])

	require.NotNil(t, res.Receipt)
	expected := fmt.Sprintf("SBS-%d-0001", time.Now().Year())
	assert.Equal(t, expected, res.Receipt.ReceiptNumber)
	assert.Equal(t, "Asha Verma", res.Receipt.ReceiptStudentName)
	assert.Equal(t, "Class 5", res.Receipt.ReceiptClass)
	assert.Equal(t, "cs_test_1", res.Receipt.ReceiptTransactionID)
	assert.Equal(t, receiptModel.ModeOnline, res.Receipt.ReceiptPaymentMode)
}

func TestVerifyIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")
	h.gw.add(&gateway.Session{
		ID:          "cs_test_1",
		Status:      gateway.StatusPaid,
		GrossAmount: 6500,
		StudentID:   "ST-000123",
	})

	in := VerifyInput{SessionID: "cs_test_1"}

	first, err := h.workflow.Verify(context.Background(), in)
	require.NoError(t, err)
	second, err := h.workflow.Verify(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, second.Outcome)
	assert.Equal(t, first.Payment.PaymentID, second.Payment.PaymentID)
	assert.Equal(t, first.Receipt.ReceiptID, second.Receipt.ReceiptID)
	assert.Equal(t, 1, h.payments.count())
	assert.Equal(t, 1, h.receipts.receiptCount())
}

func TestVerifyConcurrentSameSession(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")
	h.gw.add(&gateway.Session{
		ID:          "cs_test_1",
		Status:      gateway.StatusPaid,
		GrossAmount: 6500,
		StudentID:   "ST-000123",
	})

	const n = 8
	results := make([]*Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := h.workflow.Verify(context.Background(), VerifyInput{SessionID: "cs_test_1"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, h.payments.count())
	assert.Equal(t, 1, h.receipts.receiptCount())
	for _, res := range results {
		assert.Equal(t, OutcomeSuccess, res.Outcome)
		assert.Equal(t, results[0].Payment.PaymentID, res.Payment.PaymentID)
		assert.Equal(t, results[0].Receipt.ReceiptNumber, res.Receipt.ReceiptNumber)
	}
}

func TestVerifyUnpaidSessionWritesNothing(t *testing.T) {
	for _, status := range []gateway.Status{gateway.StatusUnpaid, gateway.StatusOpen} {
		t.Run(string(status), func(t *testing.T) {
			h := newHarness(t)
			h.seedStudent("ST-000123", "Asha Verma", "Class 5")
			h.gw.add(&gateway.Session{
				ID:          "cs_incomplete",
				Status:      status,
				GrossAmount: 6500,
				StudentID:   "ST-000123",
			})

			res, err := h.workflow.Verify(context.Background(), VerifyInput{SessionID: "cs_incomplete"})
			require.NoError(t, err)

			assert.Equal(t, OutcomeNotCompleted, res.Outcome)
			assert.Equal(t, MsgNotCompleted, res.Message)
			assert.Nil(t, res.Payment)
			assert.Equal(t, 0, h.payments.count())
			assert.Equal(t, 0, h.receipts.receiptCount())
		})
	}
}

func TestVerifyFailureCases(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		in    VerifyInput
	}{
		{
			name:  "missing session id",
			setup: func(h *harness) {},
			in:    VerifyInput{},
		},
		{
			name:  "session lookup fails",
			setup: func(h *harness) { h.gw.getErr = errors.New("gateway down") },
			in:    VerifyInput{SessionID: "cs_test_1"},
		},
		{
			name:  "session unknown to gateway",
			setup: func(h *harness) {},
			in:    VerifyInput{SessionID: "cs_missing"},
		},
		{
			name: "claimed amount disagrees with session",
			setup: func(h *harness) {
				h.gw.add(&gateway.Session{
					ID: "cs_test_1", Status: gateway.StatusPaid,
					GrossAmount: 6500, StudentID: "ST-000123",
				})
			},
			in: VerifyInput{SessionID: "cs_test_1", ClaimedAmount: intPtr(100)},
		},
		{
			name: "claimed student disagrees with session",
			setup: func(h *harness) {
				h.gw.add(&gateway.Session{
					ID: "cs_test_1", Status: gateway.StatusPaid,
					GrossAmount: 6500, StudentID: "ST-000123",
				})
			},
			in: VerifyInput{SessionID: "cs_test_1", StudentID: "ST-000999"},
		},
		{
			name: "no student on session or redirect",
			setup: func(h *harness) {
				h.gw.add(&gateway.Session{
					ID: "cs_test_1", Status: gateway.StatusPaid, GrossAmount: 6500,
				})
			},
			in: VerifyInput{SessionID: "cs_test_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedStudent("ST-000123", "Asha Verma", "Class 5")
			tt.setup(h)

			res, err := h.workflow.Verify(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, OutcomeFailed, res.Outcome)
			assert.Equal(t, MsgFailed, res.Message)
			assert.Equal(t, 0, h.payments.count())
			assert.Equal(t, 0, h.receipts.receiptCount())
		})
	}
}

func TestVerifyStudentIDFallsBackToRedirect(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")
	h.gw.add(&gateway.Session{
		ID:          "cs_no_meta",
		Status:      gateway.StatusPaid,
		GrossAmount: 6500,
		// provider dropped the metadata echo
	})

	res, err := h.workflow.Verify(context.Background(), VerifyInput{
		SessionID: "cs_no_meta",
		StudentID: "ST-000123",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, "ST-000123", res.Payment.PaymentStudentID)
}

func TestRecordManual(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")

	res, err := h.workflow.RecordManual(context.Background(), ManualInput{
		StudentID:   "ST-000123",
		Amount:      2500,
		Note:        "cheque #4471",
		GeneratedBy: "Admin",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)

	require.NotNil(t, res.Payment)
	assert.Equal(t, model.PaymentMethodManual, res.Payment.PaymentMethod)
	assert.True(t, res.Payment.IsManual())
	assert.Contains(t, res.Payment.PaymentSessionID, model.ManualSessionPrefix)
	require.NotNil(t, res.Payment.PaymentNote)
	assert.Equal(t, "cheque #4471", *res.Payment.PaymentNote)
	assert.Equal(t, "Admin", res.Payment.PaymentMeta["recorded_by"])
	assert.Equal(t, "cheque #4471", res.Payment.PaymentMeta["note"])

	require.NotNil(t, res.Receipt)
	assert.Equal(t, receiptModel.ModeManual, res.Receipt.ReceiptPaymentMode)
	assert.Equal(t, "Admin", res.Receipt.ReceiptGeneratedBy)
	assert.Equal(t, 2500, res.Receipt.ReceiptAmountPaid)
}

func TestRecordManualSameInstantEntriesAreDistinct(t *testing.T) {
	h := newHarness(t)
	h.seedStudent("ST-000123", "Asha Verma", "Class 5")

	// Two entries landing within the same millisecond must still be
	// recorded as two payments.
	frozen := time.Now()
	h.workflow.nowFunc = func() time.Time { return frozen }

	first, err := h.workflow.RecordManual(context.Background(), ManualInput{
		StudentID:   "ST-000123",
		Amount:      2500,
		GeneratedBy: "Admin",
	})
	require.NoError(t, err)
	second, err := h.workflow.RecordManual(context.Background(), ManualInput{
		StudentID:   "ST-000123",
		Amount:      4000,
		GeneratedBy: "Admin",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, h.payments.count())
	assert.NotEqual(t, first.Payment.PaymentID, second.Payment.PaymentID)
	assert.NotEqual(t, first.Payment.PaymentSessionID, second.Payment.PaymentSessionID)
	assert.Equal(t, 2500, first.Payment.PaymentAmount)
	assert.Equal(t, 4000, second.Payment.PaymentAmount)
	assert.Equal(t, 2, h.receipts.receiptCount())
}

func TestRecordManualValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.workflow.RecordManual(context.Background(), ManualInput{StudentID: "", Amount: 100})
	assert.Error(t, err)

	_, err = h.workflow.RecordManual(context.Background(), ManualInput{StudentID: "ST-000123", Amount: 0})
	assert.Error(t, err)

	assert.Equal(t, 0, h.payments.count())
}
