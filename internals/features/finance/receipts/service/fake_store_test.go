package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	model "feeportal_backend/internals/features/finance/receipts/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

// fakeStore mimics the unique-index + atomic-counter behavior of the
// real store, guarded by a mutex so concurrency tests are meaningful.
type fakeStore struct {
	mu       sync.Mutex
	counters map[int]int
	students map[string]*studentModel.Student
	byUser   map[uuid.UUID]*studentModel.Student
	receipts map[string]*model.Receipt // keyed by transaction id
	byID     map[uuid.UUID]*model.Receipt

	nextNumberErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counters: make(map[int]int),
		students: make(map[string]*studentModel.Student),
		byUser:   make(map[uuid.UUID]*studentModel.Student),
		receipts: make(map[string]*model.Receipt),
		byID:     make(map[uuid.UUID]*model.Receipt),
	}
}

func (f *fakeStore) addStudent(st *studentModel.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[st.StudentID] = st
	if st.StudentUserID != nil {
		f.byUser[*st.StudentUserID] = st
	}
}

func (f *fakeStore) NextNumber(ctx context.Context, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextNumberErr != nil {
		return 0, f.nextNumberErr
	}
	f.counters[year]++
	return f.counters[year], nil
}

func (f *fakeStore) GetStudent(ctx context.Context, studentID string) (*studentModel.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[studentID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return st, nil
}

func (f *fakeStore) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.byUser[userID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return st, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return r, nil
}

func (f *fakeStore) FindByTransactionID(ctx context.Context, transactionID string) (*model.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipts[transactionID], nil
}

func (f *fakeStore) InsertIfAbsent(ctx context.Context, r *model.Receipt) (bool, *model.Receipt, error) {
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

func (f *fakeStore) receiptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}
