package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feeportal_backend/internals/helpers/livequery"

	model "feeportal_backend/internals/features/finance/receipts/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

/* =========================================================
   GORM store
========================================================= */

type GormStore struct {
	db     *gorm.DB
	broker *livequery.Broker
}

func NewGormStore(db *gorm.DB, broker *livequery.Broker) *GormStore {
	return &GormStore{db: db, broker: broker}
}

// NextNumber is one round trip: upsert the year row and increment in the
// same statement, so two concurrent callers get distinct values.
func (s *GormStore) NextNumber(ctx context.Context, year int) (int, error) {
	var value int
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO receipt_counters (counter_year, counter_value)
		VALUES (?, 1)
		ON CONFLICT (counter_year)
		DO UPDATE SET counter_value = receipt_counters.counter_value + 1
		RETURNING counter_value
	`, year).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *GormStore) GetStudent(ctx context.Context, studentID string) (*studentModel.Student, error) {
	var st studentModel.Student
	if err := s.db.WithContext(ctx).First(&st, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *GormStore) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*studentModel.Student, error) {
	var st studentModel.Student
	if err := s.db.WithContext(ctx).First(&st, "student_user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *GormStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var r model.Receipt
	if err := s.db.WithContext(ctx).First(&r, "receipt_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) FindByTransactionID(ctx context.Context, transactionID string) (*model.Receipt, error) {
	var r model.Receipt
	err := s.db.WithContext(ctx).First(&r, "receipt_transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) InsertIfAbsent(ctx context.Context, r *model.Receipt) (bool, *model.Receipt, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "receipt_transaction_id"}},
			DoNothing: true,
		}).
		Create(r)
	if res.Error != nil {
		return false, nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := s.FindByTransactionID(ctx, r.ReceiptTransactionID)
		if err != nil {
			return false, nil, err
		}
		return false, existing, nil
	}

	if s.broker != nil {
		s.broker.Publish(livequery.Event{
			Kind:      "receipt",
			StudentID: r.ReceiptStudentID,
			Payload:   r,
		})
	}
	return true, nil, nil
}

/* =========================================================
   Counter seeding
========================================================= */

// SeedCounter initializes the current year's counter from the newest
// receipt so legacy data continues its sequence. Any read problem, or a
// number we cannot parse, degrades to restarting at 0001 — numbering
// must never block receipt generation.
func SeedCounter(ctx context.Context, db *gorm.DB, now time.Time) {
	year := now.Year()

	var count int64
	if err := db.WithContext(ctx).Model(&model.ReceiptCounter{}).
		Where("counter_year = ?", year).Count(&count).Error; err == nil && count > 0 {
		return
	}

	seed := 0
	var last model.Receipt
	err := db.WithContext(ctx).Order("receipt_created_at DESC").First(&last).Error
	if err == nil {
		if seed = CounterSeed(last.ReceiptNumber, year); seed == 0 {
			if _, _, _, perr := ParseReceiptNumber(last.ReceiptNumber); perr != nil {
				log.Printf("[WARN] could not parse last receipt number %q, restarting sequence", last.ReceiptNumber)
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[WARN] could not read last receipt, restarting sequence: %v", err)
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ReceiptCounter{CounterYear: year, CounterValue: seed}).Error; err != nil {
		log.Printf("[WARN] seed receipt counter: %v", err)
	}
}
