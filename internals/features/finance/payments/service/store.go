package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feeportal_backend/internals/helpers/livequery"

	model "feeportal_backend/internals/features/finance/payments/model"
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

// InsertIfAbsent writes p unless a payment for the same session id is
// already recorded; concurrent verifications of one session resolve to a
// single row via the unique index.
func (s *GormStore) InsertIfAbsent(ctx context.Context, p *model.Payment) (bool, *model.Payment, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_session_id"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := s.FindBySessionID(ctx, p.PaymentSessionID)
		if err != nil {
			return false, nil, err
		}
		return false, existing, nil
	}

	if s.broker != nil {
		s.broker.Publish(livequery.Event{
			Kind:      "payment",
			StudentID: p.PaymentStudentID,
			Payload:   p,
		})
	}
	return true, nil, nil
}

func (s *GormStore) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	var p model.Payment
	err := s.db.WithContext(ctx).First(&p, "payment_session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns payments newest-first, optionally filtered by student.
func (s *GormStore) List(ctx context.Context, studentID string, limit, offset int) ([]model.Payment, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Payment{})
	if studentID != "" {
		q = q.Where("payment_student_id = ?", studentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []model.Payment
	err := q.Order("payment_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
