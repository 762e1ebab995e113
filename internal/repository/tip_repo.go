package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"inkwell/internal/domain"
)

type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

func (r *TipRepository) Create(ctx context.Context, t *domain.Tip) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *TipRepository) GetByID(ctx context.Context, id int64) (*domain.Tip, error) {
	var t domain.Tip
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TipRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Tip, error) {
	var t domain.Tip
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TipRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Tip, error) {
	var t domain.Tip
	if err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TipRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Tip, error) {
	var t domain.Tip
	if err := r.db.WithContext(ctx).Where("stripe_intent_id = ?", intentID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TipRepository) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Tip{}).
		Where("id = ? AND (stripe_intent_id = '' OR stripe_intent_id = ?)", id, intentID).
		Updates(map[string]interface{}{
			"stripe_session_id": sessionID,
			"stripe_intent_id":  intentID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIntentMismatch
	}
	return nil
}

// MarkCompleted moves pending -> completed. False means the tip already
// reached a terminal status (duplicate delivery).
func (r *TipRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Tip{}).
		Where("id = ? AND status = ?", id, domain.TipPending).
		Updates(map[string]interface{}{
			"status":       domain.TipCompleted,
			"completed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *TipRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Tip{}).
		Where("id = ? AND status = ?", id, domain.TipPending).
		Update("status", domain.TipFailed)
	return res.RowsAffected > 0, res.Error
}

func (r *TipRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Tip{}).
		Where("id = ? AND status = ?", id, domain.TipPending).
		Update("status", domain.TipCancelled)
	return res.RowsAffected > 0, res.Error
}
