package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"inkwell/internal/domain"
)

type GuestSpotRepository struct {
	db *gorm.DB
}

func NewGuestSpotRepository(db *gorm.DB) *GuestSpotRepository {
	return &GuestSpotRepository{db: db}
}

func (r *GuestSpotRepository) Create(ctx context.Context, g *domain.GuestSpotBooking) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GuestSpotRepository) GetByID(ctx context.Context, id int64) (*domain.GuestSpotBooking, error) {
	var g domain.GuestSpotBooking
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestSpotRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.GuestSpotBooking, error) {
	var g domain.GuestSpotBooking
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestSpotRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.GuestSpotBooking, error) {
	var g domain.GuestSpotBooking
	if err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestSpotRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.GuestSpotBooking, error) {
	var g domain.GuestSpotBooking
	if err := r.db.WithContext(ctx).Where("stripe_intent_id = ?", intentID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestSpotRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GuestSpotBooking, error) {
	var out []domain.GuestSpotBooking
	err := r.db.WithContext(ctx).
		Where("artist_id = ? OR shop_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *GuestSpotRepository) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
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

func (r *GuestSpotRepository) MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentUnpaid).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentAuthorized,
			"authorized_at":  at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentPaid,
			"completed_at":   at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Update("payment_status", domain.PaymentCancelled)
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Update("payment_status", domain.PaymentFailed)
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) UpdateReaction(ctx context.Context, id int64, reaction domain.Reaction, note string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND reaction = ?", id, domain.ReactionPending).
		Updates(map[string]interface{}{
			"reaction":       reaction,
			"rejection_note": note,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) MarkExpired(ctx context.Context, id int64, note string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.GuestSpotBooking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentCancelled,
			"reaction":       domain.ReactionRejected,
			"rejection_note": note,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GuestSpotRepository) FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.GuestSpotBooking, error) {
	var out []domain.GuestSpotBooking
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND authorized_at IS NOT NULL AND authorized_at < ?", domain.PaymentAuthorized, before).
		Find(&out).Error
	return out, err
}
