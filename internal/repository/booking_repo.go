package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"inkwell/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("stripe_intent_id = ?", intentID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("client_id = ? OR artist_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// AttachCheckoutSession records the gateway correlation keys. The session
// id is written once; a later call with the same ids is a no-op, a call
// with a different intent id than the one on file is refused.
func (r *BookingRepository) AttachCheckoutSession(ctx context.Context, id int64, sessionID, intentID string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
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

// MarkAuthorized moves unpaid -> authorized. Returns false when the
// booking is already at or past authorized (duplicate delivery).
func (r *BookingRepository) MarkAuthorized(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentUnpaid).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentAuthorized,
			"authorized_at":  at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkPaid moves authorized -> paid.
func (r *BookingRepository) MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentPaid,
			"completed_at":   at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkCancelled moves authorized -> cancelled. A paid booking is never
// touched by this path.
func (r *BookingRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Update("payment_status", domain.PaymentCancelled)
	return res.RowsAffected > 0, res.Error
}

// MarkFailed moves authorized -> failed.
func (r *BookingRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Update("payment_status", domain.PaymentFailed)
	return res.RowsAffected > 0, res.Error
}

// UpdateReaction decides a pending reaction. Returns false when the
// reaction was already decided.
func (r *BookingRepository) UpdateReaction(ctx context.Context, id int64, reaction domain.Reaction, note string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND reaction = ?", id, domain.ReactionPending).
		Updates(map[string]interface{}{
			"reaction":       reaction,
			"rejection_note": note,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkExpired applies the sweeper transition: authorized -> cancelled
// with the reaction forced to rejected and a system note.
func (r *BookingRepository) MarkExpired(ctx context.Context, id int64, note string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ?", id, domain.PaymentAuthorized).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentCancelled,
			"reaction":       domain.ReactionRejected,
			"rejection_note": note,
		})
	return res.RowsAffected > 0, res.Error
}

// FindExpiredAuthorized returns bookings whose hold is older than before
// and still undecided.
func (r *BookingRepository) FindExpiredAuthorized(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND authorized_at IS NOT NULL AND authorized_at < ?", domain.PaymentAuthorized, before).
		Find(&out).Error
	return out, err
}
