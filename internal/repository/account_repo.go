package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/domain"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.PayoutAccount, error) {
	var a domain.PayoutAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateCapabilities upserts the capability flags reported by the gateway
// for a connected account.
func (r *AccountRepository) UpdateCapabilities(ctx context.Context, stripeAccountID string, charges, payouts, details bool) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PayoutAccount{}).
		Where("stripe_account_id = ?", stripeAccountID).
		Updates(map[string]interface{}{
			"charges_enabled":   charges,
			"payouts_enabled":   payouts,
			"details_submitted": details,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert inserts the account row or refreshes its flags when the
// stripe_account_id is already linked.
func (r *AccountRepository) Upsert(ctx context.Context, a *domain.PayoutAccount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"charges_enabled", "payouts_enabled", "details_submitted"}),
		}).
		Create(a).Error
}
