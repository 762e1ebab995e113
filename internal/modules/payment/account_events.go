package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"inkwell/internal/domain"
)

// AccountEvents handles the family-agnostic account.updated event, which
// refreshes payout-capability flags on the connected account record.
type AccountEvents struct {
	accounts accountStore
	loggerf  func(format string, args ...interface{})
}

func NewAccountEvents(accounts accountStore, loggerf func(format string, args ...interface{})) *AccountEvents {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &AccountEvents{accounts: accounts, loggerf: loggerf}
}

func (e *AccountEvents) handleAccountUpdated(ctx context.Context, ev stripe.Event) error {
	var acct stripe.Account
	if err := json.Unmarshal(ev.Data.Raw, &acct); err != nil {
		return fmt.Errorf("parse account: %w", err)
	}

	// Accounts onboarded with an owner id in metadata can be created on
	// first sight; anything else may only refresh an existing row.
	if userID, ok := ownerFromMetadata(acct.Metadata); ok {
		err := e.accounts.Upsert(ctx, &domain.PayoutAccount{
			UserID:           userID,
			StripeAccountID:  acct.ID,
			ChargesEnabled:   acct.ChargesEnabled,
			PayoutsEnabled:   acct.PayoutsEnabled,
			DetailsSubmitted: acct.DetailsSubmitted,
		})
		if err != nil {
			return err
		}
		e.loggerf("level=info msg=account capabilities upserted stripe_account_id=%s user_id=%d charges_enabled=%t payouts_enabled=%t", acct.ID, userID, acct.ChargesEnabled, acct.PayoutsEnabled)
		return nil
	}

	err := e.accounts.UpdateCapabilities(ctx, acct.ID, acct.ChargesEnabled, acct.PayoutsEnabled, acct.DetailsSubmitted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.loggerf("level=warn msg=account update for unknown account stripe_account_id=%s event_id=%s", acct.ID, ev.ID)
			return nil
		}
		return err
	}

	e.loggerf("level=info msg=account capabilities updated stripe_account_id=%s charges_enabled=%t payouts_enabled=%t", acct.ID, acct.ChargesEnabled, acct.PayoutsEnabled)
	return nil
}

func ownerFromMetadata(md map[string]string) (int64, bool) {
	raw, ok := md["user_id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
