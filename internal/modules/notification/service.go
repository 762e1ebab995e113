package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"inkwell/internal/domain"
)

// Service persists in-app notifications and pushes them to connected
// clients. Every send is best-effort: failures are logged and reported
// through the Outcome, never returned as an error.
type Service struct {
	repo    *Repository
	hub     *Hub
	dedup   *DedupCache
	loggerf func(format string, args ...interface{})
}

func NewService(repo *Repository, hub *Hub, dedup *DedupCache, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{repo: repo, hub: hub, dedup: dedup, loggerf: loggerf}
}

// send is the single dispatch point. The dedupKey suppresses repeat
// sends within the cache window; an empty key disables deduplication.
func (s *Service) send(ctx context.Context, userID int64, kind Kind, title, body string, data map[string]any, dedupKey string) Outcome {
	if s.dedup != nil && s.dedup.Seen(dedupKey) {
		s.loggerf("level=info msg=notification suppressed kind=%s user_id=%d dedup_key=%s", kind, userID, dedupKey)
		return SendSuppressed
	}

	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			s.loggerf("level=error msg=notification data marshal failed kind=%s user_id=%d err=%v", kind, userID, err)
			return SendFailed
		}
		raw = b
	}

	n := &Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
		Data:   raw,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.loggerf("level=error msg=notification create failed kind=%s user_id=%d err=%v", kind, userID, err)
		return SendFailed
	}

	if s.hub != nil {
		s.hub.Push(userID, n)
	}
	return SendOK
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DepositAuthorized tells the payee that funds are held and a decision
// is awaited.
func (s *Service) DepositAuthorized(ctx context.Context, payeeID int64, family, recordID string, amount int64, currency string) Outcome {
	return s.send(
		ctx,
		payeeID,
		KindDepositAuthorized,
		"New paid request",
		fmt.Sprintf("A deposit of %s is on hold for a new request", FormatAmount(amount, currency)),
		map[string]any{"family": family, "record_id": recordID},
		dedupKey(family, recordID, KindDepositAuthorized),
	)
}

// PaymentCaptured informs both parties that the deposit was captured.
func (s *Service) PaymentCaptured(ctx context.Context, payerID, payeeID int64, family, recordID string, amount int64, currency string) Outcome {
	formatted := FormatAmount(amount, currency)
	data := map[string]any{"family": family, "record_id": recordID}

	out := s.send(
		ctx,
		payerID,
		KindPaymentCaptured,
		"Payment completed",
		fmt.Sprintf("Your deposit of %s has been charged", formatted),
		data,
		dedupKey(family, recordID, KindPaymentCaptured)+":payer",
	)
	payeeOut := s.send(
		ctx,
		payeeID,
		KindPaymentCaptured,
		"Deposit received",
		fmt.Sprintf("A deposit of %s has been paid out to you", formatted),
		data,
		dedupKey(family, recordID, KindPaymentCaptured)+":payee",
	)
	if out == SendFailed || payeeOut == SendFailed {
		return SendFailed
	}
	return out
}

// FundsReleased tells the payer their hold was released.
func (s *Service) FundsReleased(ctx context.Context, payerID int64, family, recordID string) Outcome {
	return s.send(
		ctx,
		payerID,
		KindFundsReleased,
		"Deposit released",
		"Your deposit hold has been released back to your payment method",
		map[string]any{"family": family, "record_id": recordID},
		dedupKey(family, recordID, KindFundsReleased),
	)
}

// PaymentFailed tells the payer the capture did not go through.
func (s *Service) PaymentFailed(ctx context.Context, payerID int64, family, recordID string) Outcome {
	return s.send(
		ctx,
		payerID,
		KindPaymentFailed,
		"Payment failed",
		"Your deposit payment could not be completed",
		map[string]any{"family": family, "record_id": recordID},
		dedupKey(family, recordID, KindPaymentFailed),
	)
}

// ReactionChanged informs the other counterparty of an accept/reject
// decision. Distinct from the payment-state notifications.
func (s *Service) ReactionChanged(ctx context.Context, recipientID int64, family, recordID string, reaction domain.Reaction, note string) Outcome {
	kind := KindReactionAccepted
	title := "Request accepted"
	body := "Your request has been accepted"
	if reaction == domain.ReactionRejected {
		kind = KindReactionRejected
		title = "Request declined"
		body = "Your request has been declined"
		if note != "" {
			body = body + ": " + note
		}
	}
	return s.send(
		ctx,
		recipientID,
		kind,
		title,
		body,
		map[string]any{"family": family, "record_id": recordID},
		dedupKey(family, recordID, kind),
	)
}

// HoldExpired tells the payer their undecided request timed out.
func (s *Service) HoldExpired(ctx context.Context, payerID int64, family, recordID string) Outcome {
	return s.send(
		ctx,
		payerID,
		KindHoldExpired,
		"Request expired",
		"Your request was not answered in time and the deposit hold has been released",
		map[string]any{"family": family, "record_id": recordID},
		dedupKey(family, recordID, KindHoldExpired),
	)
}

// TipReceived tells the artist a tip came through.
func (s *Service) TipReceived(ctx context.Context, artistID int64, tipID string, amount int64, currency string) Outcome {
	return s.send(
		ctx,
		artistID,
		KindTipReceived,
		"You received a tip",
		fmt.Sprintf("Someone sent you a %s tip", FormatAmount(amount, currency)),
		map[string]any{"tip_id": tipID},
		dedupKey("tip", tipID, KindTipReceived),
	)
}

func dedupKey(family, recordID string, kind Kind) string {
	return family + ":" + recordID + ":" + string(kind)
}

// FormatAmount renders a minor-unit amount for user-facing messages.
func FormatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(minor)/100, strings.ToUpper(currency))
}
