package donations

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/ogahribetzz/transparansi/internal/id"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

// Notifications derives one DONATION notification per pending transaction.
// When the ledger could not be read there is nothing to notify about, so
// the list is empty.
func (s *Service) Notifications(ctx context.Context) Result[[]model.AdminNotification] {
	res := s.Transactions(ctx, ScopeAll)
	out := []model.AdminNotification{}
	if res.Outcome.UsedFallback() {
		return Result[[]model.AdminNotification]{Items: out, Outcome: res.Outcome}
	}

	for _, tx := range ledger.SortByDateDesc(ledger.FilterPending(res.Items)) {
		nid := id.NotificationID(tx.ID)
		_, read := s.read.Get(nid)
		out = append(out, model.AdminNotification{
			ID:        nid,
			Message:   fmt.Sprintf("Donasi baru %s dari %s", FormatRupiah(tx.Amount), tx.Name),
			Timestamp: tx.Date,
			IsRead:    read,
			Type:      model.NotificationDonation,
		})
	}
	return Result[[]model.AdminNotification]{Items: out, Outcome: res.Outcome}
}

// MarkNotificationRead remembers that notificationID was read. The mark
// lives in memory and expires after the configured TTL.
func (s *Service) MarkNotificationRead(notificationID string) error {
	if _, ok := id.TransactionIDFromNotification(notificationID); !ok {
		return fmt.Errorf("%w: %q is not a notification id", ErrInvalidSubmission, notificationID)
	}
	s.read.Set(notificationID, struct{}{}, cache.DefaultExpiration)
	return nil
}
