package id

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	transactionPrefix  = "TRX-"
	notificationPrefix = "notif-"
)

// namespace scopes name-based UUIDs to this ledger.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://ogahribetzz.id/ledger/transactions"))

// TransactionID derives a stable ID from the fields that identify a row
// upstream, e.g. "TRX-3f2c...". The same row always gets the same ID.
func TransactionID(date, name string, amount int64) string {
	key := strings.Join([]string{date, name, strconv.FormatInt(amount, 10)}, "|")
	return transactionPrefix + uuid.NewSHA1(namespace, []byte(key)).String()
}

// IsSynthesized reports whether id was produced by TransactionID.
func IsSynthesized(id string) bool {
	rest, ok := strings.CutPrefix(id, transactionPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// NotificationID returns the notification ID for a transaction.
// "TRX-1" -> "notif-TRX-1"
func NotificationID(transactionID string) string {
	return notificationPrefix + transactionID
}

// TransactionIDFromNotification strips the notification prefix.
// Returns false if notificationID is not a notification ID.
func TransactionIDFromNotification(notificationID string) (string, bool) {
	txID, ok := strings.CutPrefix(notificationID, notificationPrefix)
	if !ok || txID == "" {
		return "", false
	}
	return txID, true
}

// Disambiguate returns id unchanged the first time it is seen and appends
// "-2", "-3", ... on repeats. seen is updated in place.
func Disambiguate(id string, seen map[string]int) string {
	seen[id]++
	n := seen[id]
	if n == 1 {
		return id
	}
	candidate := id + "-" + strconv.Itoa(n)
	for seen[candidate] > 0 {
		n++
		candidate = id + "-" + strconv.Itoa(n)
	}
	seen[candidate] = 1
	return candidate
}
