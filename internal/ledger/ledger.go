// Package ledger computes the public figures shown on the transparency page.
//
// Only APPROVED transactions ever contribute to a balance. No function in
// this package mutates its input or changes a status, except Approve.
package ledger

import (
	"errors"
	"slices"
	"strings"

	"github.com/ogahribetzz/transparansi/internal/model"
)

// ErrAlreadyApproved is returned when approving a transaction twice.
var ErrAlreadyApproved = errors.New("transaction already approved")

// Summary holds the approved totals of a ledger.
type Summary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// Summarize totals approved income and approved expense. Pending
// transactions never contribute.
func Summarize(txns []model.Transaction) Summary {
	var s Summary
	for _, t := range txns {
		if !t.IsApproved() {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			s.Income += t.Amount
		case model.TypeExpense:
			s.Expense += t.Amount
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}

// FilterApproved returns the approved transactions in input order.
func FilterApproved(txns []model.Transaction) []model.Transaction {
	return keep(txns, func(t model.Transaction) bool { return t.IsApproved() })
}

// FilterPending returns the transactions awaiting approval in input order.
func FilterPending(txns []model.Transaction) []model.Transaction {
	return keep(txns, func(t model.Transaction) bool { return t.Status == model.StatusPending })
}

// Approve moves a pending transaction to APPROVED.
func Approve(t model.Transaction) (model.Transaction, error) {
	if t.IsApproved() {
		return t, ErrAlreadyApproved
	}
	t.Status = model.StatusApproved
	return t, nil
}

// Categories returns the distinct category labels in first-seen order.
func Categories(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	cats := []string{}
	for _, t := range txns {
		if seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		cats = append(cats, t.Category)
	}
	return cats
}

// SortByDateDesc returns a copy ordered newest first. Ties keep input order.
func SortByDateDesc(txns []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
	return sorted
}

// Find returns the transaction with the given ID.
func Find(txns []model.Transaction, txID string) (model.Transaction, bool) {
	for _, t := range txns {
		if t.ID == txID {
			return t, true
		}
	}
	return model.Transaction{}, false
}

func keep(txns []model.Transaction, pred func(model.Transaction) bool) []model.Transaction {
	out := []model.Transaction{}
	for _, t := range txns {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
