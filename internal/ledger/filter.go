package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogahribetzz/transparansi/internal/model"
)

// Criteria narrows a ledger view. Zero-valued fields impose no constraint.
type Criteria struct {
	Type      model.TransactionType
	NameQuery string
	From      string // YYYY-MM-DD, inclusive
	To        string // YYYY-MM-DD, inclusive
	Category  string
}

// Validate checks that the date bounds are calendar dates.
func (c Criteria) Validate() error {
	for _, d := range []string{c.From, c.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}
	if c.Type != "" && c.Type != model.TypeIncome && c.Type != model.TypeExpense {
		return fmt.Errorf("invalid type %q", c.Type)
	}
	return nil
}

// Predicate reports whether a transaction belongs in a view.
type Predicate func(model.Transaction) bool

// MatchesType matches transactions of typ. Empty typ matches all.
func MatchesType(typ model.TransactionType) Predicate {
	return func(t model.Transaction) bool {
		return typ == "" || t.Type == typ
	}
}

// MatchesNameQuery matches names containing q, ignoring case. Empty q matches all.
func MatchesNameQuery(q string) Predicate {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(t model.Transaction) bool {
		return q == "" || strings.Contains(strings.ToLower(t.Name), q)
	}
}

// MatchesDateRange matches dates within [from, to]. Either bound may be
// empty. Transactions without a calendar date never match a bounded range.
func MatchesDateRange(from, to string) Predicate {
	return func(t model.Transaction) bool {
		if from == "" && to == "" {
			return true
		}
		if _, err := time.Parse(time.DateOnly, t.Date); err != nil {
			return false
		}
		if from != "" && t.Date < from {
			return false
		}
		if to != "" && t.Date > to {
			return false
		}
		return true
	}
}

// MatchesCategory matches an exact category label. Empty matches all.
func MatchesCategory(category string) Predicate {
	return func(t model.Transaction) bool {
		return category == "" || t.Category == category
	}
}

// Predicates returns the independent predicates making up c.
func (c Criteria) Predicates() []Predicate {
	return []Predicate{
		MatchesType(c.Type),
		MatchesNameQuery(c.NameQuery),
		MatchesDateRange(c.From, c.To),
		MatchesCategory(c.Category),
	}
}

// Filter returns the transactions matching every criterion, in input order.
func Filter(txns []model.Transaction, c Criteria) []model.Transaction {
	return Select(txns, c.Predicates()...)
}

// Select returns the transactions matching all preds, in input order.
func Select(txns []model.Transaction, preds ...Predicate) []model.Transaction {
	return keep(txns, func(t model.Transaction) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	})
}
