package mapper

import (
	"github.com/ogahribetzz/transparansi/internal/id"
	"github.com/ogahribetzz/transparansi/internal/model"
	"github.com/ogahribetzz/transparansi/internal/normalize"
)

// Records extracts the object rows of an array payload. Elements that are
// not objects are skipped and counted. ok is false when data is not an array.
func Records(data any) (recs []normalize.Record, skipped int, ok bool) {
	items, isArray := data.([]any)
	if !isArray {
		return nil, 0, false
	}
	recs = make([]normalize.Record, 0, len(items))
	for _, item := range items {
		row, isObj := item.(map[string]any)
		if !isObj {
			skipped++
			continue
		}
		recs = append(recs, normalize.Record(row))
	}
	return recs, skipped, true
}

// Transactions maps every row. Synthesized IDs are made unique within the
// result; IDs from the sheet are kept as given so they can be sent back.
func Transactions(recs []normalize.Record) []model.Transaction {
	seen := make(map[string]int, len(recs))
	txns := make([]model.Transaction, 0, len(recs))
	for _, rec := range recs {
		txn := Transaction(rec)
		if id.IsSynthesized(txn.ID) {
			txn.ID = id.Disambiguate(txn.ID, seen)
		} else {
			seen[txn.ID]++
		}
		txns = append(txns, txn)
	}
	return txns
}

// DuplicateIDs lists IDs that occur more than once, in first-seen order.
func DuplicateIDs(txns []model.Transaction) []string {
	counts := make(map[string]int, len(txns))
	var dups []string
	for _, t := range txns {
		counts[t.ID]++
		if counts[t.ID] == 2 {
			dups = append(dups, t.ID)
		}
	}
	return dups
}

// Programs maps every row.
func Programs(recs []normalize.Record) []model.Program {
	programs := make([]model.Program, 0, len(recs))
	for _, rec := range recs {
		programs = append(programs, Program(rec))
	}
	return programs
}

// Locations maps every row.
func Locations(recs []normalize.Record) []model.MapLocation {
	locs := make([]model.MapLocation, 0, len(recs))
	for _, rec := range recs {
		locs = append(locs, Location(rec))
	}
	return locs
}
