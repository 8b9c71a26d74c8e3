package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogahribetzz/transparansi/internal/model"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria", Criteria{}, []string{"1", "2", "3", "4", "5"}},
		{"expense", Criteria{Type: model.TypeExpense}, []string{"2", "4", "5"}},
		{"income", Criteria{Type: model.TypeIncome}, []string{"1", "3"}},
		{"name query ignores case", Criteria{NameQuery: "BERAS"}, []string{"2", "4"}},
		{"name query trims", Criteria{NameQuery: "  budi "}, []string{"3"}},
		{"from inclusive", Criteria{From: "2024-05-04"}, []string{"3", "4"}},
		{"to inclusive", Criteria{To: "2024-05-02"}, []string{"1", "5"}},
		{"range", Criteria{From: "2024-05-02", To: "2024-05-04"}, []string{"2", "3", "5"}},
		{"category", Criteria{Category: "Logistik"}, []string{"2", "4"}},
		{"all criteria", Criteria{Type: model.TypeExpense, NameQuery: "beras", From: "2024-05-01", To: "2024-05-31", Category: "Logistik"}, []string{"2", "4"}},
		{"nothing matches", Criteria{Category: "Tidak ada"}, []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ids(Filter(sampleLedger(), tt.criteria)), tt.name)
	}
}

func TestFilter_ComposesWithSeparatePredicate(t *testing.T) {
	txns := sampleLedger()

	combined := Filter(txns, Criteria{Type: model.TypeExpense, NameQuery: "beras"})
	chained := Select(Filter(txns, Criteria{Type: model.TypeExpense}), MatchesNameQuery("beras"))
	reversed := Filter(Select(txns, MatchesNameQuery("beras")), Criteria{Type: model.TypeExpense})

	assert.Equal(t, combined, chained)
	assert.Equal(t, combined, reversed)
}

func TestMatchesDateRange_UndatedTransactions(t *testing.T) {
	undated := model.Transaction{Date: "kemarin"}
	assert.True(t, MatchesDateRange("", "")(undated))
	assert.False(t, MatchesDateRange("2024-01-01", "")(undated))
	assert.False(t, MatchesDateRange("", "2024-12-31")(model.Transaction{}))
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, Criteria{}.Validate())
	assert.NoError(t, Criteria{From: "2024-01-01", To: "2024-12-31", Type: model.TypeIncome}.Validate())
	assert.Error(t, Criteria{From: "01/01/2024"}.Validate())
	assert.Error(t, Criteria{To: "2024-13-01"}.Validate())
	assert.Error(t, Criteria{Type: "DONATION"}.Validate())
}
