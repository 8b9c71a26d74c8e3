package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ogahribetzz/transparansi/internal/model"
)

// Substrings that mark a row as an expense. Anything else is income.
var expenseMarkers = []string{"EXPENSE", "PENGELUARAN"}

// approvalMarker marks a row as approved, unless a negation precedes it.
const approvalMarker = "APPROV"

var negatedApproval = []string{"UNAPPROV", "DISAPPROV", "NOT APPROV", "NOT_APPROV", "NOT-APPROV"}

var (
	comingSoonMarkers = []string{"COMING", "SOON", "SEGERA"}
	completedMarkers  = []string{"COMPLET", "SELESAI", "DONE"}
)

// TransactionType maps free text to INCOME or EXPENSE. Unknown text is INCOME.
func TransactionType(v any) model.TransactionType {
	s := strings.ToUpper(Stringify(v))
	if containsAny(s, expenseMarkers) {
		return model.TypeExpense
	}
	return model.TypeIncome
}

// TransactionStatus maps free text to APPROVED or PENDING. Anything that is
// not clearly an approval is PENDING.
func TransactionStatus(v any) model.TransactionStatus {
	s := strings.ToUpper(Stringify(v))
	if !strings.Contains(s, approvalMarker) || containsAny(s, negatedApproval) {
		return model.StatusPending
	}
	return model.StatusApproved
}

// ProgramStatus maps free text to a program status. Unknown text is ACTIVE.
func ProgramStatus(v any) model.ProgramStatus {
	s := strings.ToUpper(Stringify(v))
	switch {
	case containsAny(s, comingSoonMarkers):
		return model.ProgramComingSoon
	case containsAny(s, completedMarkers):
		return model.ProgramCompleted
	default:
		return model.ProgramActive
	}
}

// WIB is Jakarta time. Sheets exports timestamps in UTC; the charity books in WIB.
var WIB = time.FixedZone("WIB", 7*60*60)

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	dayFirstDate  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

// Date normalizes a date-like value to YYYY-MM-DD where it can, and returns
// the trimmed text unchanged otherwise.
func Date(v any) string {
	s := strings.TrimSpace(Stringify(v))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.In(WIB).Format(time.DateOnly)
		}
	}
	if isoDatePrefix.MatchString(s) {
		return s[:10]
	}
	if m := dayFirstDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
