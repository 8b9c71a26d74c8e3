package model

// TransactionType separates money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// TransactionStatus represents the lifecycle state of a ledger entry.
// The only legal transition is PENDING -> APPROVED.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
)

// DefaultDonorName is used when a row carries no donor or description.
const DefaultDonorName = "Hamba Allah"

// DefaultCategory is the general-purpose category label.
const DefaultCategory = "Umum"

// Transaction is a single income or expense line of the public ledger.
type Transaction struct {
	ID       string            `json:"id" yaml:"id"`
	Date     string            `json:"date" yaml:"date"` // YYYY-MM-DD
	Name     string            `json:"name" yaml:"name"`
	Amount   int64             `json:"amount" yaml:"amount"` // whole IDR
	Type     TransactionType   `json:"type" yaml:"type"`
	Category string            `json:"category" yaml:"category"`
	Status   TransactionStatus `json:"status" yaml:"status"`
	ProofURL string            `json:"proofUrl,omitempty" yaml:"proof_url,omitempty"`
}

// IsApproved reports whether the transaction counts toward public balances.
func (t Transaction) IsApproved() bool {
	return t.Status == StatusApproved
}
