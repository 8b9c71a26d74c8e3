package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ogahribetzz/transparansi/internal/model"
)

// Header is the CSV header for ledger exports.
const Header = "id,date,name,amount,type,category,status,proof_url"

const (
	numFields   = 8
	colID       = 0
	colDate     = 1
	colName     = 2
	colAmount   = 3
	colType     = 4
	colCategory = 5
	colStatus   = 6
	colProof    = 7
)

// ReadTransactions reads a ledger export written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes a ledger export (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date
	row[colName] = t.Name
	row[colAmount] = strconv.FormatInt(t.Amount, 10)
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colStatus] = string(t.Status)
	row[colProof] = t.ProofURL
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := strconv.ParseInt(record[colAmount], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if amount < 0 {
		return model.Transaction{}, fmt.Errorf("negative amount %d", amount)
	}

	txType := model.TransactionType(record[colType])
	if txType != model.TypeIncome && txType != model.TypeExpense {
		return model.Transaction{}, fmt.Errorf("unknown type %q", record[colType])
	}
	status := model.TransactionStatus(record[colStatus])
	if status != model.StatusPending && status != model.StatusApproved {
		return model.Transaction{}, fmt.Errorf("unknown status %q", record[colStatus])
	}

	return model.Transaction{
		ID:       record[colID],
		Date:     record[colDate],
		Name:     record[colName],
		Amount:   amount,
		Type:     txType,
		Category: record[colCategory],
		Status:   status,
		ProofURL: record[colProof],
	}, nil
}
