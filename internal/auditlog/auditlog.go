package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Outcome records whether an admin action reached the spreadsheet.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// Entry is one row in the admin log.
type Entry struct {
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        string    `json:"action"`
	Outcome       Outcome   `json:"outcome"`
	TransactionID string    `json:"transactionId,omitempty"`
	Details       string    `json:"details"`
}

// Header is the CSV header for admin-log.csv.
const Header = "timestamp,actor,action,outcome,transaction_id,details"

// FileName is the log file created inside the log directory.
const FileName = "admin-log.csv"

const (
	numFields  = 6
	colTime    = 0
	colActor   = 1
	colAction  = 2
	colOutcome = 3
	colTxID    = 4
	colDetails = 5
)

// Log appends entries to <dir>/admin-log.csv. It is safe for concurrent use.
type Log struct {
	dir string
	mu  sync.Mutex
}

// New returns a Log writing under dir.
func New(dir string) *Log {
	return &Log{dir: dir}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return filepath.Join(l.dir, FileName)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colAction] = e.Action
	row[colOutcome] = string(e.Outcome)
	row[colTxID] = e.TransactionID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	return Entry{
		Timestamp:     ts,
		Actor:         record[colActor],
		Action:        record[colAction],
		Outcome:       Outcome(record[colOutcome]),
		TransactionID: record[colTxID],
		Details:       record[colDetails],
	}, nil
}

// Append writes entries, creating the directory and header if needed.
func (l *Log) Append(entries ...Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := l.Path()
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening admin log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries. A missing file yields no entries.
func (l *Log) Read() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening admin log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading admin log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
