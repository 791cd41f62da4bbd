// Package recon implements the wallet reconciliation passes: recomputing a
// user's balance from authoritative records and merging the heterogeneous
// event streams (transactions, bank transfers, withdrawals, investments,
// notifications) into one deduplicated history.
//
// Every function here is pure and synchronous over already-fetched snapshots.
// Fetching, persisting and retrying belong to the caller.
package recon

import "time"

// Source tells which stream a normalized entry came from. Deduplication
// prefers transaction-sourced entries over notification-sourced ones.
type Source string

const (
	SourceTransaction  Source = "transaction"
	SourceNotification Source = "notification"
)

// Transaction is a wallet ledger row snapshot.
type Transaction struct {
	ID          string
	Amount      int64
	Type        string // deposit | withdrawal | yield | commission | investment
	Status      string // pending | completed | rejected | scheduled
	Description string
	CreatedAt   time.Time
}

// BankTransfer is a declared wire transfer snapshot.
type BankTransfer struct {
	ID          string
	Amount      int64
	Status      string // pending | received | reçu | rejected
	Reference   string // DEP-<digits>
	ProcessedAt *time.Time
	ConfirmedAt *time.Time
}

// Withdrawal is a withdrawal request snapshot.
type Withdrawal struct {
	ID          string // public uuid, referenced as #<uuid> in descriptions
	Amount      int64
	Status      string
	RequestedAt time.Time
	ProcessedAt *time.Time
}

// Investment is an investment snapshot.
type Investment struct {
	ID          string
	Amount      int64
	ProjectName string
	Date        time.Time
}

// Notification is an advisory record snapshot. Amount, WithdrawalRef and
// Status come from the notification metadata; zero values mean absent.
type Notification struct {
	ID            string
	Type          string // deposit | withdrawal | investment | commission_received
	Title         string
	Message       string
	CreatedAt     time.Time
	Amount        int64
	WithdrawalRef string
	Status        string
}

// Sources bundles one user's fetched lists for a merge pass. Any list may be
// nil; a caller that failed to fetch a source passes it nil and surfaces a
// partial-data warning itself.
type Sources struct {
	Transactions  []Transaction
	BankTransfers []BankTransfer
	Withdrawals   []Withdrawal
	Investments   []Investment
	Notifications []Notification
}

// Entry is the common shape every source event is normalized into.
type Entry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	Source      Source    `json:"source"`
	Title       string    `json:"title,omitempty"`

	// key is the correlation key; empty means the entry never groups.
	key string
	// seq preserves insertion order for the date tie-break.
	seq int
}

// Key exposes the correlation key, mostly for diagnostics.
func (e Entry) Key() string { return e.key }
