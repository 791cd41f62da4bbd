package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func entryIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// A deposit transaction and a notification sharing the DEP-42 reference must
// collapse to the transaction alone.
func TestMergeDeduplicatesDepositNotification(t *testing.T) {
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 100, Type: "deposit", Status: "completed",
				Description: "Virement bancaire reçu (réf: DEP-42)", CreatedAt: baseTime},
		},
		Notifications: []Notification{
			{ID: "n1", Type: "deposit", Title: "Dépôt reçu",
				Message: "Votre virement DEP-42 a été crédité", Amount: 100,
				CreatedAt: baseTime.Add(time.Minute)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, SourceTransaction, out[0].Source)
}

// A pending withdrawal transaction plus a "Retrait validé" notification for
// the same request must both survive: the notification carries a terminal
// state the transaction does not show yet.
func TestMergeKeepsTerminalStatusNotification(t *testing.T) {
	wid := "3f2a1b4c-9d8e-4f00-aa11-223344556677"
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 500, Type: "withdrawal", Status: "pending",
				Description: "Demande de retrait #" + wid, CreatedAt: baseTime},
		},
		Notifications: []Notification{
			{ID: "n1", Type: "withdrawal", Title: "Retrait validé",
				Message: "Votre retrait de 500€ a été validé", Amount: 500,
				WithdrawalRef: wid, CreatedAt: baseTime.Add(2 * time.Minute)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 2)
	assert.ElementsMatch(t, []string{"t1", "n1"}, entryIDs(out))
}

// Once the transaction itself is completed the "validé" notification is
// redundant and dropped.
func TestMergeDropsRepresentedTerminalNotification(t *testing.T) {
	wid := "3f2a1b4c-9d8e-4f00-aa11-223344556677"
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 500, Type: "withdrawal", Status: "completed",
				Description: "Demande de retrait #" + wid, CreatedAt: baseTime},
		},
		Notifications: []Notification{
			{ID: "n1", Type: "withdrawal", Title: "Retrait validé",
				Message: "Votre retrait de 500€ a été validé",
				WithdrawalRef: wid, CreatedAt: baseTime.Add(2 * time.Minute)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
}

// Notification-only groups keep the single most recent member.
func TestMergeNotificationOnlyGroupKeepsNewest(t *testing.T) {
	wid := "aa11bb22-0000-4f00-aa11-223344556677"
	s := Sources{
		Notifications: []Notification{
			{ID: "n1", Type: "withdrawal", Title: "Mise à jour de retrait",
				Message: "Votre demande est en cours", Amount: 200,
				WithdrawalRef: wid, CreatedAt: baseTime},
			{ID: "n2", Type: "withdrawal", Title: "Mise à jour de retrait",
				Message: "Votre demande est en cours de traitement", Amount: 200,
				WithdrawalRef: wid, CreatedAt: baseTime.Add(time.Hour)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, "n2", out[0].ID)
}

// Withdrawal entries without an embedded id fall back to the (amount, minute)
// key and still collapse.
func TestMergeSynthesizedWithdrawalKey(t *testing.T) {
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 250, Type: "withdrawal", Status: "pending",
				Description: "Retrait vers votre compte bancaire", CreatedAt: baseTime.Add(10 * time.Second)},
		},
		Notifications: []Notification{
			{ID: "n1", Type: "withdrawal", Title: "Mise à jour de retrait",
				Message: "Votre retrait de 250€ est en cours", Amount: 250,
				CreatedAt: baseTime.Add(30 * time.Second)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
}

// Output dates are non-increasing for any input.
func TestMergeOrdering(t *testing.T) {
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 10, Type: "deposit", Status: "completed", CreatedAt: baseTime},
			{ID: "t2", Amount: 20, Type: "yield", Status: "completed", CreatedAt: baseTime.Add(3 * time.Hour)},
		},
		BankTransfers: []BankTransfer{
			{ID: "b1", Amount: 100, Status: "received", Reference: "DEP-7", ProcessedAt: timePtr(baseTime.Add(time.Hour))},
		},
		Investments: []Investment{
			{ID: "i1", Amount: 1000, ProjectName: "Centrale solaire", Date: baseTime.Add(2 * time.Hour)},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Date.After(out[i-1].Date),
			"entry %d (%s) newer than entry %d", i, out[i].ID, i-1)
	}
	assert.Equal(t, "t2", out[0].ID)
}

// The three-transfer scenario: all three transfers show as history rows,
// newest first, regardless of status.
func TestMergeTransfersScenario(t *testing.T) {
	s := Sources{
		BankTransfers: []BankTransfer{
			{ID: "b1", Amount: 100, Status: "received", Reference: "DEP-1", ProcessedAt: timePtr(baseTime)},
			{ID: "b2", Amount: 200, Status: "received", Reference: "DEP-2", ProcessedAt: timePtr(baseTime.Add(time.Hour))},
			{ID: "b3", Amount: 50, Status: "pending", Reference: "DEP-3", ProcessedAt: timePtr(baseTime.Add(2 * time.Hour))},
		},
	}
	out := MergeHistory(s, DefaultOptions())
	require.Len(t, out, 3)
	assert.Equal(t, []string{"b3", "b2", "b1"}, entryIDs(out))
}

// Re-applying the dedupe over its own surviving set changes nothing.
func TestMergeIdempotent(t *testing.T) {
	wid := "3f2a1b4c-9d8e-4f00-aa11-223344556677"
	s := Sources{
		Transactions: []Transaction{
			{ID: "t1", Amount: 100, Type: "deposit", Status: "completed",
				Description: "Virement bancaire reçu (réf: DEP-42)", CreatedAt: baseTime},
			{ID: "t2", Amount: 500, Type: "withdrawal", Status: "pending",
				Description: "Demande de retrait #" + wid, CreatedAt: baseTime.Add(time.Minute)},
		},
		Notifications: []Notification{
			{ID: "n1", Type: "deposit", Title: "Dépôt reçu",
				Message: "Virement DEP-42 crédité", CreatedAt: baseTime.Add(time.Minute)},
			{ID: "n2", Type: "withdrawal", Title: "Retrait validé",
				Message: "Retrait validé", WithdrawalRef: wid,
				CreatedAt: baseTime.Add(2 * time.Minute)},
		},
	}
	once := MergeHistory(s, DefaultOptions())
	twice := dedupe(once, DefaultOptions())
	assert.Equal(t, entryIDs(once), entryIDs(twice))
}

func timePtr(t time.Time) *time.Time { return &t }
