package recon

import (
	"fmt"
	"strings"
	"time"
)

// Normalization flattens every source record into an Entry. Source-list order
// fixes the insertion order used for date tie-breaks: transactions, bank
// transfers, withdrawals, investments, notifications.

func normalizeTransaction(t Transaction) Entry {
	return Entry{
		ID:          t.ID,
		Date:        t.CreatedAt,
		Amount:      t.Amount,
		Description: t.Description,
		Status:      CanonicalStatus(t.Status),
		Type:        t.Type,
		Source:      SourceTransaction,
	}
}

func normalizeBankTransfer(bt BankTransfer) Entry {
	// processed_at, then confirmed_at; rows confirmed out-of-band sometimes
	// have neither, in which case the declaration time is unknown and the
	// zero time sinks the row to the bottom of the history.
	var at time.Time
	if bt.ProcessedAt != nil {
		at = *bt.ProcessedAt
	} else if bt.ConfirmedAt != nil {
		at = *bt.ConfirmedAt
	}
	status := "pending"
	if IsReceived(bt.Status) {
		status = "completed"
	}
	return Entry{
		ID:          bt.ID,
		Date:        at,
		Amount:      bt.Amount,
		Description: fmt.Sprintf("Virement bancaire reçu (réf: %s)", bt.Reference),
		Status:      status,
		Type:        "deposit",
		Source:      SourceTransaction,
	}
}

func normalizeWithdrawal(w Withdrawal) Entry {
	at := w.RequestedAt
	if w.ProcessedAt != nil {
		at = *w.ProcessedAt
	}
	return Entry{
		ID:          w.ID,
		Date:        at,
		Amount:      w.Amount,
		Description: fmt.Sprintf("Demande de retrait #%s", w.ID),
		Status:      CanonicalStatus(w.Status),
		Type:        "withdrawal",
		Source:      SourceTransaction,
	}
}

func normalizeInvestment(inv Investment) Entry {
	return Entry{
		ID:          inv.ID,
		Date:        inv.Date,
		Amount:      inv.Amount,
		Description: fmt.Sprintf("Investissement dans %s", inv.ProjectName),
		Status:      "completed",
		Type:        "investment",
		Source:      SourceTransaction,
	}
}

func normalizeNotification(n Notification) Entry {
	desc := n.Message
	// Surface the withdrawal request id in the description so the
	// correlation key can be re-derived from the entry itself.
	if n.WithdrawalRef != "" && !strings.Contains(desc, "#"+n.WithdrawalRef) {
		desc = strings.TrimSpace(desc + " #" + n.WithdrawalRef)
	}
	typ := n.Type
	if typ == "commission_received" {
		typ = "commission"
	}
	return Entry{
		ID:          n.ID,
		Date:        n.CreatedAt,
		Amount:      n.Amount,
		Description: desc,
		Status:      CanonicalStatus(n.Status),
		Type:        typ,
		Source:      SourceNotification,
		Title:       n.Title,
	}
}

// normalize flattens all sources in the fixed order and assigns correlation
// keys and sequence numbers.
func (s Sources) normalize() []Entry {
	out := make([]Entry, 0,
		len(s.Transactions)+len(s.BankTransfers)+len(s.Withdrawals)+len(s.Investments)+len(s.Notifications))
	for _, t := range s.Transactions {
		out = append(out, normalizeTransaction(t))
	}
	for _, bt := range s.BankTransfers {
		out = append(out, normalizeBankTransfer(bt))
	}
	for _, w := range s.Withdrawals {
		out = append(out, normalizeWithdrawal(w))
	}
	for _, inv := range s.Investments {
		out = append(out, normalizeInvestment(inv))
	}
	for _, n := range s.Notifications {
		out = append(out, normalizeNotification(n))
	}
	for i := range out {
		out[i].key = entryKey(out[i])
		out[i].seq = i
	}
	return out
}
