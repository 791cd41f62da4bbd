package recon

import (
	"testing"
	"time"
)

func TestRecalculateBalanceEmpty(t *testing.T) {
	rep := RecalculateBalance(nil, nil)
	if rep.Balance != 0 || rep.Divergence != 0 {
		t.Fatalf("empty input should yield zero report, got %+v", rep)
	}
}

func TestRecalculateBalanceConservation(t *testing.T) {
	now := time.Now()
	txs := []Transaction{
		{ID: "t1", Amount: 1000, Type: "deposit", Status: "completed", Description: "Virement bancaire reçu (réf: DEP-1)", CreatedAt: now},
		{ID: "t2", Amount: 50, Type: "yield", Status: "completed", CreatedAt: now},
		{ID: "t3", Amount: 5, Type: "commission", Status: "completed", CreatedAt: now},
		{ID: "t4", Amount: 200, Type: "withdrawal", Status: "completed", CreatedAt: now},
		{ID: "t5", Amount: 300, Type: "investment", Status: "completed", CreatedAt: now},
		{ID: "t6", Amount: 999, Type: "deposit", Status: "pending", CreatedAt: now},
		{ID: "t7", Amount: 999, Type: "withdrawal", Status: "rejected", CreatedAt: now},
	}
	rep := RecalculateBalance(txs, nil)
	if rep.Credits != 1055 {
		t.Fatalf("credits = %d, want 1055", rep.Credits)
	}
	if rep.Debits != 500 {
		t.Fatalf("debits = %d, want 500", rep.Debits)
	}
	if rep.Balance != 555 {
		t.Fatalf("balance = %d, want 555", rep.Balance)
	}
}

// Three transfers (100 and 200 received, 50 pending) with no transactions at
// all: only received transfers count and the balance is 300.
func TestRecalculateBalanceTransfersOnly(t *testing.T) {
	transfers := []BankTransfer{
		{ID: "b1", Amount: 100, Status: "received", Reference: "DEP-100"},
		{ID: "b2", Amount: 200, Status: "reçu", Reference: "DEP-200"},
		{ID: "b3", Amount: 50, Status: "pending", Reference: "DEP-300"},
	}
	rep := RecalculateBalance(nil, transfers)
	if rep.Balance != 300 {
		t.Fatalf("balance = %d, want 300", rep.Balance)
	}
	if rep.TransferSubtotal != 300 {
		t.Fatalf("transfer subtotal = %d, want 300", rep.TransferSubtotal)
	}
	if rep.Divergence != 300 {
		t.Fatalf("divergence = %d, want 300", rep.Divergence)
	}
}

// A received transfer whose reference is already claimed by a completed
// deposit transaction must not be counted twice.
func TestRecalculateBalanceNoDoubleCount(t *testing.T) {
	now := time.Now()
	txs := []Transaction{
		{ID: "t1", Amount: 100, Type: "deposit", Status: "completed", Description: "Virement bancaire reçu (réf: DEP-42)", CreatedAt: now},
	}
	transfers := []BankTransfer{
		{ID: "b1", Amount: 100, Status: "received", Reference: "DEP-42"},
		{ID: "b2", Amount: 70, Status: "received", Reference: "DEP-43"},
	}
	rep := RecalculateBalance(txs, transfers)
	if rep.Balance != 170 {
		t.Fatalf("balance = %d, want 170 (100 claimed + 70 uncovered)", rep.Balance)
	}
	if rep.UncoveredTransfers != 70 {
		t.Fatalf("uncovered = %d, want 70", rep.UncoveredTransfers)
	}
	if rep.Divergence != 70 {
		t.Fatalf("divergence = %d, want 70", rep.Divergence)
	}
}
