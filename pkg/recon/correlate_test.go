package recon

import (
	"testing"
	"time"
)

func TestDepositKey(t *testing.T) {
	cases := []struct {
		desc string
		want string
	}{
		{"Virement bancaire reçu (réf: DEP-42)", "DEP-42"},
		{"Virement bancaire (DEP-1234)", "DEP-1234"},
		{"Dépôt sans référence", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := depositKey(c.desc); got != c.want {
			t.Errorf("depositKey(%q) = %q, want %q", c.desc, got, c.want)
		}
	}
}

func TestWithdrawalKeyExtractsUUID(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 30, 0, time.UTC)
	got := withdrawalKey("Demande de retrait #3f2a1b4c-9d8e-4f00-aa11-223344556677", 500, at)
	if got != "wd:3f2a1b4c-9d8e-4f00-aa11-223344556677" {
		t.Fatalf("got %q", got)
	}
}

func TestWithdrawalKeyFallsBackToAmountMinute(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 30, 0, time.UTC)
	got := withdrawalKey("Retrait vers votre compte", 500, at)
	want := synthesizedWithdrawalKey(500, at)
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	// Same minute, different second: same key.
	other := withdrawalKey("Retrait", 500, at.Add(20*time.Second))
	if other != got {
		t.Fatalf("keys differ within one minute: %q vs %q", got, other)
	}
	// Different minute: different key.
	if withdrawalKey("Retrait", 500, at.Add(time.Minute)) == got {
		t.Fatal("keys should differ across minutes")
	}
}

func TestCanonicalStatusSynonyms(t *testing.T) {
	cases := map[string]string{
		"received":  "completed",
		"reçu":      "completed",
		"Reçu":      "completed",
		"completed": "completed",
		"sheduled":  "scheduled",
		"scheduled": "scheduled",
		"pending":   "pending",
		"weird":     "weird",
	}
	for in, want := range cases {
		if got := CanonicalStatus(in); got != want {
			t.Errorf("CanonicalStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
