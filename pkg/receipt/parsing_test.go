package receipt

import "testing"

func TestFindReference(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Virement SEPA réf DEP-42", "DEP-42"},
		{"ref: dep 1234 montant 100€", "DEP-1234"},
		{"DEP–77 (tiret OCR)", "DEP-77"},
		{"aucune référence ici", ""},
	}
	for _, c := range cases {
		if got := FindReference(c.in); got != c.want {
			t.Errorf("FindReference(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFindAmountsAndBest(t *testing.T) {
	text := "Virement SEPA Montant : 1 250,00 € frais 2,50 € réf DEP-9"
	matches := FindAmounts(text)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	amt, raw, ok := BestAmount(text, matches)
	if !ok || amt != 1250 {
		t.Fatalf("BestAmount = %d (%q, ok=%v), want 1250", amt, raw, ok)
	}
}

func TestBestAmountPrefersDecimalForm(t *testing.T) {
	text := "total 500,00 € autre 900 €"
	amt, _, ok := BestAmount(text, FindAmounts(text))
	if !ok || amt != 500 {
		t.Fatalf("got %d, want 500 (decimal+total context wins over larger plain)", amt)
	}
}

func TestBestAmountNoCandidates(t *testing.T) {
	if _, _, ok := BestAmount("rien à voir", nil); ok {
		t.Fatal("expected no candidate")
	}
}
