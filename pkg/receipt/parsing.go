package receipt

import (
	"regexp"
	"strings"

	"ib01/pkg/recon"
)

// Wire receipts from French banks come in a handful of shapes: "1 234,56 €",
// "1.234,00 EUR", "€ 500", "Montant : 250€". Amounts are truncated to whole
// euros via recon.ParseAmount.
var (
	amountRE = regexp.MustCompile(`(?i)(?:€|eur)\s*([0-9]{1,3}(?:[ .][0-9]{3})*(?:,[0-9]{2})?)|([0-9]{1,3}(?:[ .][0-9]{3})*(?:,[0-9]{2})?)\s*(?:€|eur)`)
	// OCR often mangles the hyphen in DEP-123; accept a few lookalikes.
	referenceRE = regexp.MustCompile(`(?i)DEP[-–—_ ]?([0-9]{1,12})`)
)

// FindReference extracts the DEP wire reference from OCR text, normalized to
// canonical DEP-<digits> form, or "" when absent.
func FindReference(text string) string {
	m := referenceRE.FindStringSubmatch(text)
	if len(m) != 2 {
		return ""
	}
	return "DEP-" + m[1]
}

// FindAmounts returns every currency-marked amount substring in OCR text,
// deduplicated, raw form preserved for scoring.
func FindAmounts(text string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, m := range amountRE.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

// BestAmount selects the most plausible transfer amount among matches.
// Preference order: amounts near a "montant"/"total"/"virement" context word,
// then amounts with an explicit decimal part, then the largest value.
func BestAmount(text string, matches []string) (int64, string, bool) {
	type cand struct {
		amt   int64
		raw   string
		score int
	}
	low := strings.ToLower(text)
	scoreFor := func(raw string, amt int64) int {
		s := 0
		if idx := strings.Index(low, strings.ToLower(raw)); idx >= 0 {
			ctxStart := idx - 40
			if ctxStart < 0 {
				ctxStart = 0
			}
			ctx := low[ctxStart:idx]
			for _, kw := range []string{"montant", "total", "virement", "somme"} {
				if strings.Contains(ctx, kw) {
					s += 8
					break
				}
			}
		}
		if strings.HasSuffix(raw, ",00") {
			s += 4
		}
		if strings.Contains(raw, ",") {
			s += 2
		}
		if amt >= 10 {
			s += 1
		}
		return s
	}
	var cands []cand
	for _, m := range matches {
		amt, err := recon.ParseAmount(m)
		if err != nil || amt <= 0 {
			continue
		}
		cands = append(cands, cand{amt: amt, raw: m, score: scoreFor(m, amt)})
	}
	if len(cands) == 0 {
		return 0, "", false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score || (c.score == best.score && c.amt > best.amt) {
			best = c
		}
	}
	return best.amt, best.raw, true
}

// normalizeText collapses whitespace and replaces newlines/tabs.
func normalizeText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}
