package recon

import "strings"

// Production data mixes French and English status spellings plus one typo
// ("sheduled"). Everything funnels through this table; do not compare raw
// status strings anywhere else.
var statusSynonyms = map[string]string{
	"pending":   "pending",
	"completed": "completed",
	"complete":  "completed",
	"received":  "completed",
	"reçu":      "completed",
	"recu":      "completed",
	"approved":  "approved",
	"rejected":  "rejected",
	"refused":   "rejected",
	"scheduled": "scheduled",
	"sheduled":  "scheduled",
	"paid":      "completed",
	"active":    "completed",
}

// CanonicalStatus maps any observed status spelling to its canonical form.
// Unknown statuses pass through lowercased rather than erroring; a single odd
// record must not abort a pass.
func CanonicalStatus(s string) string {
	low := strings.ToLower(strings.TrimSpace(s))
	if c, ok := statusSynonyms[low]; ok {
		return c
	}
	return low
}

// IsReceived reports whether a bank transfer status counts as money arrived.
func IsReceived(status string) bool {
	return CanonicalStatus(status) == "completed"
}

// DefaultTerminalKeywords are the notification-title markers that indicate a
// terminal state the transaction stream may not carry yet ("Retrait validé",
// "Virement confirmé", "Retrait programmé").
var DefaultTerminalKeywords = []string{"validé", "confirmé", "programmé"}

// terminalKeyword returns the first keyword found in title, or "".
func terminalKeyword(title string, keywords []string) string {
	low := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(low, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}

// keywordRepresented reports whether a transaction status already expresses
// what the keyword announces: validé/confirmé mean the operation completed,
// programmé means it is scheduled. A pending transaction represents neither,
// which is what forces the keep-both case.
func keywordRepresented(keyword, txStatus string) bool {
	switch keyword {
	case "validé", "confirmé":
		c := CanonicalStatus(txStatus)
		return c == "completed" || c == "approved"
	case "programmé":
		return CanonicalStatus(txStatus) == "scheduled"
	}
	return false
}
