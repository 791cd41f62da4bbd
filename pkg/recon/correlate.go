package recon

import (
	"fmt"
	"regexp"
	"time"
)

// Correlation keys recognize that two differently-sourced records describe
// the same real-world event. Deposits carry a DEP-<digits> wire reference in
// their description; withdrawals embed their request uuid as #<uuid>. When
// neither token is present the key degrades to (amount, minute) which still
// collapses the common duplicate pair written within the same minute.
var (
	depRefRE        = regexp.MustCompile(`DEP-\d+`)
	withdrawalRefRE = regexp.MustCompile(`#([a-f0-9-]+)`)
)

// depositKey extracts the DEP reference from a description, or "" when the
// description carries none (such entries never group).
func depositKey(description string) string {
	return depRefRE.FindString(description)
}

// withdrawalKey extracts the embedded request id from a description, falling
// back to the synthesized (amount, minute) key. A malformed description is
// not an error; matching just degrades to the coarser key.
func withdrawalKey(description string, amount int64, at time.Time) string {
	if m := withdrawalRefRE.FindStringSubmatch(description); len(m) == 2 {
		return "wd:" + m[1]
	}
	return synthesizedWithdrawalKey(amount, at)
}

func synthesizedWithdrawalKey(amount int64, at time.Time) string {
	return fmt.Sprintf("wd:%d@%d", amount, at.Truncate(time.Minute).Unix())
}

// entryKey computes the grouping key for a normalized entry from its visible
// fields alone, so re-running a merge over its own output derives the same
// keys (idempotence).
func entryKey(e Entry) string {
	if e.Type == "withdrawal" {
		return withdrawalKey(e.Description, e.Amount, e.Date)
	}
	return depositKey(e.Description)
}
