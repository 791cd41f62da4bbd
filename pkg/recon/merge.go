package recon

import "sort"

// Options tune a merge pass.
type Options struct {
	// TerminalKeywords are notification-title markers that force the
	// keep-both case (see dedupe). Defaults to DefaultTerminalKeywords.
	TerminalKeywords []string
	// Limit caps the returned history length; 0 means unlimited.
	Limit int
}

// DefaultOptions returns the options used by the API handlers.
func DefaultOptions() Options {
	return Options{TerminalKeywords: DefaultTerminalKeywords}
}

// MergeHistory merges one user's event streams into a single
// chronologically-descending, deduplicated history. The pass is idempotent:
// re-applying it over its own surviving set returns the same set.
func MergeHistory(s Sources, opts Options) []Entry {
	return dedupe(s.normalize(), opts)
}

// dedupe groups normalized entries by correlation key and collapses each
// group to its preferred representation:
//
//   - groups with a transaction-sourced member keep the first such member;
//     notification duplicates are dropped unless their title carries a
//     terminal-status keyword the kept transaction does not represent yet,
//     in which case both survive
//   - notification-only groups keep the single most recent member
//   - entries with no correlation key always survive
func dedupe(entries []Entry, opts Options) []Entry {
	keywords := opts.TerminalKeywords
	if keywords == nil {
		keywords = DefaultTerminalKeywords
	}

	groups := make(map[string][]Entry)
	for _, e := range entries {
		if e.key == "" {
			continue
		}
		groups[e.key] = append(groups[e.key], e)
	}

	keep := func(e Entry) bool {
		group := groups[e.key]
		if e.key == "" || len(group) <= 1 {
			return true
		}
		var firstTx *Entry
		for i := range group {
			if group[i].Source == SourceTransaction {
				firstTx = &group[i]
				break
			}
		}
		if firstTx == nil {
			// Notification-only group: most recent wins, ties by seq.
			best := group[0]
			for _, g := range group[1:] {
				if g.Date.After(best.Date) {
					best = g
				}
			}
			return e.ID == best.ID
		}
		if e.Source == SourceTransaction {
			return e.seq == firstTx.seq
		}
		// Notification duplicating a transaction: survives only when it
		// announces a terminal state the transaction does not show yet.
		if kw := terminalKeyword(e.Title, keywords); kw != "" {
			return !keywordRepresented(kw, firstTx.Status)
		}
		return false
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].seq < out[j].seq
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
