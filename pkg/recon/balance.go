package recon

// BalanceReport is the result of a balance recalculation pass. Divergence is
// a consistency signal against the bank-transfer stream; it is reported for
// the caller to log, never silently resolved here.
type BalanceReport struct {
	Balance int64 `json:"balance"`
	Credits int64 `json:"credits"`
	Debits  int64 `json:"debits"`
	// DepositSubtotal sums completed deposit transactions only.
	DepositSubtotal int64 `json:"deposit_subtotal"`
	// TransferSubtotal independently sums received bank transfers.
	TransferSubtotal int64 `json:"transfer_subtotal"`
	// UncoveredTransfers sums received transfers with no completed deposit
	// transaction claiming their reference; they are credited once here so
	// a confirmation that crashed between the wallet update and the
	// transaction insert still counts.
	UncoveredTransfers int64 `json:"uncovered_transfers"`
	// Divergence is TransferSubtotal - DepositSubtotal.
	Divergence int64 `json:"divergence"`
}

var creditTypes = map[string]bool{
	"deposit":    true,
	"yield":      true,
	"commission": true,
}

var debitTypes = map[string]bool{
	"withdrawal": true,
	"investment": true,
}

// RecalculateBalance recomputes the expected wallet balance from completed
// transactions plus received transfers not yet mirrored as transactions.
// Non-completed rows never count. The stored profile balance is owned by the
// database; callers compare and persist, this routine only computes.
func RecalculateBalance(txs []Transaction, transfers []BankTransfer) BalanceReport {
	var rep BalanceReport

	claimed := make(map[string]bool)
	for _, t := range txs {
		if CanonicalStatus(t.Status) != "completed" {
			continue
		}
		switch {
		case creditTypes[t.Type]:
			rep.Credits += t.Amount
			if t.Type == "deposit" {
				rep.DepositSubtotal += t.Amount
				if ref := depositKey(t.Description); ref != "" {
					claimed[ref] = true
				}
			}
		case debitTypes[t.Type]:
			rep.Debits += t.Amount
		}
	}

	for _, bt := range transfers {
		if !IsReceived(bt.Status) {
			continue
		}
		rep.TransferSubtotal += bt.Amount
		if bt.Reference == "" || !claimed[bt.Reference] {
			rep.UncoveredTransfers += bt.Amount
		}
	}

	rep.Divergence = rep.TransferSubtotal - rep.DepositSubtotal
	rep.Balance = rep.Credits + rep.UncoveredTransfers - rep.Debits
	return rep
}
