// Package report prints per-user reconciliation reports: the stored wallet
// balance next to the balance recomputed from the ledger, with the
// deposit/transfer divergence when the two streams disagree.
package report

import (
	"fmt"
	"strconv"

	"ib01/models"
	"ib01/pkg/recon"

	"gorm.io/gorm"
)

// Row is one user's reconciliation summary.
type Row struct {
	UserID   uint
	Username string
	Stored   int64
	Expected int64
	// Drift is Stored - Expected; zero means the wallet is consistent.
	Drift      int64
	Divergence int64
}

// ForUser builds the reconciliation row for a single user.
func ForUser(db *gorm.DB, user models.User) (Row, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return Row{}, fmt.Errorf("profile for user %d: %w", user.ID, err)
	}

	var txRows []models.WalletTransaction
	if err := db.Where("user_id = ?", user.ID).Find(&txRows).Error; err != nil {
		return Row{}, recon.ErrSourceUnavailable
	}
	txs := make([]recon.Transaction, 0, len(txRows))
	for _, t := range txRows {
		txs = append(txs, recon.Transaction{
			ID:          strconv.FormatUint(uint64(t.ID), 10),
			Amount:      t.Amount,
			Type:        t.Type,
			Status:      t.Status,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}

	var btRows []models.BankTransfer
	if err := db.Where("user_id = ?", user.ID).Find(&btRows).Error; err != nil {
		return Row{}, recon.ErrSourceUnavailable
	}
	transfers := make([]recon.BankTransfer, 0, len(btRows))
	for _, bt := range btRows {
		transfers = append(transfers, recon.BankTransfer{
			ID:          strconv.FormatUint(uint64(bt.ID), 10),
			Amount:      bt.Amount,
			Status:      bt.Status,
			Reference:   bt.Reference,
			ProcessedAt: bt.ProcessedAt,
			ConfirmedAt: bt.ConfirmedAt,
		})
	}

	rep := recon.RecalculateBalance(txs, transfers)
	return Row{
		UserID:     user.ID,
		Username:   user.Username,
		Stored:     profile.WalletBalance,
		Expected:   rep.Balance,
		Drift:      profile.WalletBalance - rep.Balance,
		Divergence: rep.Divergence,
	}, nil
}

// Run prints the report for one user, or for every user when username is
// empty. With driftOnly, consistent wallets are omitted.
func Run(db *gorm.DB, username string, driftOnly bool) error {
	var users []models.User
	q := db.Order("id asc")
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if err := q.Find(&users).Error; err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users matched")
	}

	fmt.Printf("%-6s %-24s %12s %12s %10s %10s\n", "id", "username", "stored", "expected", "drift", "diverg.")
	for _, u := range users {
		row, err := ForUser(db, u)
		if err != nil {
			fmt.Printf("%-6d %-24s error: %v\n", u.ID, u.Username, err)
			continue
		}
		if driftOnly && row.Drift == 0 && row.Divergence == 0 {
			continue
		}
		fmt.Printf("%-6d %-24s %12d %12d %10d %10d\n",
			row.UserID, row.Username, row.Stored, row.Expected, row.Drift, row.Divergence)
	}
	return nil
}
