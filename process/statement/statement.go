// Package statement imports bank statement CSV exports and settles declared
// transfers against them. One malformed row never aborts an import; bad rows
// are collected and reported alongside the applied lines.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"ib01/models"
	"ib01/pkg/recon"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Line is one usable statement row.
type Line struct {
	Date      time.Time
	Amount    int64
	Reference string // DEP-<digits> when the sender filled the wire label in
	Label     string
}

// expected header: date,amount,reference,label
const columns = 4

// Parse reads a statement CSV. Rows that fail to parse are returned as
// RecordErrors, not as a failure of the whole file.
func Parse(r io.Reader) ([]Line, []recon.RecordError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated per row so one short row is reportable

	var lines []Line
	var bad []recon.RecordError
	lineNo := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read statement csv: %w", err)
		}
		lineNo++
		if lineNo == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue // header
		}
		if len(rec) < columns {
			bad = append(bad, recon.RecordError{Line: lineNo, Field: "row", Reason: fmt.Sprintf("expected %d columns, got %d", columns, len(rec))})
			continue
		}
		date, err := parseDate(rec[0])
		if err != nil {
			bad = append(bad, recon.RecordError{Line: lineNo, Field: "date", Reason: err.Error()})
			continue
		}
		amount, err := recon.ParseAmount(rec[1])
		if err != nil {
			bad = append(bad, recon.RecordError{Line: lineNo, Field: "amount", Reason: err.Error()})
			continue
		}
		lines = append(lines, Line{
			Date:      date,
			Amount:    amount,
			Reference: strings.ToUpper(strings.TrimSpace(rec[2])),
			Label:     strings.TrimSpace(rec[3]),
		})
	}
	return lines, bad, nil
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Result summarizes an Apply pass.
type Result struct {
	Matched   int
	Unmatched int
	Skipped   int
}

// Apply settles statement lines against declared pending transfers: a line
// whose reference matches a pending BankTransfer marks it received, credits
// the wallet and writes the deposit transaction once. Credits without a
// matching declaration are logged for manual review. Re-running an import
// over the same file is a no-op.
func Apply(db *gorm.DB, lines []Line, logger zerolog.Logger) (Result, error) {
	var res Result
	for _, l := range lines {
		if l.Amount <= 0 || l.Reference == "" {
			res.Skipped++
			continue
		}
		var transfer models.BankTransfer
		if err := db.Where("reference = ?", l.Reference).First(&transfer).Error; err != nil {
			logger.Info().Str("reference", l.Reference).Int64("amount", l.Amount).
				Msg("statement credit without a declared transfer")
			res.Unmatched++
			continue
		}
		if transfer.Processed {
			res.Skipped++
			continue
		}
		if transfer.Amount != l.Amount {
			logger.Warn().Str("reference", l.Reference).
				Int64("declared", transfer.Amount).Int64("received", l.Amount).
				Msg("statement amount differs from declared amount, leaving for manual review")
			res.Unmatched++
			continue
		}
		if err := settle(db, &transfer, l.Date); err != nil {
			return res, fmt.Errorf("settle %s: %w", l.Reference, err)
		}
		logger.Info().Str("reference", l.Reference).Int64("amount", l.Amount).
			Uint("user_id", transfer.UserID).Msg("transfer settled from statement")
		res.Matched++
	}
	return res, nil
}

func settle(db *gorm.DB, transfer *models.BankTransfer, receivedAt time.Time) error {
	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		transfer.Status = models.TransferReceived
		transfer.Processed = true
		transfer.ProcessedAt = &now
		transfer.ConfirmedAt = &receivedAt
		if err := tx.Save(transfer).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&models.WalletTransaction{}).
			Where("user_id = ? AND type = ? AND description LIKE ?",
				transfer.UserID, models.TxDeposit, "%"+transfer.Reference+"%").
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		deposit := models.WalletTransaction{
			UserID:      transfer.UserID,
			Amount:      transfer.Amount,
			Type:        models.TxDeposit,
			Status:      models.StatusCompleted,
			Description: fmt.Sprintf("Virement bancaire reçu (réf: %s)", transfer.Reference),
		}
		if err := tx.Create(&deposit).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", transfer.UserID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", transfer.Amount)).Error; err != nil {
			return err
		}
		notif := models.Notification{
			UserID:     transfer.UserID,
			Type:       "deposit",
			Title:      "Dépôt réussi",
			Message:    fmt.Sprintf("Votre virement de %d€ (réf: %s) a été crédité sur votre portefeuille.", transfer.Amount, transfer.Reference),
			Category:   "success",
			Amount:     transfer.Amount,
			MetaStatus: models.StatusCompleted,
		}
		return tx.Create(&notif).Error
	})
}
