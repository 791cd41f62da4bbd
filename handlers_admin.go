package main

import (
	"fmt"
	"net/http"
	"time"

	"ib01/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func adminListTransfersHandler(c *gin.Context) {
	q := db.Model(&models.BankTransfer{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var transfers []models.BankTransfer
	if err := q.Order("created_at desc").Limit(500).Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// adminUpdateTransferHandler confirms or rejects a declared wire transfer.
// Confirmation credits the wallet and writes the matching deposit transaction
// exactly once; re-confirming an already processed transfer is rejected.
func adminUpdateTransferHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.TransferReceived && req.Status != models.TransferRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be received or rejected"})
		return
	}
	var transfer models.BankTransfer
	if err := db.First(&transfer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
		return
	}
	if transfer.Processed {
		c.JSON(http.StatusConflict, gin.H{"error": "transfer already processed"})
		return
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		transfer.Status = req.Status
		transfer.Processed = true
		transfer.ProcessedAt = &now
		transfer.Notes = req.Notes
		if req.Status == models.TransferReceived {
			transfer.ConfirmedAt = &now
		}
		if err := tx.Save(&transfer).Error; err != nil {
			return err
		}
		if req.Status != models.TransferReceived {
			notif := models.Notification{
				UserID:     transfer.UserID,
				Type:       "deposit",
				Title:      "Virement rejeté",
				Message:    fmt.Sprintf("Votre virement de %d€ (réf: %s) n'a pas pu être validé.", transfer.Amount, transfer.Reference),
				Category:   "warning",
				Amount:     transfer.Amount,
				MetaStatus: models.StatusRejected,
			}
			return tx.Create(&notif).Error
		}

		// One deposit transaction per reference, even if confirmation runs
		// twice against stale reads.
		var existing int64
		if err := tx.Model(&models.WalletTransaction{}).
			Where("user_id = ? AND type = ? AND description LIKE ?",
				transfer.UserID, models.TxDeposit, "%"+transfer.Reference+"%").
			Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
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
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process transfer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": transfer.ID, "status": transfer.Status})
}

func adminListWithdrawalsHandler(c *gin.Context) {
	q := db.Model(&models.WithdrawalRequest{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var wds []models.WithdrawalRequest
	if err := q.Order("created_at desc").Limit(500).Find(&wds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, wds)
}

// withdrawalTransitions lists the allowed status moves for a request.
var withdrawalTransitions = map[string][]string{
	models.WithdrawalPending:   {models.WithdrawalApproved, models.WithdrawalScheduled, models.WithdrawalRejected},
	models.WithdrawalApproved:  {models.WithdrawalScheduled, models.WithdrawalCompleted, models.WithdrawalRejected},
	models.WithdrawalScheduled: {models.WithdrawalCompleted, models.WithdrawalRejected},
}

func transitionAllowed(from, to string) bool {
	for _, t := range withdrawalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// adminUpdateWithdrawalHandler moves a withdrawal request through its
// lifecycle. Completing it debits the wallet and closes the pending ledger
// row; the notification titles here are the ones the history merge pass
// recognizes as terminal markers.
func adminUpdateWithdrawalHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var wr models.WithdrawalRequest
	if err := db.First(&wr, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
		return
	}
	if !transitionAllowed(wr.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot move from %s to %s", wr.Status, req.Status)})
		return
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		wr.Status = req.Status
		if req.Status == models.WithdrawalCompleted || req.Status == models.WithdrawalRejected {
			wr.ProcessedAt = &now
		}
		if err := tx.Save(&wr).Error; err != nil {
			return err
		}

		txStatus := ""
		title := ""
		message := ""
		switch req.Status {
		case models.WithdrawalApproved:
			title = "Retrait approuvé"
			message = fmt.Sprintf("Votre retrait de %d€ a été approuvé.", wr.Amount)
		case models.WithdrawalScheduled:
			txStatus = models.StatusScheduled
			title = "Retrait programmé"
			message = fmt.Sprintf("Votre retrait de %d€ a été programmé.", wr.Amount)
		case models.WithdrawalCompleted:
			txStatus = models.StatusCompleted
			title = "Retrait validé"
			message = fmt.Sprintf("Votre retrait de %d€ a été viré sur votre compte bancaire.", wr.Amount)
		case models.WithdrawalRejected:
			txStatus = models.StatusRejected
			title = "Retrait refusé"
			message = fmt.Sprintf("Votre demande de retrait de %d€ a été refusée.", wr.Amount)
		}

		if txStatus != "" {
			if err := tx.Model(&models.WalletTransaction{}).
				Where("user_id = ? AND type = ? AND description LIKE ?",
					wr.UserID, models.TxWithdrawal, "%#"+wr.PublicID+"%").
				Update("status", txStatus).Error; err != nil {
				return err
			}
		}
		if req.Status == models.WithdrawalCompleted {
			if err := tx.Model(&models.Profile{}).Where("user_id = ?", wr.UserID).
				Update("wallet_balance", gorm.Expr("wallet_balance - ?", wr.Amount)).Error; err != nil {
				return err
			}
		}
		notif := models.Notification{
			UserID:        wr.UserID,
			Type:          "withdrawal",
			Title:         title,
			Message:       message,
			Amount:        wr.Amount,
			WithdrawalRef: wr.PublicID,
			MetaStatus:    req.Status,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process withdrawal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": wr.PublicID, "status": wr.Status})
}

func adminListPaymentsHandler(c *gin.Context) {
	var payments []models.ScheduledPayment
	if err := db.Preload("Project").Order("payment_date asc").Limit(500).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// yieldFor computes the rounded payout for one investment at a given
// percentage. Whole-euro arithmetic with half-up rounding.
func yieldFor(amount, percentage int64) int64 {
	return (amount*percentage + 50) / 100
}

// adminPayScheduledHandler fans a scheduled yield payment out to every active
// investor of the project: a yield transaction plus wallet credit each, and a
// 10% commission to the investor's referrer when one exists.
func adminPayScheduledHandler(c *gin.Context) {
	var payment models.ScheduledPayment
	if err := db.Preload("Project").First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if payment.Status == "paid" {
		c.JSON(http.StatusConflict, gin.H{"error": "payment already paid"})
		return
	}
	var investments []models.Investment
	if err := db.Where("project_id = ? AND status = ?", payment.ProjectID, "active").Find(&investments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	paid := 0
	var totalYield, totalCommission int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, inv := range investments {
			amount := yieldFor(inv.Amount, payment.Percentage)
			if amount <= 0 {
				continue
			}
			invID := inv.ID
			projID := payment.ProjectID
			yieldTx := models.WalletTransaction{
				UserID:       inv.UserID,
				Amount:       amount,
				Type:         models.TxYield,
				Status:       models.StatusCompleted,
				Description:  fmt.Sprintf("Rendement mensuel - %s", payment.Project.Name),
				InvestmentID: &invID,
				ProjectID:    &projID,
			}
			if err := tx.Create(&yieldTx).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Profile{}).Where("user_id = ?", inv.UserID).
				Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error; err != nil {
				return err
			}
			notif := models.Notification{
				UserID:     inv.UserID,
				Type:       "deposit",
				Title:      "Rendement versé",
				Message:    fmt.Sprintf("Vous avez reçu %d€ de rendement pour %s.", amount, payment.Project.Name),
				Category:   "success",
				Amount:     amount,
				MetaStatus: models.StatusCompleted,
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
			paid++
			totalYield += amount

			// Referral commission: 10% of the yield to whoever invited
			// this investor.
			var ref models.Referral
			if err := tx.Where("referred_id = ?", inv.UserID).First(&ref).Error; err != nil {
				continue
			}
			commission := yieldFor(amount, 10)
			if commission <= 0 {
				continue
			}
			commissionTx := models.WalletTransaction{
				UserID:      ref.ReferrerID,
				Amount:      commission,
				Type:        models.TxCommission,
				Status:      models.StatusCompleted,
				Description: fmt.Sprintf("Commission de parrainage - %s", payment.Project.Name),
			}
			if err := tx.Create(&commissionTx).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Profile{}).Where("user_id = ?", ref.ReferrerID).
				Update("wallet_balance", gorm.Expr("wallet_balance + ?", commission)).Error; err != nil {
				return err
			}
			commissionNotif := models.Notification{
				UserID:     ref.ReferrerID,
				Type:       "commission_received",
				Title:      "Commission reçue",
				Message:    fmt.Sprintf("Vous avez reçu %d€ de commission de parrainage.", commission),
				Category:   "success",
				Amount:     commission,
				MetaStatus: models.StatusCompleted,
			}
			if err := tx.Create(&commissionNotif).Error; err != nil {
				return err
			}
			totalCommission += commission
		}
		return tx.Model(&models.ScheduledPayment{}).Where("id = ?", payment.ID).
			Update("status", "paid").Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pay scheduled payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_id":       payment.ID,
		"investors_paid":   paid,
		"total_yield":      totalYield,
		"total_commission": totalCommission,
	})
}

func adminListUsersHandler(c *gin.Context) {
	var users []models.User
	if err := db.Order("id asc").Limit(1000).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	type userRow struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Balance  int64  `json:"balance"`
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		var p models.Profile
		balance := int64(0)
		if err := db.Where("user_id = ?", u.ID).First(&p).Error; err == nil {
			balance = p.WalletBalance
		}
		rows = append(rows, userRow{ID: u.ID, Username: u.Username, Balance: balance})
	}
	c.JSON(http.StatusOK, rows)
}
