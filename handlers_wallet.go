package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"ib01/models"
	"ib01/pkg/logx"
	"ib01/pkg/recon"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var walletLog = logx.New()

// fetchSources loads the five event streams for a user and converts them to
// recon snapshots. A failed fetch leaves its list nil and is reported in the
// second return value; a nil transactions list is fatal for history (the
// ledger is the authoritative stream), the others degrade to partial data.
func fetchSources(userID uint) (recon.Sources, []string) {
	var s recon.Sources
	var failed []string

	var txs []models.WalletTransaction
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&txs).Error; err != nil {
		failed = append(failed, "transactions")
	} else {
		s.Transactions = make([]recon.Transaction, 0, len(txs))
		for _, t := range txs {
			s.Transactions = append(s.Transactions, recon.Transaction{
				ID:          strconv.FormatUint(uint64(t.ID), 10),
				Amount:      t.Amount,
				Type:        t.Type,
				Status:      t.Status,
				Description: t.Description,
				CreatedAt:   t.CreatedAt,
			})
		}
	}

	var transfers []models.BankTransfer
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&transfers).Error; err != nil {
		failed = append(failed, "bank_transfers")
	} else {
		s.BankTransfers = make([]recon.BankTransfer, 0, len(transfers))
		for _, bt := range transfers {
			s.BankTransfers = append(s.BankTransfers, recon.BankTransfer{
				ID:          strconv.FormatUint(uint64(bt.ID), 10),
				Amount:      bt.Amount,
				Status:      bt.Status,
				Reference:   bt.Reference,
				ProcessedAt: bt.ProcessedAt,
				ConfirmedAt: bt.ConfirmedAt,
			})
		}
	}

	var wds []models.WithdrawalRequest
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&wds).Error; err != nil {
		failed = append(failed, "withdrawals")
	} else {
		s.Withdrawals = make([]recon.Withdrawal, 0, len(wds))
		for _, w := range wds {
			s.Withdrawals = append(s.Withdrawals, recon.Withdrawal{
				ID:          w.PublicID,
				Amount:      w.Amount,
				Status:      w.Status,
				RequestedAt: w.RequestedAt,
				ProcessedAt: w.ProcessedAt,
			})
		}
	}

	var invs []models.Investment
	if err := db.Preload("Project").Where("user_id = ?", userID).Order("id asc").Find(&invs).Error; err != nil {
		failed = append(failed, "investments")
	} else {
		s.Investments = make([]recon.Investment, 0, len(invs))
		for _, inv := range invs {
			s.Investments = append(s.Investments, recon.Investment{
				ID:          strconv.FormatUint(uint64(inv.ID), 10),
				Amount:      inv.Amount,
				ProjectName: inv.Project.Name,
				Date:        inv.Date,
			})
		}
	}

	var notifs []models.Notification
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&notifs).Error; err != nil {
		failed = append(failed, "notifications")
	} else {
		s.Notifications = make([]recon.Notification, 0, len(notifs))
		for _, n := range notifs {
			s.Notifications = append(s.Notifications, recon.Notification{
				ID:            strconv.FormatUint(uint64(n.ID), 10),
				Type:          n.Type,
				Title:         n.Title,
				Message:       n.Message,
				CreatedAt:     n.CreatedAt,
				Amount:        n.Amount,
				WithdrawalRef: n.WithdrawalRef,
				Status:        n.MetaStatus,
			})
		}
	}

	return s, failed
}

func walletBalanceHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	profile, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	s, failed := fetchSources(user.ID)
	for _, f := range failed {
		if f == "transactions" || f == "bank_transfers" {
			// Cross-check is best effort; the stored balance still answers.
			c.JSON(http.StatusOK, gin.H{"balance": profile.WalletBalance, "verified": false})
			return
		}
	}
	rep := recon.RecalculateBalance(s.Transactions, s.BankTransfers)
	if rep.Divergence != 0 {
		walletLog.Warn().
			Uint("user_id", user.ID).
			Int64("deposit_subtotal", rep.DepositSubtotal).
			Int64("transfer_subtotal", rep.TransferSubtotal).
			Int64("divergence", rep.Divergence).
			Msg("deposit/transfer subtotals diverge")
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":          profile.WalletBalance,
		"verified":         profile.WalletBalance == rep.Balance,
		"expected_balance": rep.Balance,
		"divergence":       rep.Divergence,
	})
}

// recalculateBalanceHandler recomputes the wallet balance from the ledger and
// persists it to the profile. Running it twice in a row is a no-op.
func recalculateBalanceHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	profile, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	s, failed := fetchSources(user.ID)
	for _, f := range failed {
		if f == "transactions" || f == "bank_transfers" {
			c.JSON(http.StatusBadGateway, gin.H{"error": recon.ErrSourceUnavailable.Error(), "source": f})
			return
		}
	}
	rep := recon.RecalculateBalance(s.Transactions, s.BankTransfers)
	if rep.Divergence != 0 {
		walletLog.Warn().
			Uint("user_id", user.ID).
			Int64("divergence", rep.Divergence).
			Msg("deposit/transfer subtotals diverge, stored data left untouched")
	}
	previous := profile.WalletBalance
	if previous != rep.Balance {
		if err := db.Model(&models.Profile{}).Where("id = ?", profile.ID).
			Update("wallet_balance", rep.Balance).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist balance"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":          rep.Balance,
		"previous_balance": previous,
		"changed":          previous != rep.Balance,
		"report":           rep,
	})
}

func walletHistoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	s, failed := fetchSources(user.ID)
	for _, f := range failed {
		if f == "transactions" {
			c.JSON(http.StatusBadGateway, gin.H{"error": recon.ErrSourceUnavailable.Error(), "source": f})
			return
		}
	}
	opts := recon.DefaultOptions()
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	entries := recon.MergeHistory(s, opts)
	resp := gin.H{"history": entries}
	if len(failed) > 0 {
		resp["partial"] = true
		resp["unavailable_sources"] = failed
	}
	c.JSON(http.StatusOK, resp)
}

func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var txs []models.WalletTransaction
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(200).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// newTransferReference produces a DEP-<digits> wire reference. Uniqueness is
// enforced by the db index; declareTransferHandler retries on collision.
func newTransferReference() string {
	return fmt.Sprintf("DEP-%06d", rand.Intn(1000000))
}

func declareTransferHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a positive amount is required"})
		return
	}
	var transfer models.BankTransfer
	for attempt := 0; attempt < 5; attempt++ {
		transfer = models.BankTransfer{
			UserID:    user.ID,
			Amount:    req.Amount,
			Status:    models.TransferPending,
			Reference: newTransferReference(),
		}
		err := db.Create(&transfer).Error
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"id": transfer.ID, "reference": transfer.Reference, "status": transfer.Status})
			return
		}
		if !isUniqueConstraintError(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transfer"})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate a unique reference"})
}

func listTransfersHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var transfers []models.BankTransfer
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func createWithdrawalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	profile, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	var req struct {
		Amount      int64  `json:"amount" binding:"required"`
		BankName    string `json:"bank_name"`
		AccountName string `json:"account_name"`
		IBAN        string `json:"iban"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a positive amount is required"})
		return
	}
	if req.Amount > profile.WalletBalance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}
	wr := models.WithdrawalRequest{
		PublicID:    uuid.NewString(),
		UserID:      user.ID,
		Amount:      req.Amount,
		Status:      models.WithdrawalPending,
		BankName:    req.BankName,
		AccountName: req.AccountName,
		IBAN:        req.IBAN,
		RequestedAt: time.Now(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wr).Error; err != nil {
			return err
		}
		pendingTx := models.WalletTransaction{
			UserID:      user.ID,
			Amount:      req.Amount,
			Type:        models.TxWithdrawal,
			Status:      models.StatusPending,
			Description: fmt.Sprintf("Demande de retrait #%s", wr.PublicID),
		}
		if err := tx.Create(&pendingTx).Error; err != nil {
			return err
		}
		notif := models.Notification{
			UserID:        user.ID,
			Type:          "withdrawal",
			Title:         "Demande de retrait reçue",
			Message:       fmt.Sprintf("Votre demande de retrait de %d€ est en cours de traitement.", req.Amount),
			Amount:        req.Amount,
			WithdrawalRef: wr.PublicID,
			MetaStatus:    models.StatusPending,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create withdrawal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": wr.PublicID, "status": wr.Status})
}

func listWithdrawalsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var wds []models.WithdrawalRequest
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&wds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, wds)
}

func listProjectsHandler(c *gin.Context) {
	var projects []models.Project
	if err := db.Where("status = ?", "active").Order("id asc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func createInvestmentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	profile, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	var req struct {
		ProjectID uint  `json:"project_id" binding:"required"`
		Amount    int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id and a positive amount are required"})
		return
	}
	var project models.Project
	if err := db.First(&project, req.ProjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if project.Status != "active" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project is not open for investment"})
		return
	}
	if req.Amount < project.MinInvest {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("minimum investment is %d€", project.MinInvest)})
		return
	}
	if req.Amount > profile.WalletBalance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}
	var inv models.Investment
	err = db.Transaction(func(tx *gorm.DB) error {
		inv = models.Investment{
			UserID:    user.ID,
			ProjectID: project.ID,
			Amount:    req.Amount,
			Status:    "active",
			Date:      time.Now(),
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		walletTx := models.WalletTransaction{
			UserID:       user.ID,
			Amount:       req.Amount,
			Type:         models.TxInvestment,
			Status:       models.StatusCompleted,
			Description:  fmt.Sprintf("Investissement dans %s", project.Name),
			InvestmentID: &inv.ID,
			ProjectID:    &project.ID,
		}
		if err := tx.Create(&walletTx).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("id = ?", profile.ID).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", req.Amount)).Error; err != nil {
			return err
		}
		notif := models.Notification{
			UserID:     user.ID,
			Type:       "investment",
			Title:      "Investissement confirmé",
			Message:    fmt.Sprintf("Votre investissement de %d€ dans %s est actif.", req.Amount, project.Name),
			Amount:     req.Amount,
			MetaStatus: models.StatusCompleted,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create investment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inv.ID, "project": project.Name, "amount": inv.Amount})
}

func listInvestmentsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var invs []models.Investment
	if err := db.Preload("Project").Where("user_id = ?", user.ID).Order("created_at desc").Find(&invs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, invs)
}
