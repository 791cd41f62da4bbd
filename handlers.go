package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"ib01/models"
	"ib01/pkg/receipt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/profile", getProfileHandler)
	authGroup.POST("/profile", updateProfileHandler)

	authGroup.GET("/wallet/balance", walletBalanceHandler)
	authGroup.POST("/wallet/recalculate", recalculateBalanceHandler)
	authGroup.GET("/wallet/history", walletHistoryHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.POST("/transfers", declareTransferHandler)
	authGroup.GET("/transfers", listTransfersHandler)
	authGroup.POST("/withdrawals", createWithdrawalHandler)
	authGroup.GET("/withdrawals", listWithdrawalsHandler)
	authGroup.GET("/projects", listProjectsHandler)
	authGroup.POST("/investments", createInvestmentHandler)
	authGroup.GET("/investments", listInvestmentsHandler)
	authGroup.GET("/notifications", listNotificationsHandler)
	authGroup.POST("/notifications/:id/seen", markNotificationSeenHandler)
	authGroup.GET("/referrals", listReferralsHandler)
	authGroup.POST("/uploads", uploadReceiptHandler)
	authGroup.GET("/uploads", listUploadsHandler)

	adminGroup := authGroup.Group("/admin")
	adminGroup.Use(adminOnlyMiddleware())
	adminGroup.GET("/transfers", adminListTransfersHandler)
	adminGroup.POST("/transfers/:id/status", adminUpdateTransferHandler)
	adminGroup.GET("/withdrawals", adminListWithdrawalsHandler)
	adminGroup.POST("/withdrawals/:id/status", adminUpdateWithdrawalHandler)
	adminGroup.GET("/payments", adminListPaymentsHandler)
	adminGroup.POST("/payments/:id/pay", adminPayScheduledHandler)
	adminGroup.GET("/users", adminListUsersHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func adminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "administrator" {
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	var user models.User
	if err := db.Where("username = ?", unameVal.(string)).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// getProfileForUser loads the one-to-one profile row.
func getProfileForUser(userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username     string `json:"username" binding:"required"`
		Password     string `json:"password" binding:"required"`
		FirstName    string `json:"first_name"`
		Email        string `json:"email"`
		ReferralCode string `json:"referral_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password, req.FirstName, req.Email, req.ReferralCode); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func getProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	p, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func updateProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if req.FirstName != "" {
		p.FirstName = req.FirstName
	}
	if req.LastName != "" {
		p.LastName = req.LastName
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}
	if req.Address != "" {
		p.Address = req.Address
	}
	if err := db.Save(p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

func listNotificationsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Notification{}).Where("user_id = ?", user.ID)
	if types := c.QueryArray("type"); len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	var items []models.Notification
	if err := q.Order("created_at desc").Limit(50).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func markNotificationSeenHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Update("seen", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked seen"})
}

func listReferralsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var refs []models.Referral
	if err := db.Where("referrer_id = ?", user.ID).Find(&refs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	// Total commission earned from referred users' yields.
	var total int64
	db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ? AND status = ?", user.ID, models.TxCommission, models.StatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&total)
	c.JSON(http.StatusOK, gin.H{"referrals": refs, "commission_total": total})
}

// uploadReceiptHandler handles multipart receipt upload for the current user's
// profile. OCR extracts the amount and DEP reference and links the upload to
// the matching declared bank transfer when one is found.
func uploadReceiptHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	profile, err := getProfileForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile missing"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	ct := file.Header.Get("Content-Type")
	baseDir := uploadBaseDir()
	relPath := "receipts/" + file.Filename
	fullPath := baseDir + "/" + relPath
	if err := os.MkdirAll(baseDir+"/receipts", 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// If a record for this profile+filename already exists, reuse it instead
	// of creating a duplicate row.
	var up models.ReceiptUpload
	if err := db.Where("profile_id = ? AND file_name = ?", profile.ID, file.Filename).First(&up).Error; err != nil {
		up = models.ReceiptUpload{ProfileID: profile.ID, FileName: file.Filename, StorePath: relPath, ContentType: ct}
		if err := db.Create(&up).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
	}

	res, err := receipt.ExtractFromImage(fullPath)
	if err != nil {
		up.Failed = true
		up.FailedReason = err.Error()
		db.Save(&up)
		c.JSON(http.StatusOK, gin.H{"id": up.ID, "path": relPath, "matched": false, "reason": "ocr failed"})
		return
	}
	matched := linkReceiptToTransfer(user.ID, &up, res)
	db.Save(&up)
	c.JSON(http.StatusOK, gin.H{
		"id": up.ID, "path": relPath, "matched": matched,
		"amount": res.Amount, "reference": res.Reference, "confidence": res.Confidence,
	})
}

// linkReceiptToTransfer matches an OCR result against the user's declared
// transfers: by reference first, then by amount among pending transfers. On a
// match the upload is linked and any completed deposit transaction carrying
// the reference is flagged receipt_confirmed.
func linkReceiptToTransfer(userID uint, up *models.ReceiptUpload, res receipt.Result) bool {
	var transfer models.BankTransfer
	found := false
	if res.Reference != "" {
		if err := db.Where("user_id = ? AND reference = ?", userID, res.Reference).First(&transfer).Error; err == nil {
			found = true
		}
	}
	if !found && res.Amount > 0 && res.Confidence >= 0.15 {
		if err := db.Where("user_id = ? AND amount = ? AND status = ?", userID, res.Amount, models.TransferPending).
			Order("id desc").First(&transfer).Error; err == nil {
			found = true
		}
	}
	if !found {
		log.Printf("receipt upload %d: no transfer matched (ref=%q amount=%d)", up.ID, res.Reference, res.Amount)
		return false
	}
	up.TransferID = &transfer.ID
	if transfer.Reference != "" {
		db.Model(&models.WalletTransaction{}).
			Where("user_id = ? AND type = ? AND description LIKE ?", userID, models.TxDeposit, "%"+transfer.Reference+"%").
			Update("receipt_confirmed", true)
	}
	return true
}

func listUploadsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.ReceiptUpload{})
	if role != "administrator" {
		profile, err := getProfileForUser(user.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile missing"})
			return
		}
		q = q.Where("profile_id = ?", profile.ID)
	}
	var uploads []models.ReceiptUpload
	if err := q.Order("id desc").Limit(100).Find(&uploads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, uploads)
}
