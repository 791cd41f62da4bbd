package main

import (
	"fmt"
	"strings"

	"ib01/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser creates a user plus profile; referralCode optionally links the
// new user to a referrer for commission tracking.
func RegisterUser(username, password, firstName, email, referralCode string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return fmt.Errorf("user already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// ensure role exists (idempotent)
	var role models.Role
	if err := db.Where("name = ?", "user").First(&role).Error; err != nil {
		role = models.Role{Name: "user", Description: "regular user"}
		if err2 := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err2 != nil {
			return fmt.Errorf("failed to ensure user role: %v", err2)
		}
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hashedPassword, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return fmt.Errorf("user already exists")
		}
		return err
	}
	if firstName == "" {
		firstName = username
	}
	profile := models.Profile{UserID: user.ID, FirstName: firstName, Email: email, ReferralCode: newReferralCode()}
	if err := db.Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %v", err)
	}
	// Link to referrer when a valid code was supplied. An unknown code is
	// ignored rather than failing the registration.
	if referralCode != "" {
		var refProfile models.Profile
		if err := db.Where("referral_code = ?", referralCode).First(&refProfile).Error; err == nil && refProfile.UserID != user.ID {
			ref := models.Referral{ReferrerID: refProfile.UserID, ReferredID: user.ID, Code: referralCode}
			if err := db.Create(&ref).Error; err != nil && !isUniqueConstraintError(err) {
				return fmt.Errorf("failed to record referral: %v", err)
			}
		}
	}
	return nil
}

func Authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// newReferralCode derives a short shareable code from a uuid.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
