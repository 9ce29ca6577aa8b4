package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/marmushop/booking-api/internal/config"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
	"github.com/marmushop/booking-api/internal/notify"
	"github.com/marmushop/booking-api/internal/otp"
	"github.com/marmushop/booking-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	otp    *otp.Store
	mailer notify.Mailer
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, otpStore *otp.Store, mailer notify.Mailer) *AuthHandler {
	return &AuthHandler{
		db:     db,
		config: cfg,
		otp:    otpStore,
		mailer: mailer,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type SignupVerifyRequest struct {
	FullName        string `json:"fullname" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	OTP             string `json:"otp" binding:"required"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required"`
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ======================================================
// LOGIN
// ======================================================

// Login accepts username or email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Username/Email and password required.")
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Username))

	var account models.Account
	if err := h.db.
		Where("LOWER(username) = ? OR LOWER(email) = ?", identifier, identifier).
		First(&account).Error; err != nil {

		if isRecordNotFound(err) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid username/email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Login failed.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid username/email or password.")
		return
	}

	token, err := h.generateToken(&account)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Login failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  h.accountPayload(&account),
		"token": token,
	})
}

// ======================================================
// SIGNUP (OTP in two steps)
// ======================================================

func (h *AuthHandler) SignupSendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email is required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsValidEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Please enter a valid email address.")
		return
	}

	code, err := h.otp.Issue(c.Request.Context(), otp.PurposeSignup, email)
	if err != nil {
		httperr.Internal(c, "otp_store_error", "Could not issue OTP.")
		return
	}

	// OTP delivery is synchronous on purpose: the caller needs to know
	// the code did not go out.
	if err := h.mailer.Send(email, "Your OTP for Signup", notify.OTPBody(code, 5)); err != nil {
		httperr.Internal(c, "otp_send_failed", "Failed to send OTP.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully!"})
}

func (h *AuthHandler) SignupVerify(c *gin.Context) {
	var req SignupVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	if req.Password != req.ConfirmPassword {
		httperr.BadRequest(c, "password_mismatch", "Passwords do not match.")
		return
	}

	if !validators.IsStrongPassword(req.Password) {
		httperr.BadRequest(c, "weak_password", "Password must be at least 8 characters and include letters and numbers.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	ok, err := h.otp.Verify(c.Request.Context(), otp.PurposeSignup, email, req.OTP)
	if err != nil {
		httperr.Internal(c, "otp_store_error", "Could not verify OTP.")
		return
	}
	if !ok {
		httperr.BadRequest(c, "invalid_otp", "Invalid or expired OTP.")
		return
	}

	var count int64
	h.db.Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "account_exists", "Username or email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Signup failed.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		account := models.Account{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashed),
			Role:         models.RoleClient,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		client := models.Client{
			AccountID: account.ID,
			FullName:  strings.TrimSpace(req.FullName),
		}
		return tx.Create(&client).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_account", "Signup failed.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful!"})
}

// ======================================================
// FORGOT / RESET PASSWORD
// ======================================================

func (h *AuthHandler) ForgotSendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email is required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsValidEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email format.")
		return
	}

	var count int64
	h.db.Model(&models.Account{}).Where("email = ?", email).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "account_not_found", "No account found with this email.")
		return
	}

	code, err := h.otp.Issue(c.Request.Context(), otp.PurposeReset, email)
	if err != nil {
		httperr.Internal(c, "otp_store_error", "Could not issue OTP.")
		return
	}

	if err := h.mailer.Send(email, "Your OTP for Password Reset", notify.OTPBody(code, 5)); err != nil {
		httperr.Internal(c, "otp_send_failed", "Failed to send OTP.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		httperr.BadRequest(c, "password_mismatch", "Passwords do not match.")
		return
	}

	if !validators.IsStrongPassword(req.NewPassword) {
		httperr.BadRequest(c, "weak_password", "Password must be at least 8 characters and include letters and numbers.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := h.otp.Verify(c.Request.Context(), otp.PurposeReset, email, req.OTP)
	if err != nil {
		httperr.Internal(c, "otp_store_error", "Could not verify OTP.")
		return
	}
	if !ok {
		httperr.BadRequest(c, "invalid_otp", "Invalid or expired OTP.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Reset failed.")
		return
	}

	if err := h.db.Model(&models.Account{}).
		Where("email = ?", email).
		Update("password_hash", string(hashed)).Error; err != nil {

		httperr.Internal(c, "failed_to_update_password", "Reset failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// ======================================================
// CHANGE PASSWORD (authenticated)
// ======================================================

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		httperr.BadRequest(c, "password_mismatch", "Passwords do not match.")
		return
	}

	if !validators.IsStrongPassword(req.NewPassword) {
		httperr.BadRequest(c, "weak_password", "Password must be at least 8 characters and include letters and numbers.")
		return
	}

	var account models.Account
	if err := h.db.First(&account, accountID).Error; err != nil {
		httperr.NotFound(c, "account_not_found", "User not found.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Forbidden(c, "wrong_password", "Current password is incorrect.")
		return
	}

	if req.NewPassword == req.CurrentPassword {
		httperr.BadRequest(c, "password_unchanged", "New password must be different from the current password.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Update failed.")
		return
	}

	if err := h.db.Model(&account).Update("password_hash", string(hashed)).Error; err != nil {
		httperr.Internal(c, "failed_to_update_password", "Update failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// ======================================================
// ME
// ======================================================

func (h *AuthHandler) Me(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	var account models.Account
	if err := h.db.First(&account, accountID).Error; err != nil {
		httperr.Unauthorized(c, "account_not_found", "Not logged in.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": h.accountPayload(&account)})
}

// ======================================================
// HELPERS
// ======================================================

func (h *AuthHandler) accountPayload(account *models.Account) gin.H {
	return gin.H{
		"account_id": account.ID,
		"username":   account.Username,
		"email":      account.Email,
		"role":       account.Role,
		"fullname":   h.profileFullName(account.ID),
	}
}

// profileFullName resolves the display name across the three profile
// tables, first match wins.
func (h *AuthHandler) profileFullName(accountID uint) string {
	var client models.Client
	if err := h.db.Where("account_id = ?", accountID).First(&client).Error; err == nil {
		return client.FullName
	}

	var staff models.Staff
	if err := h.db.Where("account_id = ?", accountID).First(&staff).Error; err == nil {
		return staff.FullName
	}

	var admin models.Admin
	if err := h.db.Where("account_id = ?", accountID).First(&admin).Error; err == nil {
		return admin.FullName
	}

	return ""
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":      account.ID,
		"username": account.Username,
		"role":     account.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
