package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/sms"
	"github.com/eventcrew/eventcrew-api/internal/utils"
)

const (
	verificationCodeTTL = 10 * time.Minute
	resetTokenTTL       = 30 * time.Minute
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
	SMS       sms.Sender
	Logger    *zap.Logger
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":    false,
		"error_code": "VALIDATION_ERROR",
		"message":    "Validation error",
		"errors":     errs,
	})
}

type SendCodeReq struct {
	Phone string `json:"phone"`
}

// SendCode upserts the user by phone and issues a single-use login code.
// The response never reveals whether the phone was already registered.
func (h *AuthHandler) SendCode(c *fiber.Ctx) error {
	var req SendCodeReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	phone := strings.TrimSpace(req.Phone)
	errs := FieldErrors{}
	if phone == "" {
		errs.Add("phone", "Phone is required")
	} else if len(phone) < 8 {
		errs.Add("phone", "Phone is not valid")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	code := utils.GenerateVerificationCode()
	expires := time.Now().Add(verificationCodeTTL)

	var user models.User
	err := h.DB.Where("phone = ?", phone).First(&user).Error
	switch {
	case err == nil:
		user.VerificationCode = code
		user.VerificationCodeExpires = &expires
		err = h.DB.Save(&user).Error
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Phone:                   phone,
			VerificationCode:        code,
			VerificationCodeExpires: &expires,
		}
		err = h.DB.Create(&user).Error
	}
	if err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	if err := h.SMS.SendCode(phone, code); err != nil {
		h.Logger.Error("send verification code", zap.Error(err))
		return apperr.Write(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Code sent"})
}

type PhoneLoginReq struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// PhoneLogin exchanges a verification code for a session token. Unknown
// phone, wrong code and expired code all fail identically.
func (h *AuthHandler) PhoneLogin(c *fiber.Ctx) error {
	var req PhoneLoginReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	phone := strings.TrimSpace(req.Phone)
	code := strings.TrimSpace(req.Code)
	if phone == "" || code == "" {
		return apperr.Write(c, apperr.InvalidCredentials())
	}

	var user models.User
	if err := h.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if user.VerificationCodeExpires == nil || time.Now().After(*user.VerificationCodeExpires) {
		return apperr.Write(c, apperr.InvalidCredentials())
	}

	// Code is single-use: clear it before handing out the session.
	user.VerificationCode = ""
	user.VerificationCodeExpires = nil
	if err := h.DB.Save(&user).Error; err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	return h.respondWithSession(c, &user)
}

type PasswordLoginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) PasswordLogin(c *fiber.Ctx) error {
	var req PasswordLoginReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	phone := strings.TrimSpace(req.Phone)
	password := strings.TrimSpace(req.Password)
	if phone == "" || password == "" {
		return apperr.Write(c, apperr.InvalidCredentials())
	}

	var user models.User
	if err := h.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if !user.HasPassword || !utils.CheckPassword(user.Password, password) {
		return apperr.Write(c, apperr.InvalidCredentials())
	}

	return h.respondWithSession(c, &user)
}

type ResetRequestReq struct {
	Phone string `json:"phone"`
}

// RequestPasswordReset issues a single-use reset token. Always reports
// success so phone numbers cannot be enumerated.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req ResetRequestReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return apperr.Write(c, apperr.Validation("phone is required"))
	}

	var user models.User
	if err := h.DB.Where("phone = ?", phone).First(&user).Error; err == nil && user.HasPassword {
		token := utils.GenerateResetToken()
		expires := time.Now().Add(resetTokenTTL)
		user.PasswordResetToken = token
		user.PasswordResetExpires = &expires
		if err := h.DB.Save(&user).Error; err != nil {
			return apperr.Write(c, apperr.Internal(err))
		}
		if err := h.SMS.SendCode(phone, token); err != nil {
			h.Logger.Error("send reset token", zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "If the phone is registered, a reset token was sent"})
}

type ResetConfirmReq struct {
	Phone       string `json:"phone"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetConfirmReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	phone := strings.TrimSpace(req.Phone)
	token := strings.TrimSpace(req.Token)
	password := strings.TrimSpace(req.NewPassword)
	if phone == "" || token == "" {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if len(password) < 6 {
		return apperr.Write(c, apperr.Validation("password must be at least 6 characters"))
	}

	var user models.User
	if err := h.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if user.PasswordResetToken == "" || user.PasswordResetToken != token {
		return apperr.Write(c, apperr.InvalidCredentials())
	}
	if user.PasswordResetExpires == nil || time.Now().After(*user.PasswordResetExpires) {
		return apperr.Write(c, apperr.InvalidCredentials())
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}
	user.Password = hash
	user.HasPassword = true
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	if err := h.DB.Save(&user).Error; err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}

// VerifySession resolves the bearer token (already checked by middleware)
// back to a full user record.
func (h *AuthHandler) VerifySession(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user":  toUserResponse(&user, true),
	})
}

func (h *AuthHandler) respondWithSession(c *fiber.Ctx, user *models.User) error {
	token, err := utils.SignJWT(h.JWTSecret, user.ID.String(), user.Phone, h.Expires)
	if err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"session_token": token,
		"user":          toUserResponse(user, true),
	})
}
