package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/validation"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name"`
	Country     string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) authResponse(c echo.Context, status int, user *model.User) error {
	token, err := h.JWT.GenerateToken(user.AuthID, user.Email, user.Role)
	if err != nil {
		logger.FromContext(c).Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	return c.JSON(status, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Register creates a local account and signs the user in.
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRegister()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsEmail(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
	}

	user := &model.User{
		AuthID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		ContactName:  validation.Sanitize(req.ContactName, validation.MaxShortLength),
		CompanyName:  validation.Sanitize(req.CompanyName, validation.MaxShortLength),
		Country:      validation.Sanitize(req.Country, validation.MaxShortLength),
	}
	if err := h.Store.CreateUser(c.Request().Context(), user); err != nil {
		prometheus.RecordAuthError("register_failed")
		return respondError(c, err, "Failed to register user")
	}

	log.Info("User registered", zap.String("user_id", user.ID), zap.String("email", email))
	return h.authResponse(c, http.StatusCreated, user)
}

// Login exchanges credentials for a token.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLogin()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, err)
	}

	user, err := h.Store.FindUserByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && user.PasswordHash == "") {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return respondError(c, err, "Failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	log.Info("User logged in", zap.String("user_id", user.ID))
	return h.authResponse(c, http.StatusOK, user)
}
