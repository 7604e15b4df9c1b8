package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/auth"
	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/validation"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *auth.Service
	// Secure controls the cookie's Secure flag; true in production.
	Secure bool
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Service, secure bool) *AuthHandler {
	return &AuthHandler{DB: db, Tokens: tokens, Secure: secure}
}

// Register: POST /auth/register. Open endpoint; new accounts always get the
// plain "user" role, only an admin can promote them later.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("email", input.Email, v)
	validation.Required("password", input.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	user := models.User{Name: strings.TrimSpace(input.Name), Email: email, Password: string(hash), Role: models.RoleUser}
	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

// Login: POST /auth/login. Issues the session token cookie on success. The
// response body does not say whether the email or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Email == "" || input.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"email": "required", "password": "required"})
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	h.Tokens.SetCookie(w, token, h.Secure)
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "login successful", "user": user})
}

// Logout: POST /auth/logout. Sessions are stateless, so logging out is just
// dropping the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me: GET /auth/me. Self-service profile read, open to every authenticated
// role, including plain users.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "profile_fetch_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
