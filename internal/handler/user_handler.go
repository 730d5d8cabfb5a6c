package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupplan/internal/auth"
	"groupplan/internal/mailer"
	"groupplan/internal/middleware"
	"groupplan/internal/model"
	"groupplan/internal/notify"
	"groupplan/internal/repository"
)

type UserHandler struct {
	users        repository.UserRepositoryInterface
	notifier     *notify.Notifier
	mail         mailer.Mailer
	log          *zap.Logger
	jwtSecret    string
	cookieSecure bool
}

func NewUserHandler(
	users repository.UserRepositoryInterface,
	notifier *notify.Notifier,
	mail mailer.Mailer,
	log *zap.Logger,
	jwtSecret string,
	cookieSecure bool,
) *UserHandler {
	return &UserHandler{
		users:        users,
		notifier:     notifier,
		mail:         mail,
		log:          log,
		jwtSecret:    jwtSecret,
		cookieSecure: cookieSecure,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *UserHandler) setSession(c *gin.Context, userID uint) error {
	token, err := auth.GenerateToken(h.jwtSecret, userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, int(auth.SessionTTL.Seconds()), "/", "", h.cookieSecure, true)
	return nil
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check email")
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, "Email already registered")
		return
	}

	existing, err = h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check username")
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, "Username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.setSession(c, user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respondData(c, http.StatusCreated, user.ToResponse())
}

// Login answers a uniform "invalid credentials" for both unknown
// emails and wrong passwords.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.setSession(c, user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respondData(c, http.StatusOK, user.ToResponse())
}

func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	respondMessage(c, http.StatusOK, "Logged out")
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondData(c, http.StatusOK, user.ToResponse())
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		existing, err := h.users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to check email")
			return
		}
		if existing != nil && existing.ID != userID {
			respondError(c, http.StatusConflict, "Email already registered")
			return
		}
	}

	user, err := h.users.Update(c.Request.Context(), userID, repository.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondData(c, http.StatusOK, user.ToResponse())
}

// PasswordReset issues a temporary password and mails the plaintext;
// only the hash is stored. The response is the same whether or not the
// email exists, so the endpoint cannot be used to probe accounts.
func (h *UserHandler) PasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Password reset failed")
		return
	}
	if user == nil {
		respondMessage(c, http.StatusOK, "If the address exists, a temporary password has been sent")
		return
	}

	tempPassword, err := auth.GenerateTempPassword(auth.TempPasswordLength)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Password reset failed")
		return
	}
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Password reset failed")
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		respondError(c, http.StatusInternalServerError, "Password reset failed")
		return
	}

	if err := h.mail.SendPasswordResetEmail(user.Email, tempPassword); err != nil {
		h.log.Error("failed to send reset email", zap.Error(err), zap.Uint("user_id", user.ID))
	}
	if err := h.notifier.PasswordReset(c.Request.Context(), user.ID); err != nil {
		h.log.Error("failed to create reset notification", zap.Error(err), zap.Uint("user_id", user.ID))
	}

	respondMessage(c, http.StatusOK, "If the address exists, a temporary password has been sent")
}
