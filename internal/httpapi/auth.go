package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendflow/internal/user"
)

// ListUsers returns every account (password hashes are never serialized).
func (h *Handler) ListUsers(c *gin.Context) {
	res, err := h.accounts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res == nil {
		res = []user.User{}
	}
	c.JSON(http.StatusOK, res)
}

// RegisterUser creates an account. Duplicate email or username and unknown
// roles are rejected with a plain-text 400, matching the original API.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	saved, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken), errors.Is(err, user.ErrUsernameTaken), errors.Is(err, user.ErrInvalidRole):
			c.String(http.StatusBadRequest, err.Error())
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, saved)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	user.User
	Token string `json:"token"`
}

// Login verifies credentials; 401 with "Invalid credentials" on any mismatch.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	u, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.String(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loginResponse{User: u, Token: token})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword emails a short-lived reset token to a known account.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.String(http.StatusNotFound, "Error: Identity not found in institutional registry.")
			return
		}
		c.String(http.StatusInternalServerError, "Failed to send email: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset link sent to " + req.Email})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPassword consumes a reset token and stores the new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, user.ErrInvalidResetToken) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteUser removes an account by id.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
