package handlers

import (
	"net/http"

	"yaplog-backend/application/services"
	"yaplog-backend/pkg/common"
	pkgerrors "yaplog-backend/pkg/errors"
	"yaplog-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxAuthBodyBytes = 64 << 10

// AuthHandler handles account HTTP requests
type AuthHandler struct {
	accounts *services.AccountService
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *services.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// SignUpRequest represents the request body for account registration
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LogInRequest represents the request body for login
type LogInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LogInResponse carries the issued access token
type LogInResponse struct {
	Token string `json:"token"`
}

// EmailRequest represents a request keyed by account email
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for completing a reset
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.SignUp(r.Context(), req.Name, req.Email, req.Password); err != nil {
		h.respondAppError(w, err, "Failed to sign up")
		return
	}

	common.RespondJSON(w, http.StatusCreated, MessageResponse{
		Message: "Account created. Check your email to verify your address.",
	})
}

// LogIn handles POST /auth/login
func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req LogInRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.accounts.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAppError(w, err, "Failed to log in")
		return
	}

	common.RespondJSON(w, http.StatusOK, LogInResponse{Token: token})
}

// VerifyEmail handles GET /auth/verify-email. The token arrives as a query
// parameter because the link is opened straight from the verification email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.respondAppError(w, pkgerrors.NewValidationError("token is required"), "Failed to verify email")
		return
	}

	if err := h.accounts.VerifyEmail(r.Context(), token); err != nil {
		h.respondAppError(w, err, "Failed to verify email")
		return
	}

	common.RespondJSON(w, http.StatusOK, MessageResponse{Message: "Email verified"})
}

// ResendVerification handles POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.ResendVerification(r.Context(), req.Email); err != nil {
		h.respondAppError(w, err, "Failed to resend verification")
		return
	}

	// Identical response whether or not the account exists.
	common.RespondJSON(w, http.StatusOK, MessageResponse{
		Message: "If the account exists, a verification email has been sent.",
	})
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondAppError(w, err, "Failed to start password reset")
		return
	}

	common.RespondJSON(w, http.StatusOK, MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.respondAppError(w, err, "Failed to reset password")
		return
	}

	common.RespondJSON(w, http.StatusOK, MessageResponse{Message: "Password updated"})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(r, v, maxAuthBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body")
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return false
	}
	return true
}

func (h *AuthHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
	status := pkgerrors.HTTPStatusFor(err)
	message := fallback
	code := common.StandardErrorCodes.InternalError
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		message = appErr.Message
		code = string(appErr.Type)
	}
	if status >= 500 {
		h.logger.Error(fallback, zap.Error(err))
	}
	common.RespondError(w, status, code, message)
}
