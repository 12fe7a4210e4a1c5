package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FullName    string `json:"full_name"`
		CompanyName string `json:"company_name"`
		UserType    string `json:"user_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.authSvc.Signup(r.Context(), body.Email, body.Password, body.FullName, body.CompanyName, body.UserType)
	if err != nil {
		observability.Audit(r, "auth.signup.failed", "email", body.Email)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.signup.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusCreated, result)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.authSvc.Signin(r.Context(), body.Email, body.Password)
	if err != nil {
		observability.Audit(r, "auth.signin.failed", "email", body.Email)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.signin.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.authSvc.ChangePassword(r.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		observability.Audit(r, "auth.change_password.failed", "user_id", userID)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.change_password.success", "user_id", userID)
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "password updated"})
}

// ForgotPassword acks uniformly; the response does not reveal whether
// the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.authSvc.ForgotPassword(r.Context(), body.Email); err != nil {
		writeAuthError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "if the email exists, a reset token has been sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.authSvc.ResetPassword(r.Context(), body.Email, body.Token, body.NewPassword); err != nil {
		observability.Audit(r, "auth.reset_password.failed", "email", body.Email)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.reset_password.success", "email", body.Email)
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "password reset"})
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	minutes, err := h.authSvc.SendCode(r.Context(), body.Email)
	if err != nil {
		observability.Audit(r, "auth.send_code.failed", "email", body.Email)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.send_code.success", "email", body.Email)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"message":            "verification code sent",
		"expires_in_minutes": minutes,
	})
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.authSvc.VerifyCode(r.Context(), body.Email, body.Code)
	if err != nil {
		observability.Audit(r, "auth.verify_code.failed", "email", body.Email)
		writeAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.verify_code.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, result)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		response.Error(w, r, http.StatusConflict, "DUPLICATE_EMAIL", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrWeakPassword):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCode):
		response.Error(w, r, http.StatusBadRequest, "INVALID_CODE", err.Error(), nil)
	case errors.Is(err, service.ErrExpiredCode):
		response.Error(w, r, http.StatusBadRequest, "EXPIRED_CODE", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidResetToken):
		response.Error(w, r, http.StatusBadRequest, "INVALID_TOKEN", err.Error(), nil)
	case errors.Is(err, service.ErrExpiredResetToken):
		response.Error(w, r, http.StatusBadRequest, "EXPIRED_TOKEN", err.Error(), nil)
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, service.ErrEmailDelivery):
		response.Error(w, r, http.StatusBadGateway, "DELIVERY", "failed to send email", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
