package handler

import (
	"errors"
	"net/http"

	"github.com/pakin/account-api/services/account-service/internal/payload"
	"github.com/pakin/account-api/services/account-service/internal/usecase"
)

// Business rejection messages. Each one deliberately covers several distinct
// causes so responses never reveal whether an email is registered or which
// check a token failed.
const (
	msgEmailAlreadyRegistered  = "This email address has already been registered."
	msgNotAwaitingConfirmation = "No user with those details is awaiting confirmation."
	msgUnrecognisedCredentials = "Unrecognised email or password."
	msgInvalidResetDetails     = "The details you have entered are not valid."
)

func (h *AccountHTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accountUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Data:     req.Data,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyRegistered) {
			h.writeJSON(w, http.StatusOK, payload.RegisterResponse{
				OK:           false,
				ErrorMessage: msgEmailAlreadyRegistered,
			})
			return
		}

		h.writeInternalError(w, err, "failed to register user")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.RegisterResponse{
		OK: true,
		ID: user.ID.Hex(),
	})
}

func (h *AccountHTTPHandler) resendConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accountUsecase.ResendConfirmation(r.Context(), req.Email); err != nil {
		h.writeInternalError(w, err, "failed to resend confirmation email")
		return
	}

	h.writeOK(w)
}

func (h *AccountHTTPHandler) confirm(w http.ResponseWriter, r *http.Request) {
	var req payload.ConfirmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accountUsecase.Confirm(r.Context(), req.Email, req.Token)
	if err != nil {
		if errors.Is(err, usecase.ErrNotAwaitingConfirmation) {
			h.writeJSON(w, http.StatusOK, payload.ConfirmResponse{
				OK:           false,
				ErrorMessage: msgNotAwaitingConfirmation,
			})
			return
		}

		h.writeInternalError(w, err, "failed to confirm account")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.ConfirmResponse{
		OK: true,
		ID: user.ID.Hex(),
	})
}

func (h *AccountHTTPHandler) authenticate(w http.ResponseWriter, r *http.Request) {
	var req payload.AuthenticateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.accountUsecase.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.writeJSON(w, http.StatusOK, payload.AuthenticateResponse{
				OK:           false,
				ErrorMessage: msgUnrecognisedCredentials,
			})
			return
		}

		h.writeInternalError(w, err, "failed to authenticate user")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.AuthenticateResponse{
		OK:    true,
		ID:    user.ID.Hex(),
		Token: token,
	})
}

func (h *AccountHTTPHandler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accountUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.writeInternalError(w, err, "failed to request password reset")
		return
	}

	h.writeOK(w)
}

func (h *AccountHTTPHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accountUsecase.ResetPassword(r.Context(), req.Email, req.Password, req.Token); err != nil {
		if errors.Is(err, usecase.ErrInvalidResetDetails) {
			h.writeJSON(w, http.StatusOK, payload.ResetPasswordResponse{
				OK:           false,
				ErrorMessage: msgInvalidResetDetails,
			})
			return
		}

		h.writeInternalError(w, err, "failed to reset password")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.ResetPasswordResponse{OK: true})
}

func (h *AccountHTTPHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdatePasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accountUsecase.UpdatePassword(r.Context(), req.Token, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSessionToken) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		h.writeInternalError(w, err, "failed to update password")
		return
	}

	h.logger.Info().Str("user_id", user.ID.Hex()).Msg("password updated")

	h.writeOK(w)
}
