package handler

import (
	"errors"
	"net/http"

	"github.com/pakin/account-api/services/account-service/internal/payload"
	"github.com/pakin/account-api/services/account-service/internal/usecase"
)

func (h *AccountHTTPHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req payload.TokenRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.sessionUsecase.Validate(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSessionToken) {
			h.writeJSON(w, http.StatusOK, payload.ValidateResponse{OK: false})
			return
		}

		h.writeInternalError(w, err, "failed to validate session token")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.ValidateResponse{
		OK: true,
		ID: user.ID.Hex(),
	})
}

func (h *AccountHTTPHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req payload.TokenRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.sessionUsecase.Refresh(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSessionToken) {
			h.writeJSON(w, http.StatusOK, payload.RefreshResponse{OK: false})
			return
		}

		h.writeInternalError(w, err, "failed to refresh session token")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.RefreshResponse{
		OK:    true,
		ID:    user.ID.Hex(),
		Token: token,
	})
}
