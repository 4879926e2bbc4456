package handler

import (
	"errors"
	"net/http"

	"github.com/pakin/account-api/services/account-service/internal/payload"
	"github.com/pakin/account-api/services/account-service/internal/repository"
)

// The user read endpoints answer with the whitelisted projection only.
// Password hashes, tokens and expiry timestamps never serialize.

func (h *AccountHTTPHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accountUsecase.ListUsers(r.Context())
	if err != nil {
		h.writeInternalError(w, err, "failed to list users")
		return
	}

	responses := make([]payload.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, payload.NewUserResponse(user))
	}

	h.writeJSON(w, http.StatusOK, responses)
}

func (h *AccountHTTPHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeJSON(w, http.StatusBadRequest, payload.ErrorResponse{
			ErrorMessage: "missing query parameter id",
		})
		return
	}

	user, err := h.accountUsecase.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		h.writeInternalError(w, err, "failed to get user")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.NewUserResponse(user))
}
