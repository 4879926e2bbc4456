package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pakin/account-api/services/account-service/internal/payload"
	"github.com/pakin/account-api/services/account-service/internal/usecase"
	"github.com/pakin/account-api/shared/validator"
)

// AccountHTTPHandler binds the account and session usecases to HTTP.
//
// Business rejections are returned as 200 responses with an ok:false payload;
// validation failures are 400s answered before any store access;
// infrastructure failures are logged in full and answered with a generic 500.
type AccountHTTPHandler struct {
	accountUsecase usecase.AccountUsecase
	sessionUsecase usecase.SessionUsecase
	validator      *validator.Validator
	logger         *zerolog.Logger
}

// NewAccountHTTPHandler creates a new AccountHTTPHandler instance.
func NewAccountHTTPHandler(
	accountUsecase usecase.AccountUsecase,
	sessionUsecase usecase.SessionUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *AccountHTTPHandler {
	return &AccountHTTPHandler{
		accountUsecase: accountUsecase,
		sessionUsecase: sessionUsecase,
		validator:      validator,
		logger:         logger,
	}
}

// RegisterRoutes mounts every endpoint of the service on the router.
func (h *AccountHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/resend-confirmation-email", h.resendConfirmationEmail)
			r.Post("/confirm", h.confirm)
			r.Post("/authenticate", h.authenticate)
			r.Post("/validate", h.validate)
			r.Post("/refresh", h.refresh)
			r.Post("/request-password-reset", h.requestPasswordReset)
			r.Post("/reset-password", h.resetPassword)
			r.Post("/update-password", h.updatePassword)
		})

		r.Get("/users", h.listUsers)
		r.Get("/user", h.getUser)
	})
}

// decodeAndValidate parses the JSON body into dst and validates it. On
// failure it answers the request itself and returns false.
func (h *AccountHTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, payload.ErrorResponse{
			ErrorMessage: "invalid request body",
		})
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, payload.ErrorResponse{
			ErrorMessage: strings.Join(h.validator.Translate(err), ", "),
		})
		return false
	}

	return true
}

func (h *AccountHTTPHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *AccountHTTPHandler) writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *AccountHTTPHandler) writeInternalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}
