package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmesa/accounts-service/internal/domain"
	"github.com/dmesa/accounts-service/internal/service"
)

// AccountHandlers exposes HTTP handlers for the accounts REST API.
type AccountHandlers struct {
	logger  *slog.Logger
	service *service.AccountService
}

// NewAccountHandlers constructs an AccountHandlers instance.
func NewAccountHandlers(logger *slog.Logger, svc *service.AccountService) *AccountHandlers {
	return &AccountHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *AccountHandlers) createAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	account, err := h.service.CreateAccount(r.Context(), service.AccountInput{
		AccountNumber:  payload.AccountNumber,
		AccountType:    payload.AccountType,
		CustomerName:   payload.CustomerName,
		DocumentType:   payload.DocumentType,
		DocumentNumber: payload.DocumentNumber,
		Phone:          payload.Phone,
		Email:          payload.Email,
		Address:        payload.Address,
		Balance:        payload.Balance,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandlers) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to list accounts")
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AccountHandlers) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch account")
		return
	}

	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandlers) updateAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountPatchRequest
	if err := decodeJSON(r, &payload); err != nil {
		// A body with no JSON at all is an update carrying nothing, not
		// a malformed one: it fails the same way as an empty object,
		// regardless of which identifier it was addressed to.
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusUnprocessableEntity, domain.ErrEmptyUpdate.Error())
			return
		}
		writeError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), chi.URLParam(r, "id"), service.AccountPatchInput{
		AccountNumber:  payload.AccountNumber,
		AccountType:    payload.AccountType,
		CustomerName:   payload.CustomerName,
		DocumentType:   payload.DocumentType,
		DocumentNumber: payload.DocumentNumber,
		Phone:          payload.Phone,
		Email:          payload.Email,
		Address:        payload.Address,
		Amount:         payload.Amount,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to update account")
		return
	}

	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// writeServiceError maps domain errors onto HTTP statuses. Validation
// failures carry the full violation list; anything unrecognized is an
// infrastructure fault and surfaces as a 500 without leaking internals.
func (h *AccountHandlers) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorDetails(w, http.StatusUnprocessableEntity, "validation failed", verr.Violations)
	case errors.Is(err, domain.ErrEmptyUpdate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrBalanceBelowZero):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, logMsg)
	}
}

// --- Request & Response DTOs ---

type accountRequest struct {
	AccountNumber  string   `json:"account_number"`
	AccountType    string   `json:"account_type"`
	CustomerName   string   `json:"customer_name"`
	DocumentType   string   `json:"document_type"`
	DocumentNumber string   `json:"document_number"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	Balance        *float64 `json:"balance"`
}

type accountPatchRequest struct {
	AccountNumber  *string  `json:"account_number"`
	AccountType    *string  `json:"account_type"`
	CustomerName   *string  `json:"customer_name"`
	DocumentType   *string  `json:"document_type"`
	DocumentNumber *string  `json:"document_number"`
	Phone          *string  `json:"phone"`
	Email          *string  `json:"email"`
	Address        *string  `json:"address"`
	Amount         *float64 `json:"amount"`
}

type accountResponse struct {
	ID             string  `json:"id"`
	AccountNumber  string  `json:"account_number"`
	AccountType    string  `json:"account_type"`
	CustomerName   string  `json:"customer_name"`
	DocumentType   string  `json:"document_type"`
	DocumentNumber string  `json:"document_number"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	Balance        float64 `json:"balance"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// --- Helpers ---

func toAccountResponse(account domain.Account) accountResponse {
	return accountResponse{
		ID:             account.ID,
		AccountNumber:  account.AccountNumber,
		AccountType:    account.AccountType,
		CustomerName:   account.CustomerName,
		DocumentType:   account.DocumentType,
		DocumentNumber: account.DocumentNumber,
		Phone:          account.Phone,
		Email:          account.Email,
		Address:        account.Address,
		Balance:        account.Balance,
		CreatedAt:      formatTime(account.CreatedAt),
		UpdatedAt:      formatTime(account.UpdatedAt),
	}
}

// errInvalidBody is what callers see for undecodable payloads; decoder
// internals never leak into responses.
var errInvalidBody = errors.New("invalid request body")

// decodeJSON parses the request body into dst. A zero-byte body surfaces
// as io.EOF so handlers can tell "no body at all" apart from broken JSON.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return errInvalidBody
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func writeErrorDetails(w http.ResponseWriter, status int, msg string, details []string) {
	respondJSON(w, status, errorResponse{Error: msg, Details: details})
}
