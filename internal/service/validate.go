package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmesa/accounts-service/internal/domain"
)

// Field constraints applied to both creation and update payloads. Values
// are trimmed before length checks, and the trimmed form is what gets
// persisted.
const (
	accountNumberMin  = 3
	accountNumberMax  = 50
	accountTypeMin    = 3
	accountTypeMax    = 20
	customerNameMin   = 3
	customerNameMax   = 100
	documentNumberMin = 3
	documentNumberMax = 20
	phoneMin          = 7
	phoneMax          = 20
	emailMin          = 5
	emailMax          = 100
	addressMin        = 10
	addressMax        = 200
)

// validateAccountInput checks every field of a creation payload, collecting
// all violations, and returns the normalized account ready for persistence.
func validateAccountInput(input AccountInput) (domain.Account, error) {
	var verr domain.ValidationError

	account := domain.Account{
		AccountNumber:  checkLength(&verr, "account_number", input.AccountNumber, accountNumberMin, accountNumberMax),
		AccountType:    checkLength(&verr, "account_type", input.AccountType, accountTypeMin, accountTypeMax),
		CustomerName:   checkLength(&verr, "customer_name", input.CustomerName, customerNameMin, customerNameMax),
		DocumentType:   checkDocumentType(&verr, input.DocumentType),
		DocumentNumber: checkLength(&verr, "document_number", input.DocumentNumber, documentNumberMin, documentNumberMax),
		Phone:          checkLength(&verr, "phone", input.Phone, phoneMin, phoneMax),
		Email:          checkEmail(&verr, input.Email),
		Address:        checkLength(&verr, "address", input.Address, addressMin, addressMax),
	}

	if input.Balance != nil {
		if *input.Balance < 0 {
			verr.Add("balance cannot be negative")
		} else {
			account.Balance = *input.Balance
		}
	}

	if err := verr.AsError(); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// validatePatchInput checks only the fields present in a sparse update and
// returns the normalized patch.
func validatePatchInput(input AccountPatchInput) (domain.AccountPatch, error) {
	var verr domain.ValidationError
	var patch domain.AccountPatch

	if input.AccountNumber != nil {
		patch.AccountNumber = ptr(checkLength(&verr, "account_number", *input.AccountNumber, accountNumberMin, accountNumberMax))
	}
	if input.AccountType != nil {
		patch.AccountType = ptr(checkLength(&verr, "account_type", *input.AccountType, accountTypeMin, accountTypeMax))
	}
	if input.CustomerName != nil {
		patch.CustomerName = ptr(checkLength(&verr, "customer_name", *input.CustomerName, customerNameMin, customerNameMax))
	}
	if input.DocumentType != nil {
		patch.DocumentType = ptr(checkDocumentType(&verr, *input.DocumentType))
	}
	if input.DocumentNumber != nil {
		patch.DocumentNumber = ptr(checkLength(&verr, "document_number", *input.DocumentNumber, documentNumberMin, documentNumberMax))
	}
	if input.Phone != nil {
		patch.Phone = ptr(checkLength(&verr, "phone", *input.Phone, phoneMin, phoneMax))
	}
	if input.Email != nil {
		patch.Email = ptr(checkEmail(&verr, *input.Email))
	}
	if input.Address != nil {
		patch.Address = ptr(checkLength(&verr, "address", *input.Address, addressMin, addressMax))
	}
	patch.Amount = input.Amount

	if err := verr.AsError(); err != nil {
		return domain.AccountPatch{}, err
	}
	return patch, nil
}

// checkLength trims the value, records a violation when the trimmed length
// falls outside [min, max], and returns the trimmed form.
func checkLength(verr *domain.ValidationError, field, value string, min, max int) string {
	trimmed := strings.TrimSpace(value)
	if n := utf8.RuneCountInString(trimmed); n < min || n > max {
		verr.Add(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return trimmed
}

func checkDocumentType(verr *domain.ValidationError, value string) string {
	trimmed := strings.TrimSpace(value)
	if !domain.ValidDocumentType(trimmed) {
		verr.Add(fmt.Sprintf("document_type must be one of %s", documentTypeList()))
	}
	return trimmed
}

// checkEmail normalizes the address to its trimmed, lowercased form. The
// normalization is idempotent, so an already stored value passes through
// unchanged.
func checkEmail(verr *domain.ValidationError, value string) string {
	normalized := normalizeEmail(value)
	if !strings.Contains(normalized, "@") {
		verr.Add("email must contain '@'")
	}
	if n := utf8.RuneCountInString(normalized); n < emailMin || n > emailMax {
		verr.Add(fmt.Sprintf("email must be between %d and %d characters", emailMin, emailMax))
	}
	return normalized
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func documentTypeList() string {
	parts := make([]string, 0, len(domain.DocumentTypes))
	for _, dt := range domain.DocumentTypes {
		parts = append(parts, string(dt))
	}
	return strings.Join(parts, ", ")
}

func ptr[T any](v T) *T {
	return &v
}
