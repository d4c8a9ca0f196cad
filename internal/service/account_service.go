package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmesa/accounts-service/internal/domain"
)

// RecordRepository is the storage contract required by the account service.
type RecordRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, patch domain.AccountPatch) (domain.Account, error)
}

// AccountService orchestrates validation and normalization and delegates
// persistence to the repository.
type AccountService struct {
	repo RecordRepository
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo RecordRepository) *AccountService {
	return &AccountService{repo: repo}
}

// CreateAccount validates and normalizes the input and persists a new
// record. Every violated constraint is reported, not just the first one.
func (s *AccountService) CreateAccount(ctx context.Context, input AccountInput) (domain.Account, error) {
	account, err := validateAccountInput(input)
	if err != nil {
		return domain.Account{}, err
	}
	return s.repo.Create(ctx, account)
}

// ListAccounts returns all stored records.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx)
}

// GetAccount returns the record identified by id. A malformed identifier is
// reported exactly like an absent record so callers cannot distinguish the
// two cases.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return s.repo.FindByID(ctx, accountID)
}

// UpdateAccount applies a sparse update to the identified record. Absent
// fields are left untouched; a present Amount adjusts the balance by that
// signed delta in the same atomic mutation as the field overwrites.
// Payload checks run before the identifier is even parsed: an empty or
// invalid update is rejected with 422 no matter what identifier it was
// addressed to, and only a well-formed update can observe not-found.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, input AccountPatchInput) (domain.Account, error) {
	patch, err := validatePatchInput(input)
	if err != nil {
		return domain.Account{}, err
	}
	if patch.Empty() {
		return domain.Account{}, domain.ErrEmptyUpdate
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return s.repo.ApplyUpdate(ctx, accountID, patch)
}
