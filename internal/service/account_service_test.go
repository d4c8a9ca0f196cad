package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dmesa/accounts-service/internal/domain"
)

type stubRepository struct {
	created    []domain.Account
	patches    []domain.AccountPatch
	patchIDs   []uuid.UUID
	accounts   []domain.Account
	found      domain.Account
	createErr  error
	findErr    error
	applyErr   error
	applyCalls int
}

func (s *stubRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if s.createErr != nil {
		return domain.Account{}, s.createErr
	}
	account.ID = uuid.NewString()
	s.created = append(s.created, account)
	return account, nil
}

func (s *stubRepository) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts, nil
}

func (s *stubRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	if s.findErr != nil {
		return domain.Account{}, s.findErr
	}
	return s.found, nil
}

func (s *stubRepository) ApplyUpdate(ctx context.Context, id uuid.UUID, patch domain.AccountPatch) (domain.Account, error) {
	s.applyCalls++
	if s.applyErr != nil {
		return domain.Account{}, s.applyErr
	}
	s.patchIDs = append(s.patchIDs, id)
	s.patches = append(s.patches, patch)
	return s.found, nil
}

func validInput() AccountInput {
	balance := 1000.0
	return AccountInput{
		AccountNumber:  "ACC-001",
		AccountType:    "SAVINGS",
		CustomerName:   "Jane Doe",
		DocumentType:   "CC",
		DocumentNumber: "123456789",
		Phone:          "+15551234567",
		Email:          "jane@example.com",
		Address:        "123 Market St, Bogota",
		Balance:        &balance,
	}
}

func TestAccountService_CreateAccount_Normalizes(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	input := validInput()
	input.CustomerName = "  Jane Doe "
	input.Email = " Jane.Doe@Example.COM "
	input.Phone = " +15551234567 "

	created, err := svc.CreateAccount(context.Background(), input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created.CustomerName != "Jane Doe" {
		t.Errorf("expected trimmed name, got %q", created.CustomerName)
	}
	if created.Email != "jane.doe@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.Balance != 1000.0 {
		t.Errorf("expected balance 1000, got %v", created.Balance)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 account persisted, got %d", len(repo.created))
	}
}

func TestAccountService_CreateAccount_DefaultsBalanceToZero(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	input := validInput()
	input.Balance = nil

	created, err := svc.CreateAccount(context.Background(), input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Balance != 0 {
		t.Fatalf("expected zero balance, got %v", created.Balance)
	}
}

func TestAccountService_CreateAccount_ReportsEveryViolation(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	negative := -10.0
	input := AccountInput{
		AccountNumber:  "AB",
		AccountType:    "X",
		CustomerName:   "JD",
		DocumentType:   "XX",
		DocumentNumber: "12",
		Phone:          "123",
		Email:          "not-an-email",
		Address:        "short",
		Balance:        &negative,
	}

	_, err := svc.CreateAccount(context.Background(), input)
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Violations) != 9 {
		t.Fatalf("expected 9 violations, got %d: %v", len(verr.Violations), verr.Violations)
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid input must never reach the repository")
	}
}

func TestAccountService_UpdateAccount_EmptyPatch(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	// Emptiness wins over identifier checks: the same 422 comes back no
	// matter how the update was addressed.
	for _, id := range []string{uuid.NewString(), "definitely-not-a-uuid"} {
		_, err := svc.UpdateAccount(context.Background(), id, AccountPatchInput{})
		if !errors.Is(err, domain.ErrEmptyUpdate) {
			t.Fatalf("expected ErrEmptyUpdate for id %q, got %v", id, err)
		}
	}
	if repo.applyCalls != 0 {
		t.Fatalf("empty patch must never reach the repository")
	}
}

func TestAccountService_UpdateAccount_MalformedID(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	name := "Janet Doe"
	_, err := svc.UpdateAccount(context.Background(), "definitely-not-a-uuid", AccountPatchInput{CustomerName: &name})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if repo.applyCalls != 0 {
		t.Fatalf("malformed id must never reach the repository")
	}
}

func TestAccountService_UpdateAccount_NormalizesPresentFields(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	id := uuid.New()
	email := " Janet.Doe@Example.COM "
	amount := 250.0
	_, err := svc.UpdateAccount(context.Background(), id.String(), AccountPatchInput{
		Email:  &email,
		Amount: &amount,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(repo.patches))
	}
	patch := repo.patches[0]
	if repo.patchIDs[0] != id {
		t.Errorf("expected id %s, got %s", id, repo.patchIDs[0])
	}
	if patch.Email == nil || *patch.Email != "janet.doe@example.com" {
		t.Errorf("expected normalized email, got %v", patch.Email)
	}
	if patch.Amount == nil || *patch.Amount != amount {
		t.Errorf("expected amount %v, got %v", amount, patch.Amount)
	}
	if patch.CustomerName != nil || patch.Phone != nil || patch.Address != nil {
		t.Errorf("absent fields must stay nil: %+v", patch)
	}
}

func TestAccountService_UpdateAccount_InvalidPresentField(t *testing.T) {
	repo := &stubRepository{}
	svc := NewAccountService(repo)

	badEmail := "nope"
	badPhone := "123"
	_, err := svc.UpdateAccount(context.Background(), uuid.NewString(), AccountPatchInput{
		Email: &badEmail,
		Phone: &badPhone,
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(verr.Violations), verr.Violations)
	}
	if repo.applyCalls != 0 {
		t.Fatalf("invalid patch must never reach the repository")
	}
}

func TestAccountService_GetAccount_MalformedID(t *testing.T) {
	repo := &stubRepository{findErr: errors.New("must not be called")}
	svc := NewAccountService(repo)

	_, err := svc.GetAccount(context.Background(), "42")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEmailNormalizationIdempotent(t *testing.T) {
	once := normalizeEmail(" Jane.Doe@Example.COM ")
	twice := normalizeEmail(once)
	if once != twice {
		t.Fatalf("normalization not idempotent: %q vs %q", once, twice)
	}
	if once != "jane.doe@example.com" {
		t.Fatalf("unexpected normalized form: %q", once)
	}
}

func TestValidationMessagesNameTheField(t *testing.T) {
	_, err := validateAccountInput(AccountInput{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"account_number", "customer_name", "document_type", "email", "address"} {
		found := false
		for _, violation := range verr.Violations {
			if strings.Contains(violation, field) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a violation naming %s, got %v", field, verr.Violations)
		}
	}
}

func TestBulkCreatorAggregatesErrors(t *testing.T) {
	repo := &stubRepository{createErr: errors.New("boom")}
	svc := NewAccountService(repo)
	creator := NewBulkCreator(svc, 2)

	err := creator.CreateAccounts(context.Background(), []AccountInput{
		validInput(),
		validInput(),
	})
	if err == nil {
		t.Fatalf("expected aggregated error, got nil")
	}
	batchErr, ok := err.(*BatchError)
	if !ok {
		t.Fatalf("expected BatchError type, got %T", err)
	}
	if len(batchErr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(batchErr.Errors))
	}
}

// atomicBalanceRepo mimics a store whose single-statement update is atomic:
// the mutex stands in for the store's per-document serialization.
type atomicBalanceRepo struct {
	mu      sync.Mutex
	balance float64
}

func (r *atomicBalanceRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	return account, nil
}

func (r *atomicBalanceRepo) List(ctx context.Context) ([]domain.Account, error) {
	return nil, nil
}

func (r *atomicBalanceRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Account{ID: id.String(), Balance: r.balance}, nil
}

func (r *atomicBalanceRepo) ApplyUpdate(ctx context.Context, id uuid.UUID, patch domain.AccountPatch) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patch.Amount != nil {
		r.balance += *patch.Amount
	}
	return domain.Account{ID: id.String(), Balance: r.balance}, nil
}

func TestAccountService_ConcurrentDeltasSumCorrectly(t *testing.T) {
	repo := &atomicBalanceRepo{balance: 1000.0}
	svc := NewAccountService(repo)
	id := uuid.NewString()

	const callers = 50
	const delta = 2.0
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			amount := delta
			if _, err := svc.UpdateAccount(context.Background(), id, AccountPatchInput{Amount: &amount}); err != nil {
				t.Errorf("concurrent update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	final, err := svc.GetAccount(context.Background(), id)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := 1000.0 + callers*delta; final.Balance != want {
		t.Fatalf("expected balance %v, got %v", want, final.Balance)
	}
}
