package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmesa/accounts-service/internal/domain"
	"github.com/dmesa/accounts-service/internal/store"
)

// AccountRepository persists account documents through a store client. Every
// mutation is a single statement, so concurrent updates to the same record
// serialize inside the store instead of racing through a read-modify-write.
type AccountRepository struct {
	client store.Client
}

// New instantiates an AccountRepository backed by the supplied store client.
func New(client store.Client) *AccountRepository {
	return &AccountRepository{client: client}
}

// EnsureSchema installs the uniqueness constraint on the account identifier.
// Safe to call on every start.
func (r *AccountRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, ensureSchemaCypher, nil); err != nil {
		return fmt.Errorf("ensure account schema: %w", err)
	}
	return nil
}

// Create assigns a fresh identifier, persists the record and returns the
// stored snapshot.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	params := map[string]any{
		"accountId": uuid.NewString(),
		"props":     accountProperties(account),
		"now":       formatTime(time.Now()),
	}

	res, err := r.client.ExecuteWrite(ctx, fmt.Sprintf(createAccountCypher, accountReturnFields), params)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Account{}, fmt.Errorf("create account: store returned no record")
	}

	return decodeAccount(res.Records[0])
}

// List returns every account, in whatever order the store yields them.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(listAccountsCypher, accountReturnFields), nil)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(res.Records))
	for _, record := range res.Records {
		account, err := decodeAccount(record)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// FindByID returns the account identified by id, or ErrAccountNotFound.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(findAccountCypher, accountReturnFields), map[string]any{
		"accountId": id.String(),
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("find account %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return decodeAccount(res.Records[0])
}

// ApplyUpdate turns the patch into one atomic mutation: an overwrite group
// for the present fields and, when Amount is set, an increment group on the
// balance. Both land in a single statement; a delta that would leave the
// balance negative is rejected inside the same statement, so the guard
// cannot be raced by a concurrent writer. Returns the post-mutation
// snapshot, ErrAccountNotFound when no record matched, or
// ErrBalanceBelowZero when the guard tripped.
func (r *AccountRepository) ApplyUpdate(ctx context.Context, id uuid.UUID, patch domain.AccountPatch) (domain.Account, error) {
	params := map[string]any{
		"accountId": id.String(),
		"set":       patchProperties(patch),
		"now":       formatTime(time.Now()),
	}

	statement := fmt.Sprintf(updateFieldsCypher, accountReturnFields)
	if patch.Amount != nil {
		statement = fmt.Sprintf(updateWithDeltaCypher, accountReturnFields)
		params["amount"] = *patch.Amount
	}

	res, err := r.client.ExecuteWrite(ctx, statement, params)
	if err != nil {
		return domain.Account{}, fmt.Errorf("update account %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	record := res.Records[0]
	if applied, ok := record["applied"].(bool); ok && !applied {
		return domain.Account{}, domain.ErrBalanceBelowZero
	}

	return decodeAccount(record)
}

// accountProperties maps the writable fields of an account onto node
// properties. The identifier and timestamps are handled separately.
func accountProperties(account domain.Account) map[string]any {
	return map[string]any{
		"accountNumber":  account.AccountNumber,
		"accountType":    account.AccountType,
		"customerName":   account.CustomerName,
		"documentType":   account.DocumentType,
		"documentNumber": account.DocumentNumber,
		"phone":          account.Phone,
		"email":          account.Email,
		"address":        account.Address,
		"balance":        account.Balance,
	}
}

// patchProperties builds the overwrite group from the present patch fields.
func patchProperties(patch domain.AccountPatch) map[string]any {
	set := map[string]any{}
	if patch.AccountNumber != nil {
		set["accountNumber"] = *patch.AccountNumber
	}
	if patch.AccountType != nil {
		set["accountType"] = *patch.AccountType
	}
	if patch.CustomerName != nil {
		set["customerName"] = *patch.CustomerName
	}
	if patch.DocumentType != nil {
		set["documentType"] = *patch.DocumentType
	}
	if patch.DocumentNumber != nil {
		set["documentNumber"] = *patch.DocumentNumber
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	return set
}

// decodeAccount converts a returned record into the domain entity. A record
// without an identifier is structurally broken and surfaces as an error
// rather than an empty account.
func decodeAccount(record store.Record) (domain.Account, error) {
	id := toString(record["accountId"])
	if id == "" {
		return domain.Account{}, fmt.Errorf("decode account: record has no accountId")
	}

	account := domain.Account{
		ID:             id,
		AccountNumber:  toString(record["accountNumber"]),
		AccountType:    toString(record["accountType"]),
		CustomerName:   toString(record["customerName"]),
		DocumentType:   toString(record["documentType"]),
		DocumentNumber: toString(record["documentNumber"]),
		Phone:          toString(record["phone"]),
		Email:          toString(record["email"]),
		Address:        toString(record["address"]),
		Balance:        toFloat64(record["balance"]),
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		account.CreatedAt = *created
	}
	if updated := toTimePtr(record["updatedAt"]); updated != nil {
		account.UpdatedAt = *updated
	}
	return account, nil
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func toFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func toTimePtr(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		t := v.UTC()
		return &t
	case string:
		if v == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

const ensureSchemaCypher = `
CREATE CONSTRAINT account_id_unique IF NOT EXISTS
FOR (a:Account) REQUIRE a.accountId IS UNIQUE
`

// accountReturnFields is the shared projection of an account node; the
// query templates below splice it in via fmt.Sprintf.
const accountReturnFields = `a.accountId AS accountId,
	a.accountNumber AS accountNumber,
	a.accountType AS accountType,
	a.customerName AS customerName,
	a.documentType AS documentType,
	a.documentNumber AS documentNumber,
	a.phone AS phone,
	a.email AS email,
	a.address AS address,
	a.balance AS balance,
	a.createdAt AS createdAt,
	a.updatedAt AS updatedAt`

const createAccountCypher = `
CREATE (a:Account {accountId: $accountId})
SET a += $props
SET a.createdAt = $now, a.updatedAt = $now
RETURN %s
`

const listAccountsCypher = `
MATCH (a:Account)
RETURN %s
`

const findAccountCypher = `
MATCH (a:Account {accountId: $accountId})
RETURN %s
`

const updateFieldsCypher = `
MATCH (a:Account {accountId: $accountId})
SET a += $set
SET a.updatedAt = $now
RETURN true AS applied, %s
`

// updateWithDeltaCypher applies the overwrite group and the balance
// increment together. The FOREACH trick makes the whole mutation
// conditional on the resulting balance staying non-negative while still
// returning the matched record, so "not found" and "would go negative"
// stay distinguishable from one round trip.
const updateWithDeltaCypher = `
MATCH (a:Account {accountId: $accountId})
WITH a, a.balance + $amount >= 0 AS applied
FOREACH (_ IN CASE WHEN applied THEN [1] ELSE [] END |
	SET a += $set
	SET a.balance = a.balance + $amount
	SET a.updatedAt = $now
)
RETURN applied, %s
`
