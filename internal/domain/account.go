package domain

import "time"

// DocumentType is the closed set of identity document categories accepted
// for an account holder.
type DocumentType string

const (
	DocumentTypeCC  DocumentType = "CC"
	DocumentTypeCE  DocumentType = "CE"
	DocumentTypeTI  DocumentType = "TI"
	DocumentTypePP  DocumentType = "PP"
	DocumentTypeNIT DocumentType = "NIT"
)

// DocumentTypes lists every accepted document type, in declaration order.
var DocumentTypes = []DocumentType{
	DocumentTypeCC,
	DocumentTypeCE,
	DocumentTypeTI,
	DocumentTypePP,
	DocumentTypeNIT,
}

// ValidDocumentType reports whether value belongs to the closed enumeration.
func ValidDocumentType(value string) bool {
	for _, dt := range DocumentTypes {
		if string(dt) == value {
			return true
		}
	}
	return false
}

// Account is the persisted bank-account record. The ID is assigned by the
// store on creation and never changes; every read hands back a detached
// snapshot, so mutating an Account value has no effect on stored state.
type Account struct {
	ID             string
	AccountNumber  string
	AccountType    string
	CustomerName   string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Address        string
	Balance        float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountPatch is a sparse update: a nil field means "leave unchanged".
// Amount is a signed delta applied to the balance, independent of the
// field overwrites. An all-nil patch is not a valid update.
type AccountPatch struct {
	AccountNumber  *string
	AccountType    *string
	CustomerName   *string
	DocumentType   *string
	DocumentNumber *string
	Phone          *string
	Email          *string
	Address        *string
	Amount         *float64
}

// Empty reports whether the patch carries neither field overwrites nor a
// balance delta.
func (p AccountPatch) Empty() bool {
	return p.AccountNumber == nil &&
		p.AccountType == nil &&
		p.CustomerName == nil &&
		p.DocumentType == nil &&
		p.DocumentNumber == nil &&
		p.Phone == nil &&
		p.Email == nil &&
		p.Address == nil &&
		p.Amount == nil
}

// HasFields reports whether at least one field overwrite is present.
func (p AccountPatch) HasFields() bool {
	return p.AccountNumber != nil ||
		p.AccountType != nil ||
		p.CustomerName != nil ||
		p.DocumentType != nil ||
		p.DocumentNumber != nil ||
		p.Phone != nil ||
		p.Email != nil ||
		p.Address != nil
}
