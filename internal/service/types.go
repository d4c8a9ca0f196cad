package service

// AccountInput carries the caller-supplied fields for creating an account.
// Balance is optional and defaults to zero.
type AccountInput struct {
	AccountNumber  string
	AccountType    string
	CustomerName   string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Address        string
	Balance        *float64
}

// AccountPatchInput carries the caller-supplied fields for a sparse update.
// A nil field means "leave unchanged"; Amount is a signed balance delta.
type AccountPatchInput struct {
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
