package bank

import "context"

// AccountAPI is the set of external services the account aggregate depends
// on. Implementations talk to the ATM network and the check validation
// system; tests substitute canned responses.
type AccountAPI interface {
	// AtmWithdrawal requests a cash disbursement from the given ATM.
	// A non-nil error means the ATM refused the withdrawal.
	AtmWithdrawal(ctx context.Context, atmID string, amount float64) error

	// ValidateCheck verifies a check number against the account.
	// A non-nil error means the check is not acceptable.
	ValidateCheck(ctx context.Context, accountID, checkNumber string) error
}

// HappyPathServices approves every ATM withdrawal and every check.
// Useful for demos and as the default when no real services are wired.
type HappyPathServices struct{}

func (HappyPathServices) AtmWithdrawal(ctx context.Context, atmID string, amount float64) error {
	return nil
}

func (HappyPathServices) ValidateCheck(ctx context.Context, accountID, checkNumber string) error {
	return nil
}
