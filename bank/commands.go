package bank

import "github.com/liamwh/veloxide"

// OpenAccount opens a new bank account.
type OpenAccount struct {
	AccountID string `json:"account_id"`
}

func (c OpenAccount) CommandType() string { return "OpenAccount" }

func (c OpenAccount) Validate() error {
	if c.AccountID == "" {
		return veloxide.NewValidationError(c.CommandType(), "account_id", "must not be empty")
	}
	return nil
}

// DepositMoney deposits funds into an account.
type DepositMoney struct {
	Amount float64 `json:"amount"`
}

func (c DepositMoney) CommandType() string { return "DepositMoney" }

func (c DepositMoney) Validate() error { return nil }

// WithdrawMoney withdraws cash from an account through an ATM.
type WithdrawMoney struct {
	Amount float64 `json:"amount"`
	AtmID  string  `json:"atm_id"`
}

func (c WithdrawMoney) CommandType() string { return "WithdrawMoney" }

func (c WithdrawMoney) Validate() error {
	if c.AtmID == "" {
		return veloxide.NewValidationError(c.CommandType(), "atm_id", "must not be empty")
	}
	return nil
}

// WriteCheck writes a check against an account.
type WriteCheck struct {
	CheckNumber string  `json:"check_number"`
	Amount      float64 `json:"amount"`
}

func (c WriteCheck) CommandType() string { return "WriteCheck" }

func (c WriteCheck) Validate() error {
	if c.CheckNumber == "" {
		return veloxide.NewValidationError(c.CommandType(), "check_number", "must not be empty")
	}
	return nil
}
