package bank

import "errors"

// Business rule violations returned by Account.Handle. The executor wraps
// these in a CommandRejectedError; callers can still reach them through
// errors.Is.
var (
	ErrAccountAlreadyOpen             = errors.New("bank: account is already open")
	ErrCannotDepositNegativeAmount    = errors.New("bank: cannot deposit negative amount")
	ErrCannotWithdrawNegativeAmount   = errors.New("bank: cannot withdraw negative amount")
	ErrCannotWriteNegativeCheckAmount = errors.New("bank: cannot write check for negative amount")
	ErrInsufficientFunds              = errors.New("bank: insufficient funds")
	ErrInvalidCheck                   = errors.New("bank: invalid check")
	ErrAtmRuleViolation               = errors.New("bank: atm rule violation")
)
