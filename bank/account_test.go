package bank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liamwh/veloxide"
	"github.com/liamwh/veloxide/testing/bdd"
)

// failingServices rejects every external call, for testing the service
// dependent paths.
type failingServices struct {
	atmErr   error
	checkErr error
}

func (s failingServices) AtmWithdrawal(ctx context.Context, atmID string, amount float64) error {
	return s.atmErr
}

func (s failingServices) ValidateCheck(ctx context.Context, accountID, checkNumber string) error {
	return s.checkErr
}

func TestOpenAccount(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{})).
		When(OpenAccount{AccountID: "A1"}).
		Then(&AccountOpened{AccountID: "A1"})
}

func TestOpenAccount_AlreadyOpen(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
	).
		When(OpenAccount{AccountID: "A1"}).
		ThenError(ErrAccountAlreadyOpen)
}

func TestDepositMoney(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
	).
		When(DepositMoney{Amount: 200}).
		Then(&CustomerDepositedMoney{Amount: 200, Balance: 200})
}

func TestDepositMoney_AccumulatesBalance(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 200, Balance: 200},
	).
		When(DepositMoney{Amount: 50}).
		Then(&CustomerDepositedMoney{Amount: 50, Balance: 250})
}

func TestDepositMoney_BeforeOpenIsAccepted(t *testing.T) {
	// Deposits do not require an opened account; the event stream alone
	// defines the account's existence.
	bdd.Given(t, NewAccount(HappyPathServices{})).
		When(DepositMoney{Amount: 100}).
		Then(&CustomerDepositedMoney{Amount: 100, Balance: 100})
}

func TestDepositMoney_NegativeAmount(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
	).
		When(DepositMoney{Amount: -1}).
		ThenError(ErrCannotDepositNegativeAmount)
}

func TestWithdrawMoney(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 200, Balance: 200},
	).
		When(WithdrawMoney{Amount: 100, AtmID: "atm-1"}).
		Then(&CustomerWithdrewCash{Amount: 100, Balance: 100})
}

func TestWithdrawMoney_InsufficientFunds(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 50, Balance: 50},
	).
		When(WithdrawMoney{Amount: 100, AtmID: "atm-1"}).
		ThenError(ErrInsufficientFunds)
}

func TestWithdrawMoney_ZeroBalance(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{})).
		When(WithdrawMoney{Amount: 50, AtmID: "atm-1"}).
		ThenError(ErrInsufficientFunds)
}

func TestWithdrawMoney_NegativeAmount(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
	).
		When(WithdrawMoney{Amount: -1, AtmID: "atm-1"}).
		ThenError(ErrCannotWithdrawNegativeAmount)
}

func TestWithdrawMoney_AtmRefuses(t *testing.T) {
	bdd.Given(t, NewAccount(failingServices{atmErr: errors.New("atm offline")}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 200, Balance: 200},
	).
		When(WithdrawMoney{Amount: 100, AtmID: "atm-1"}).
		ThenError(ErrAtmRuleViolation)
}

func TestWriteCheck(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 200, Balance: 200},
	).
		When(WriteCheck{CheckNumber: "1170", Amount: 100}).
		Then(&CustomerWroteCheck{CheckNumber: "1170", Amount: 100, Balance: 100})
}

func TestWriteCheck_InsufficientFunds(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 50, Balance: 50},
	).
		When(WriteCheck{CheckNumber: "1170", Amount: 100}).
		ThenError(ErrInsufficientFunds)
}

func TestWriteCheck_NegativeAmount(t *testing.T) {
	bdd.Given(t, NewAccount(HappyPathServices{}),
		&AccountOpened{AccountID: "A1"},
	).
		When(WriteCheck{CheckNumber: "1170", Amount: -1}).
		ThenError(ErrCannotWriteNegativeCheckAmount)
}

func TestWriteCheck_ValidationFails(t *testing.T) {
	bdd.Given(t, NewAccount(failingServices{checkErr: errors.New("check reported stolen")}),
		&AccountOpened{AccountID: "A1"},
		&CustomerDepositedMoney{Amount: 200, Balance: 200},
	).
		When(WriteCheck{CheckNumber: "1170", Amount: 100}).
		ThenError(ErrInvalidCheck)
}

func TestAccount_UnknownCommand(t *testing.T) {
	account := NewAccount(HappyPathServices{})
	_, err := account.Handle(context.Background(), unknownCommand{})
	assert.ErrorIs(t, err, veloxide.ErrUnknownCommand)
}

type unknownCommand struct{}

func (unknownCommand) CommandType() string { return "Bogus" }
func (unknownCommand) Validate() error     { return nil }

func TestCommandValidation(t *testing.T) {
	assert.ErrorIs(t, OpenAccount{}.Validate(), veloxide.ErrValidationFailed)
	assert.NoError(t, OpenAccount{AccountID: "A1"}.Validate())

	assert.NoError(t, DepositMoney{Amount: 10}.Validate())

	assert.ErrorIs(t, WithdrawMoney{Amount: 10}.Validate(), veloxide.ErrValidationFailed)
	assert.NoError(t, WithdrawMoney{Amount: 10, AtmID: "atm-1"}.Validate())

	assert.ErrorIs(t, WriteCheck{Amount: 10}.Validate(), veloxide.ErrValidationFailed)
	assert.NoError(t, WriteCheck{Amount: 10, CheckNumber: "1170"}.Validate())
}

func TestAccount_Apply(t *testing.T) {
	account := NewAccount(HappyPathServices{})

	account.Apply(&AccountOpened{AccountID: "A1"})
	account.Apply(&CustomerDepositedMoney{Amount: 200, Balance: 200})
	account.Apply(&CustomerWithdrewCash{Amount: 50, Balance: 150})
	account.Apply(&CustomerWroteCheck{CheckNumber: "1170", Amount: 100, Balance: 50})

	assert.Equal(t, "A1", account.AccountID)
	assert.Equal(t, 50.0, account.Balance)
}
