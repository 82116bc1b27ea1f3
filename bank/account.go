// Package bank implements a bank account aggregate with deposits, ATM
// withdrawals and check writing, together with its read-side view.
package bank

import (
	"context"
	"fmt"

	"github.com/liamwh/veloxide"
)

// AggregateType is the stream category under which account events are stored.
const AggregateType = "account"

// Account is the bank account aggregate. Handle decides, Apply folds;
// neither touches storage.
type Account struct {
	AccountID string
	Balance   float64
	opened    bool

	services AccountAPI
}

// NewAccount returns a fresh account aggregate backed by the given external
// services.
func NewAccount(services AccountAPI) *Account {
	return &Account{services: services}
}

// NewAccountFactory returns an aggregate factory that injects the given
// services into every rehydrated instance.
func NewAccountFactory(services AccountAPI) veloxide.AggregateFactory {
	return func() veloxide.Aggregate {
		return NewAccount(services)
	}
}

func (a *Account) AggregateType() string { return AggregateType }

// Handle validates a command against current state and returns the events
// to record. It never mutates the account.
func (a *Account) Handle(ctx context.Context, cmd veloxide.Command) ([]veloxide.DomainEvent, error) {
	switch c := cmd.(type) {
	case OpenAccount:
		if a.opened {
			return nil, ErrAccountAlreadyOpen
		}
		return []veloxide.DomainEvent{
			&AccountOpened{AccountID: c.AccountID},
		}, nil

	case DepositMoney:
		if c.Amount < 0 {
			return nil, ErrCannotDepositNegativeAmount
		}
		return []veloxide.DomainEvent{
			&CustomerDepositedMoney{Amount: c.Amount, Balance: a.Balance + c.Amount},
		}, nil

	case WithdrawMoney:
		if c.Amount < 0 {
			return nil, ErrCannotWithdrawNegativeAmount
		}
		balance := a.Balance - c.Amount
		if balance < 0 {
			return nil, ErrInsufficientFunds
		}
		if err := a.services.AtmWithdrawal(ctx, c.AtmID, c.Amount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAtmRuleViolation, err)
		}
		return []veloxide.DomainEvent{
			&CustomerWithdrewCash{Amount: c.Amount, Balance: balance},
		}, nil

	case WriteCheck:
		if c.Amount < 0 {
			return nil, ErrCannotWriteNegativeCheckAmount
		}
		balance := a.Balance - c.Amount
		if balance < 0 {
			return nil, ErrInsufficientFunds
		}
		if err := a.services.ValidateCheck(ctx, a.AccountID, c.CheckNumber); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCheck, err)
		}
		return []veloxide.DomainEvent{
			&CustomerWroteCheck{CheckNumber: c.CheckNumber, Amount: c.Amount, Balance: balance},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", veloxide.ErrUnknownCommand, cmd.CommandType())
	}
}

// Apply folds a recorded event into the account state. It must not fail:
// events in the log are facts.
func (a *Account) Apply(event veloxide.DomainEvent) {
	switch e := event.(type) {
	case *AccountOpened:
		a.AccountID = e.AccountID
		a.opened = true
	case *CustomerDepositedMoney:
		a.Balance = e.Balance
	case *CustomerWithdrewCash:
		a.Balance = e.Balance
	case *CustomerWroteCheck:
		a.Balance = e.Balance
	}
}
