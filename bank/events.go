package bank

import "github.com/liamwh/veloxide"

// AccountOpened records that a new account was opened.
type AccountOpened struct {
	AccountID string `json:"account_id"`
}

func (e *AccountOpened) EventType() string    { return "AccountOpened" }
func (e *AccountOpened) EventVersion() string { return "1.0" }

// CustomerDepositedMoney records a deposit. The resulting balance is
// embedded so projections can fold state without replaying the full stream.
type CustomerDepositedMoney struct {
	Amount  float64 `json:"amount"`
	Balance float64 `json:"balance"`
}

func (e *CustomerDepositedMoney) EventType() string    { return "CustomerDepositedMoney" }
func (e *CustomerDepositedMoney) EventVersion() string { return "1.0" }

// CustomerWithdrewCash records an ATM withdrawal.
type CustomerWithdrewCash struct {
	Amount  float64 `json:"amount"`
	Balance float64 `json:"balance"`
}

func (e *CustomerWithdrewCash) EventType() string    { return "CustomerWithdrewCash" }
func (e *CustomerWithdrewCash) EventVersion() string { return "1.0" }

// CustomerWroteCheck records a validated check written against the account.
type CustomerWroteCheck struct {
	CheckNumber string  `json:"check_number"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
}

func (e *CustomerWroteCheck) EventType() string    { return "CustomerWroteCheck" }
func (e *CustomerWroteCheck) EventVersion() string { return "1.0" }

// RegisterEvents registers all bank account event types with the registry.
func RegisterEvents(r *veloxide.EventRegistry) {
	r.Register(
		func() veloxide.DomainEvent { return &AccountOpened{} },
		func() veloxide.DomainEvent { return &CustomerDepositedMoney{} },
		func() veloxide.DomainEvent { return &CustomerWithdrewCash{} },
		func() veloxide.DomainEvent { return &CustomerWroteCheck{} },
	)
}
