package bank

import "github.com/liamwh/veloxide"

// ViewName is the name under which account views are persisted.
const ViewName = "account_view"

// AccountTransaction is a single ledger line in the account view.
type AccountTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// AccountView is the read-side materialization of an account: current
// balance, written checks and a human-readable ledger.
type AccountView struct {
	AccountID           string               `json:"account_id"`
	Balance             float64              `json:"balance"`
	WrittenChecks       []string             `json:"written_checks"`
	AccountTransactions []AccountTransaction `json:"account_transactions"`
}

// Update applies a committed event envelope to the view.
func (v *AccountView) Update(env veloxide.Envelope) {
	switch e := env.Payload.(type) {
	case *AccountOpened:
		v.AccountID = e.AccountID

	case *CustomerDepositedMoney:
		v.Balance = e.Balance
		v.AccountTransactions = append(v.AccountTransactions, AccountTransaction{
			Description: "deposit",
			Amount:      e.Amount,
		})

	case *CustomerWithdrewCash:
		v.Balance = e.Balance
		v.AccountTransactions = append(v.AccountTransactions, AccountTransaction{
			Description: "atm withdrawal",
			Amount:      e.Amount,
		})

	case *CustomerWroteCheck:
		v.Balance = e.Balance
		v.WrittenChecks = append(v.WrittenChecks, e.CheckNumber)
		v.AccountTransactions = append(v.AccountTransactions, AccountTransaction{
			Description: e.CheckNumber,
			Amount:      e.Amount,
		})
	}
}
