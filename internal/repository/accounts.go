package repository

import (
	"context"
	"database/sql"

	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/model"
)

// AccountSelect selects account columns in the order the account mapper
// expects.
const AccountSelect = `SELECT acc_id, acc_user, acc_pass FROM accounts`

// Accounts stores model.Account rows.
type Accounts struct {
	*sqlRepository[model.Account]
}

var _ Repository[model.Account, int64] = (*Accounts)(nil)

// NewAccounts returns an account repository on session.
func NewAccounts(session *db.Session) *Accounts {
	return &Accounts{newSQLRepository(session, table[model.Account]{
		name:     model.AccountsTable,
		idColumn: model.AccountIDCol,
		columns:  []string{model.AccountUserCol, model.AccountPassCol},
		scan:     scanAccount,
		values: func(a *model.Account) []any {
			return []any{nullIfEmpty(a.Username), nullIfEmpty(a.Password)}
		},
		id:    func(a *model.Account) int64 { return a.ID },
		setID: func(a *model.Account, id int64) { a.ID = id },
	})}
}

func scanAccount(row db.Scanner) (model.Account, error) {
	var (
		a    model.Account
		pass sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Username, &pass); err != nil {
		return a, err
	}
	a.Password = pass.String
	return a, nil
}

// FindByUsername returns the account with the given username, or nil.
func (r *Accounts) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.Query(ctx, AccountSelect+` WHERE acc_user = ?`, username)
}
