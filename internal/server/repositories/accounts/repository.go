// Package accounts persists account records. Implementations exist for
// PostgreSQL and SQLite (sql.go) and for MongoDB (mongo.go).
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository is the account store. Lookups that match nothing return
// common.ErrorNotFound; inserting an email that already exists returns
// common.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateNames(ctx context.Context, id, firstName, lastName string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}
