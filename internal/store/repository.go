package store

import (
	"context"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Repositories are implemented by the Firestore stores in this package and
// by the SQLite stores in store/sqlite. Get methods return
// *errs.NotFoundError for missing rows; Find methods return "" instead.

type AccountRepository interface {
	// Insert is a no-op on a known fingerprint and returns the existing id.
	Insert(ctx context.Context, a *models.Account) (id string, created bool, err error)
	Get(ctx context.Context, accountID string) (*models.Account, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*models.Account, error)
	FindIDByFingerprint(ctx context.Context, fingerprint string) (string, error)
	List(ctx context.Context) ([]*models.Account, error)
	ListByConnection(ctx context.Context, connectionID string) ([]*models.Account, error)
	// Delete removes the account with its transactions and their links.
	Delete(ctx context.Context, accountID string) error
}

type TransactionRepository interface {
	// Insert is a no-op when the fingerprint or external id is already
	// stored and returns the existing id.
	Insert(ctx context.Context, t *models.Transaction) (id string, created bool, err error)
	FindID(ctx context.Context, fingerprint, externalID string) (string, error)
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error)
	UpdateNote(ctx context.Context, transactionID, note string) error
	// Delete removes the transaction and its budget links.
	Delete(ctx context.Context, transactionID string) error
}

type BudgetRepository interface {
	Create(ctx context.Context, b *models.Budget) (string, error)
	Get(ctx context.Context, budgetID string) (*models.Budget, error)
	ListRange(ctx context.Context, start, end time.Time) ([]*models.Budget, error)
	// Update writes every mutable field of the row.
	Update(ctx context.Context, b *models.Budget) error
	// Delete removes the budget and its transaction and tag links.
	Delete(ctx context.Context, budgetID string) error

	Link(ctx context.Context, budgetID, transactionID string) error
	Unlink(ctx context.Context, budgetID, transactionID string) (bool, error)
	FindBudgetIDForTransaction(ctx context.Context, transactionID string) (string, error)
	LinkedTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error)
}

type TagRepository interface {
	Create(ctx context.Context, t *models.Tag) (string, error)
	Get(ctx context.Context, tagID string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Rename(ctx context.Context, tagID, name string) error
	// Delete removes the tag and its budget links.
	Delete(ctx context.Context, tagID string) error

	LinkBudget(ctx context.Context, budgetID, tagID string) error
	UnlinkBudget(ctx context.Context, budgetID, tagID string) (bool, error)
	ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error)
}

type ConnectionRepository interface {
	Create(ctx context.Context, c *models.Connection) (string, error)
	Get(ctx context.Context, connectionID string) (*models.Connection, error)
	List(ctx context.Context) ([]*models.Connection, error)
	SetCursor(ctx context.Context, connectionID, cursor string, syncedAt time.Time) error
}

// TokenVault keeps aggregator access tokens. Seal returns the value to be
// written on the Connection row; Open recovers the token from that value.
type TokenVault interface {
	Seal(ctx context.Context, itemID, token string) (string, error)
	Open(ctx context.Context, itemID, sealed string) (string, error)
}

// Repositories groups one backend's implementations.
type Repositories struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Budgets      BudgetRepository
	Tags         TagRepository
	Connections  ConnectionRepository
	Close        func() error
}
