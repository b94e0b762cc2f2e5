package repomanager

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
)

// MongoRepositoryManager keeps accounts in a MongoDB database.
type MongoRepositoryManager struct {
	client   *mongo.Client
	accounts *accounts.MongoRepository
}

// NewMongoRepositoryManager creates a client for uri. The driver connects
// lazily, so an unreachable server surfaces on the first operation
// (normally RunMigrations).
func NewMongoRepositoryManager(_ context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &MongoRepositoryManager{
		client:   client,
		accounts: accounts.NewMongoRepository(client.Database(database)),
	}, nil
}

// RunMigrations creates the unique email index.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.accounts.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
