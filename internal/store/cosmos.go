package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/xiaot623/docchat/internal/domain"
)

// CosmosBackend implements Backend on Azure Cosmos DB. Messages live in a
// single container partitioned by /sessionId.
type CosmosBackend struct {
	container *azcosmos.ContainerClient
}

// Ensure CosmosBackend implements Backend interface.
var _ Backend = (*CosmosBackend)(nil)

// NewCosmosBackend connects with a connection string and verifies the
// database is reachable before handing out the backend.
func NewCosmosBackend(ctx context.Context, connectionString, database, container string) (*CosmosBackend, error) {
	client, err := azcosmos.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client: %w", err)
	}

	db, err := client.NewDatabase(database)
	if err != nil {
		return nil, fmt.Errorf("failed to open cosmos database %s: %w", database, err)
	}
	if _, err := db.Read(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to read cosmos database %s: %w", database, err)
	}

	cont, err := client.NewContainer(database, container)
	if err != nil {
		return nil, fmt.Errorf("failed to open cosmos container %s: %w", container, err)
	}

	return &CosmosBackend{container: cont}, nil
}

// SaveMessage writes one message item.
func (b *CosmosBackend) SaveMessage(ctx context.Context, msg *domain.Message) error {
	item, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	pk := azcosmos.NewPartitionKeyString(msg.SessionID)
	if _, err := b.container.CreateItem(ctx, pk, item, nil); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// RecentMessages returns at most limit messages for a session, newest
// first. TOP with ORDER BY timestamp DESC keeps the latest rows within
// the partition.
func (b *CosmosBackend) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := "SELECT TOP @limit * FROM c WHERE c.sessionId = @sessionId ORDER BY c.timestamp DESC"
	opts := &azcosmos.QueryOptions{
		QueryParameters: []azcosmos.QueryParameter{
			{Name: "@limit", Value: limit},
			{Name: "@sessionId", Value: sessionID},
		},
	}
	return b.queryMessages(ctx, query, azcosmos.NewPartitionKeyString(sessionID), opts)
}

// RecentMessagesByUser returns at most limit messages for a user, newest
// first. The user id is not the partition key, so this query fans out
// across partitions.
func (b *CosmosBackend) RecentMessagesByUser(ctx context.Context, userID string, limit int) ([]domain.Message, error) {
	query := "SELECT TOP @limit * FROM c WHERE c.userId = @userId ORDER BY c.timestamp DESC"
	opts := &azcosmos.QueryOptions{
		QueryParameters: []azcosmos.QueryParameter{
			{Name: "@limit", Value: limit},
			{Name: "@userId", Value: userID},
		},
	}
	return b.queryMessages(ctx, query, azcosmos.PartitionKey{}, opts)
}

// CountMessages returns the number of message items for a session.
func (b *CosmosBackend) CountMessages(ctx context.Context, sessionID string) (int, error) {
	query := "SELECT VALUE COUNT(1) FROM c WHERE c.sessionId = @sessionId"
	pager := b.container.NewQueryItemsPager(query, azcosmos.NewPartitionKeyString(sessionID), &azcosmos.QueryOptions{
		QueryParameters: []azcosmos.QueryParameter{
			{Name: "@sessionId", Value: sessionID},
		},
	})

	count := 0
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count messages: %w", err)
		}
		for _, item := range page.Items {
			var n int
			if err := json.Unmarshal(item, &n); err != nil {
				return 0, fmt.Errorf("failed to unmarshal count: %w", err)
			}
			count += n
		}
	}
	return count, nil
}

// Close is a no-op; the cosmos client holds no connection to release.
func (b *CosmosBackend) Close() error {
	return nil
}

func (b *CosmosBackend) queryMessages(ctx context.Context, query string, pk azcosmos.PartitionKey, opts *azcosmos.QueryOptions) ([]domain.Message, error) {
	pager := b.container.NewQueryItemsPager(query, pk, opts)

	var messages []domain.Message
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query messages: %w", err)
		}
		for _, item := range page.Items {
			var msg domain.Message
			if err := json.Unmarshal(item, &msg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, msg)
		}
	}
	return messages, nil
}
