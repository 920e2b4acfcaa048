package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type connectionStore struct {
	client *firestore.Client
}

func NewConnectionStore(client *firestore.Client) *connectionStore {
	return &connectionStore{client: client}
}

func (s *connectionStore) collection() *firestore.CollectionRef {
	return s.client.Collection(connectionsCollection)
}

func (s *connectionStore) Create(ctx context.Context, c *models.Connection) (string, error) {
	if c.ConnectionID == "" {
		c.ConnectionID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection().Doc(c.ConnectionID).Create(ctx, c); err != nil {
		return "", errs.NewDatabaseError("create connection", "failed to create connection", err)
	}
	return c.ConnectionID, nil
}

func (s *connectionStore) Get(ctx context.Context, connectionID string) (*models.Connection, error) {
	return getDoc[models.Connection](ctx, s.collection().Doc(connectionID), "connection")
}

func (s *connectionStore) List(ctx context.Context) ([]*models.Connection, error) {
	return queryDocs[models.Connection](ctx, s.collection().Query, "connections")
}

func (s *connectionStore) SetCursor(ctx context.Context, connectionID, cursor string, syncedAt time.Time) error {
	_, err := s.collection().Doc(connectionID).Update(ctx, []firestore.Update{
		{Path: "cursor", Value: cursor},
		{Path: "lastSyncAt", Value: syncedAt},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("connection not found")
	}
	if err != nil {
		return errs.NewDatabaseError("set cursor", "failed to persist cursor", err)
	}
	return nil
}
