package store

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

// Secrets path
// projects/{project}/secrets/plaid-access-token-{itemID}/versions/{version}

// plaidSecretsStore is a TokenVault that keeps tokens in Secret Manager and
// leaves nothing on the Connection row.
type plaidSecretsStore struct {
	client    *secretmanager.Client
	projectID string
	prefix    string
}

func NewPlaidSecretsStore(client *secretmanager.Client, projectID string) *plaidSecretsStore {
	return &plaidSecretsStore{
		client:    client,
		projectID: projectID,
		prefix:    "plaid-access-token",
	}
}

func (s *plaidSecretsStore) secretID(itemID string) string {
	return fmt.Sprintf("%s-%s", s.prefix, itemID)
}

func (s *plaidSecretsStore) secretName(itemID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, s.secretID(itemID))
}

func (s *plaidSecretsStore) ensureSecret(ctx context.Context, itemID string) error {
	name := s.secretName(itemID)
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: name})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: s.secretID(itemID),
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

func (s *plaidSecretsStore) Seal(ctx context.Context, itemID, token string) (string, error) {
	if err := s.ensureSecret(ctx, itemID); err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to create secret", false, err)
	}
	_, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: s.secretName(itemID),
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(token),
		},
	})
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to store token", false, err)
	}
	return "", nil
}

func (s *plaidSecretsStore) Open(ctx context.Context, itemID, _ string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName(itemID)),
	})
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to read token", false, err)
	}
	return string(res.Payload.Data), nil
}
