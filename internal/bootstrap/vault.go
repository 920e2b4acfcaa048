package bootstrap

import (
	"context"

	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/crypto"
	"github.com/GregMSThompson/finance-tracker/internal/store"
)

func InitKMS(ctx context.Context) (*kms.KeyManagementClient, error) {
	return kms.NewKeyManagementClient(ctx)
}

func InitSecretManager(ctx context.Context) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx)
}

// initVault picks where aggregator access tokens live: Secret Manager, KMS
// ciphertext on the connection row, or the raw token when no key is set.
func (bs *Bootstrap) initVault(ctx context.Context, cfg *config.Config) error {
	switch {
	case cfg.TokenVault == config.VaultSecretManager:
		client, err := InitSecretManager(ctx)
		if err != nil {
			return err
		}
		bs.closers = append(bs.closers, client.Close)
		bs.Vault = store.NewPlaidSecretsStore(client, cfg.ProjectID)

	case cfg.KMSKeyName != "":
		client, err := InitKMS(ctx)
		if err != nil {
			return err
		}
		bs.closers = append(bs.closers, client.Close)
		bs.Vault = crypto.NewKMS(client, cfg.KMSKeyName)

	default:
		bs.Log.Warn("no KMS key configured, access tokens are stored unencrypted")
		bs.Vault = crypto.NewPlain()
	}
	return nil
}
