package crypto

import (
	"context"
	"encoding/base64"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

// kmsClient is the subset of *kms.KeyManagementClient used here.
type kmsClient interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

// kms is a token vault that stores access tokens on the Connection row as
// base64 KMS ciphertext.
type kms struct {
	client  kmsClient
	keyName string
}

func NewKMS(client kmsClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Seal encrypts the token with the configured key and returns base64 text.
func (k *kms) Seal(ctx context.Context, _ string, token string) (string, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(token),
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to encrypt access token", err)
	}
	return base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

// Open decrypts base64 ciphertext produced by Seal.
func (k *kms) Open(ctx context.Context, _ string, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errs.NewEncryptionError("access token is not valid base64", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to decrypt access token", err)
	}
	return string(resp.Plaintext), nil
}

type plain struct{}

// NewPlain keeps tokens as-is. It is meant for local SQLite deployments
// where no key is configured.
func NewPlain() *plain {
	return &plain{}
}

func (plain) Seal(_ context.Context, _ string, token string) (string, error) { return token, nil }

func (plain) Open(_ context.Context, _ string, sealed string) (string, error) { return sealed, nil }
