package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PROJECTID", "LOGLEVEL", "PORT", "STOREBACKEND", "SQLITEPATH", "PLAIDCLIENTID",
		"PLAIDSECRET", "PLAIDENVIRONMENT", "KMSKEYNAME", "TOKENVAULT", "SYNCMAXPAGES",
		"CARDISSUERACCOUNTNAME", "IMPORTPROFILE",
	} {
		// Setenv registers the restore; godotenv skips keys that exist, so unset.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PLAIDCLIENTID=client\nPLAIDSECRET=secret\nPLAIDENVIRONMENT=sandbox\nSYNCMAXPAGES=7\nSTOREBACKEND=SQLite\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PlaidEnvironment != dto.PlaidSandbox || cfg.SyncMaxPages != 7 || cfg.StoreBackend != BackendSQLite {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Port != "8080" || cfg.TokenVault != VaultStore || cfg.CardIssuerAccountName != "Apple Card" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoadRejectsBadInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNCMAXPAGES", "lots")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-integer SYNCMAXPAGES")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := &Config{StoreBackend: BackendFirestore, TokenVault: VaultSecretManager, SyncMaxPages: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"PROJECTID is required for the firestore backend", "secretmanager", "PLAIDCLIENTID", "PLAIDSECRET", "SYNCMAXPAGES"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestGetPlaidEnvironment(t *testing.T) {
	cases := map[string]dto.PlaidEnvironment{
		"sandbox":     dto.PlaidSandbox,
		"development": dto.PlaidDevelopment,
		"production":  dto.PlaidProduction,
		"":            dto.PlaidProduction,
	}
	for in, want := range cases {
		if got := getPlaidEnvironment(in); got != want {
			t.Fatalf("getPlaidEnvironment(%q) = %s, want %s", in, got, want)
		}
	}
}
