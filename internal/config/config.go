package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"

	VaultStore         = "store"
	VaultSecretManager = "secretmanager"
)

type Config struct {
	ProjectID             string
	LogLevel              string
	Port                  string
	StoreBackend          string
	SQLitePath            string
	PlaidClientID         string
	PlaidSecret           string
	PlaidEnvironment      dto.PlaidEnvironment
	KMSKeyName            string
	TokenVault            string
	SyncMaxPages          int
	CardIssuerAccountName string
	ImportProfile         string
}

// Load reads envPath when given, otherwise a .env in the working directory
// if one exists, and then the process environment.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	maxPages, err := intEnv("SYNCMAXPAGES", 100)
	if err != nil {
		return nil, err
	}

	return &Config{
		ProjectID:             os.Getenv("PROJECTID"),
		LogLevel:              os.Getenv("LOGLEVEL"),
		Port:                  envOr("PORT", "8080"),
		StoreBackend:          strings.ToLower(envOr("STOREBACKEND", BackendSQLite)),
		SQLitePath:            envOr("SQLITEPATH", "finance.db"),
		PlaidClientID:         os.Getenv("PLAIDCLIENTID"),
		PlaidSecret:           os.Getenv("PLAIDSECRET"),
		PlaidEnvironment:      getPlaidEnvironment(os.Getenv("PLAIDENVIRONMENT")),
		KMSKeyName:            os.Getenv("KMSKEYNAME"),
		TokenVault:            strings.ToLower(envOr("TOKENVAULT", VaultStore)),
		SyncMaxPages:          maxPages,
		CardIssuerAccountName: envOr("CARDISSUERACCOUNTNAME", "Apple Card"),
		ImportProfile:         os.Getenv("IMPORTPROFILE"),
	}, nil
}

// Validate reports every missing or inconsistent key at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.StoreBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITEPATH is required for the sqlite backend")
		}
	case BackendFirestore:
		if c.ProjectID == "" {
			problems = append(problems, "PROJECTID is required for the firestore backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("STOREBACKEND %q is not one of sqlite, firestore", c.StoreBackend))
	}

	switch c.TokenVault {
	case VaultStore:
	case VaultSecretManager:
		if c.ProjectID == "" {
			problems = append(problems, "PROJECTID is required for the secretmanager token vault")
		}
	default:
		problems = append(problems, fmt.Sprintf("TOKENVAULT %q is not one of store, secretmanager", c.TokenVault))
	}

	if c.PlaidClientID == "" {
		problems = append(problems, "PLAIDCLIENTID is required")
	}
	if c.PlaidSecret == "" {
		problems = append(problems, "PLAIDSECRET is required")
	}
	if c.SyncMaxPages <= 0 {
		problems = append(problems, "SYNCMAXPAGES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch env {
	case "sandbox":
		return dto.PlaidSandbox
	case "development":
		return dto.PlaidDevelopment
	default: // "production"
		return dto.PlaidProduction
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, raw)
	}
	return v, nil
}
