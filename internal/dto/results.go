package dto

// Metadata from the transaction sync process
type SyncResult struct {
	ConnectionsSynced    int
	TransactionsFetched  int
	TransactionsInserted int
	Duplicates           int
	SkippedUnknown       int
}

type LinkResult struct {
	ConnectionID string   `json:"connectionId,omitempty"`
	NewAccounts  []string `json:"newAccounts"`
	Persisted    bool     `json:"persisted"`
}

type RecordResult struct {
	AccountID  string `json:"accountId"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

type ImportResult struct {
	Imported       int `json:"imported"`
	Duplicates     int `json:"duplicates"`
	Skipped        int `json:"skipped"`
	Assigned       int `json:"assigned"`
	AccountsOpened int `json:"accountsOpened"`
}

type CopyResult struct {
	Created []string `json:"created"`
}
