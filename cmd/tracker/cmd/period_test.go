package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/period"
)

func TestPeriodCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"period", "--month", "0", "--year", "2025"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	var p period.Context
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if p.Month != 12 || p.Year != 2024 || p.PrevMonth != 11 || p.NextMonth != 13 {
		t.Fatalf("unexpected period: %+v", p)
	}
}

func TestImportRequiresFile(t *testing.T) {
	rootCmd.SetArgs([]string{"import"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error without a file argument")
	}
}
