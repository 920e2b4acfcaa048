package fingerprint

import (
	"testing"
	"time"
)

func TestFingerprint_Deterministic(t *testing.T) {
	if Fingerprint("a", "b") != Fingerprint("a", "b") {
		t.Fatal("expected same fingerprint for same parts")
	}
}

func TestFingerprint_Sensitivity(t *testing.T) {
	cases := [][2][]string{
		{{"a", "bc"}, {"ab", "c"}},
		{{"a", "b"}, {"b", "a"}},
		{{"a", ""}, {"a"}},
		{{"1:a"}, {"a"}},
		{{"a;b"}, {"a", "b"}},
	}
	for _, c := range cases {
		if Fingerprint(c[0]...) == Fingerprint(c[1]...) {
			t.Fatalf("expected %q and %q to differ", c[0], c[1])
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Chase   Checking ": "chase checking",
		"CHASE\tchecking":     "chase checking",
		"":                    "",
		"one":                 "one",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransaction_TimeZoneIndependent(t *testing.T) {
	utc := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	if Transaction("Coffee", 450, "OUT", utc) != Transaction("Coffee", 450, "OUT", est) {
		t.Fatal("expected same fingerprint for the same instant")
	}
	if Transaction("Coffee", 450, "OUT", utc) == Transaction("Coffee", 450, "IN", utc) {
		t.Fatal("expected direction to change the fingerprint")
	}
	if Transaction("Coffee", 450, "OUT", utc) == Transaction("Coffee", 451, "OUT", utc) {
		t.Fatal("expected amount to change the fingerprint")
	}
}

func TestImportedAccount_IgnoresCaseAndSpacing(t *testing.T) {
	if ImportedAccount("Chase  Checking") != ImportedAccount(" chase checking") {
		t.Fatal("expected normalized names to match")
	}
	if ImportedAccount("Chase") == CardIssuerAccount("Chase") {
		t.Fatal("expected import and card issuer schemes to differ")
	}
}

func TestAccount_FieldOrder(t *testing.T) {
	if Account("ins_1", "Checking", "checking", "0000") == Account("ins_1", "checking", "Checking", "0000") {
		t.Fatal("expected field order to matter")
	}
}
