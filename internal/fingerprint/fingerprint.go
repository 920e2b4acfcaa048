// Package fingerprint derives the content hashes used as natural keys for
// accounts and transactions.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Fingerprint hashes the ordered parts. Each part is length prefixed so
// ("a", "bc") and ("ab", "c") never produce the same input.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
		h.Write([]byte{';'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Normalize trims, lowercases and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Account identifies an aggregator account across re-links.
func Account(institutionID, displayName, subtype, mask string) string {
	return Fingerprint(institutionID, displayName, subtype, mask)
}

// Transaction identifies one real-world event. amountCents is the stored
// magnitude and occurredAt is hashed in UTC.
func Transaction(name string, amountCents int64, direction string, occurredAt time.Time) string {
	return Fingerprint(
		name,
		strconv.FormatInt(amountCents, 10),
		direction,
		occurredAt.UTC().Format(time.RFC3339),
	)
}

// ImportedAccount keys accounts created from delimited files by name alone,
// so repeated imports of the same account name always land on one row.
func ImportedAccount(name string) string {
	return Fingerprint("import", Normalize(name))
}

// CardIssuerAccount keys the single card-issuer account by its fixed name.
func CardIssuerAccount(name string) string {
	return Fingerprint("card_issuer", Normalize(name))
}
