package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/workbenchhq/workbench/store"
)

// Normalize canonicalizes a raw query: trim, lowercase, collapse internal
// whitespace runs to single spaces. Queries differing only by case or
// whitespace normalize identically and therefore share a cache key.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Hash returns the SHA-256 hex digest of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// itemIdentity is the per-item record folded into the context fingerprint.
// Content is intentionally excluded: the fingerprint tracks which items were
// retrieved and how fresh they are, so an updated document or alert changes
// the fingerprint and bypasses a stale cache entry.
type itemIdentity struct {
	ID        string  `json:"id"`
	UpdatedTs int64   `json:"updatedTs"`
	Score     float32 `json:"score,omitempty"`
}

// ContextFingerprint hashes a canonical JSON serialization of the retrieved
// item identity set plus the alert identity set.
func ContextFingerprint(items []*RetrievedItem, alerts []*store.Alert) string {
	identities := struct {
		Items  []itemIdentity `json:"items"`
		Alerts []itemIdentity `json:"alerts"`
	}{
		Items:  []itemIdentity{},
		Alerts: []itemIdentity{},
	}

	for _, item := range items {
		identities.Items = append(identities.Items, itemIdentity{
			ID:        item.UID,
			UpdatedTs: item.UpdatedTs,
			Score:     item.Score,
		})
	}
	for _, alert := range alerts {
		identities.Alerts = append(identities.Alerts, itemIdentity{
			ID:        alert.UID,
			UpdatedTs: alert.UpdatedTs,
		})
	}

	// Marshal cannot fail on this shape.
	serialized, _ := json.Marshal(identities)
	return Hash(string(serialized))
}
