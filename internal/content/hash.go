package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
)

// ComputeSetHash computes a deterministic hash over every post and asset in res.
// Any added, removed, renamed or edited file changes the hash.
func ComputeSetHash(res *Result) (string, error) {
	type entry struct {
		key  string
		hash string
	}

	entries := make([]entry, 0, len(res.Documents)+len(res.Assets))
	for _, doc := range res.Documents {
		sum := sha256.Sum256(doc.Raw)
		entries = append(entries, entry{key: "post|" + doc.Root + "|" + doc.RelativePath, hash: hex.EncodeToString(sum[:])})
	}
	for _, asset := range res.Assets {
		data, err := os.ReadFile(asset.Path)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrFileReadFailed, asset.Path, err)
		}
		sum := sha256.Sum256(data)
		entries = append(entries, entry{key: "asset|" + asset.Root + "|" + asset.RelativePath, hash: hex.EncodeToString(sum[:])})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	h := sha256.New()
	if len(entries) == 0 {
		h.Write([]byte("empty-content-set"))
	}
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%s\n", e.key, e.hash)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
