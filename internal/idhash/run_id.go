// Package idhash computes deterministic identifiers for archived runs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(name|source_dir|loaded_at)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(name, sourceDir string, loadedAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", name, sourceDir, loadedAt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
