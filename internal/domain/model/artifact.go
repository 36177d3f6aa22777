package model

import (
	"fmt"
	"strings"
)

// ArtifactKey maps an artifact name and environment to the object key holding
// its content. Pure and deterministic; the environment prefix keeps dev and
// prod namespaces disjoint, which the promotion flow relies on because it
// touches both at once.
func ArtifactKey(name string, env Environment) string {
	return string(env) + "/" + name + ".txt"
}

// LockKey returns the key of the advisory lock object guarding key.
func LockKey(key string) string {
	return key + ".lock"
}

// ValidateArtifactName rejects names that would escape the staging directory
// or the per-environment key prefix.
func ValidateArtifactName(name string) error {
	if name == "" {
		return fmt.Errorf("artifact name is empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}
