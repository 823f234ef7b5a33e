// Package naming centralizes generation of workspace identifiers: namespace
// names, random subdomains and access passwords, build timestamps and image
// destination tags. Keeping the logic here allows future changes
// (length/alphabet/format) without touching call sites.
package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// SubdomainLength is the length of generated workspace subdomains.
	SubdomainLength = 8
	// PasswordLength is the length of generated access passwords.
	PasswordLength = 12

	subdomainAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ImageRole identifies which of the two chained builds a destination tag
// belongs to.
type ImageRole string

const (
	// RoleBase is the user-derived base image built from the repository's
	// devcontainer build directory.
	RoleBase ImageRole = "base"
	// RoleWrapper is the runtime image layered on top of the base image.
	RoleWrapper ImageRole = "wrapper"
)

// NamespaceName returns the namespace scoping all resources of a workspace.
// Embedding the workspace ID makes namespace names collision-free as long as
// workspace IDs are unique.
func NamespaceName(workspaceID string) string {
	return "workspace-" + workspaceID
}

// Subdomain returns a random lowercase alphanumeric subdomain of
// SubdomainLength characters. 36^8 values make collisions across
// concurrently provisioned workspaces overwhelmingly unlikely; uniqueness is
// not enforced here.
func Subdomain() string {
	return randomString(subdomainAlphabet, SubdomainLength)
}

// FQDN joins a subdomain with the workspace domain suffix.
func FQDN(subdomain, domain string) string {
	return subdomain + "." + domain
}

// Password returns a random mixed-case alphanumeric access password.
func Password() string {
	return randomString(passwordAlphabet, PasswordLength)
}

// BuildTimestamp formats t as the compact UTC timestamp embedded in image
// destination tags.
func BuildTimestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// ImageTag returns the destination tag for a build. The tag is a pure
// function of (registry, repository, role, namespace, timestamp) so the base
// and wrapper artifacts of one provisioning run always reference the same
// namespace/timestamp pair.
func ImageTag(registry, repository string, role ImageRole, namespace, timestamp string) string {
	return fmt.Sprintf("%s/%s:%s-%s-%s", registry, repository, role, namespace, timestamp)
}

func randomString(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform RNG is broken;
			// nothing sensible to do but stop.
			panic(fmt.Sprintf("naming: read random: %v", err))
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b)
}
