package naming

import (
	"strings"
	"testing"
	"time"
)

func TestSubdomainFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := Subdomain()
		if len(s) != SubdomainLength {
			t.Fatalf("subdomain %q: want length %d", s, SubdomainLength)
		}
		for _, r := range s {
			if !strings.ContainsRune(subdomainAlphabet, r) {
				t.Fatalf("subdomain %q contains %q outside alphabet", s, r)
			}
		}
	}
}

func TestSubdomainNoCollisions(t *testing.T) {
	// 10k draws from 36^8 values; a collision here indicates a broken RNG
	// rather than bad luck (expected collisions ~ 1.8e-5).
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		s := Subdomain()
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate subdomain after %d draws: %s", i, s)
		}
		seen[s] = struct{}{}
	}
}

func TestPasswordFormat(t *testing.T) {
	p := Password()
	if len(p) != PasswordLength {
		t.Fatalf("password %q: want length %d", p, PasswordLength)
	}
	for _, r := range p {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("password contains %q outside alphabet", r)
		}
	}
}

func TestNamespaceName(t *testing.T) {
	if got := NamespaceName("abc123"); got != "workspace-abc123" {
		t.Fatalf("NamespaceName = %q", got)
	}
}

func TestImageTagReferentialConsistency(t *testing.T) {
	ts := BuildTimestamp(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	if ts != "20260314092653" {
		t.Fatalf("BuildTimestamp = %q", ts)
	}
	base := ImageTag("registry.podspace-system.svc.cluster.local:5000", "workspace-images", RoleBase, "workspace-w1", ts)
	wrapper := ImageTag("registry.podspace-system.svc.cluster.local:5000", "workspace-images", RoleWrapper, "workspace-w1", ts)
	if base != "registry.podspace-system.svc.cluster.local:5000/workspace-images:base-workspace-w1-20260314092653" {
		t.Fatalf("base tag = %q", base)
	}
	// Both tags must embed the same namespace/timestamp pair.
	wantSuffix := "workspace-w1-20260314092653"
	if !strings.HasSuffix(base, wantSuffix) || !strings.HasSuffix(wrapper, wantSuffix) {
		t.Fatalf("tags do not share namespace/timestamp: %q vs %q", base, wrapper)
	}
}
