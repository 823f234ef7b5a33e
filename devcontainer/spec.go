// Package devcontainer compiles a repository's declarative dev-environment
// descriptor (devcontainer.json) into the normalized artifact set consumed
// by the image build pipeline and the feature installer.
//
// devcontainer.json officially supports JSONC, so raw bytes are passed
// through github.com/tidwall/jsonc before parsing with encoding/json.
// Missing or malformed fields degrade to absent; compilation never fails.
package devcontainer

import "encoding/json"

// Spec is the normalized dev-environment specification extracted from a
// repository descriptor. Every field is independently optional: the zero
// value is the minimal valid spec ("no descriptor" is not an error).
type Spec struct {
	// Extensions lists editor extension identifiers in descriptor order.
	Extensions []string
	// Settings is the opaque editor settings document.
	Settings json.RawMessage
	// Features is the raw feature map (feature id -> option map). It is
	// handed to the feature installer as-is; typed parsing lives there.
	Features json.RawMessage
	// ForwardPorts lists container ports to forward.
	ForwardPorts []int
	// Customizations is the opaque tool-customization block.
	Customizations json.RawMessage
	// ContainerEnv and RemoteEnv are flattened KEY=VALUE lines, sorted by
	// key so compilation is deterministic.
	ContainerEnv []string
	RemoteEnv    []string
	// RemoteUser and ContainerUser are the effective user identities.
	RemoteUser    string
	ContainerUser string
	// PostCreateCommand and PostStartCommand are lifecycle hook commands.
	PostCreateCommand string
	PostStartCommand  string
}

// IsMinimal reports whether the spec carries no extracted content, i.e. the
// repository had no usable descriptor.
func (s *Spec) IsMinimal() bool {
	return len(s.Extensions) == 0 &&
		len(s.Settings) == 0 &&
		len(s.Features) == 0 &&
		len(s.ForwardPorts) == 0 &&
		len(s.Customizations) == 0 &&
		len(s.ContainerEnv) == 0 &&
		len(s.RemoteEnv) == 0 &&
		s.RemoteUser == "" &&
		s.ContainerUser == "" &&
		s.PostCreateCommand == "" &&
		s.PostStartCommand == ""
}
