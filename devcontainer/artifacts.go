package devcontainer

import (
	"strconv"
	"strings"
)

// Artifact file names. Each extracted field is persisted as its own blob so
// downstream consumers (feature installer, wrapper builder, lifecycle
// runner) depend only on what they need. A missing artifact means "nothing
// to do" for its consumer.
const (
	ArtifactExtensions     = "extensions-list"
	ArtifactSettings       = "settings.json"
	ArtifactFeatures       = "devcontainer-features"
	ArtifactForwardPorts   = "forward-ports"
	ArtifactCustomizations = "customizations"
	ArtifactContainerEnv   = "container-env"
	ArtifactRemoteEnv      = "remote-env"
	ArtifactUserConfig     = "user-config"
	ArtifactPostCreate     = "post-create-command.sh"
	ArtifactPostStart      = "post-start-command.sh"
)

// Artifacts renders the spec as named blobs. Absent fields produce no entry.
// The result is a deterministic function of the spec.
func (s *Spec) Artifacts() map[string]string {
	out := map[string]string{}
	if len(s.Extensions) > 0 {
		out[ArtifactExtensions] = strings.Join(s.Extensions, "\n") + "\n"
	}
	if len(s.Settings) > 0 {
		out[ArtifactSettings] = string(s.Settings) + "\n"
	}
	if len(s.Features) > 0 {
		out[ArtifactFeatures] = string(s.Features) + "\n"
	}
	if len(s.ForwardPorts) > 0 {
		var b strings.Builder
		for _, p := range s.ForwardPorts {
			b.WriteString(strconv.Itoa(p))
			b.WriteByte('\n')
		}
		out[ArtifactForwardPorts] = b.String()
	}
	if len(s.Customizations) > 0 {
		out[ArtifactCustomizations] = string(s.Customizations) + "\n"
	}
	if len(s.ContainerEnv) > 0 {
		out[ArtifactContainerEnv] = strings.Join(s.ContainerEnv, "\n") + "\n"
	}
	if len(s.RemoteEnv) > 0 {
		out[ArtifactRemoteEnv] = strings.Join(s.RemoteEnv, "\n") + "\n"
	}
	if s.RemoteUser != "" || s.ContainerUser != "" {
		var b strings.Builder
		if s.RemoteUser != "" {
			b.WriteString("REMOTE_USER=" + s.RemoteUser + "\n")
		}
		if s.ContainerUser != "" {
			b.WriteString("CONTAINER_USER=" + s.ContainerUser + "\n")
		}
		out[ArtifactUserConfig] = b.String()
	}
	if s.PostCreateCommand != "" {
		out[ArtifactPostCreate] = s.PostCreateCommand + "\n"
	}
	if s.PostStartCommand != "" {
		out[ArtifactPostStart] = s.PostStartCommand + "\n"
	}
	return out
}
