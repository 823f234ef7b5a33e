// Package imagebuild defines the two-stage, dependency-ordered image build
// of a workspace: the user base image built from the repository's
// devcontainer build directory, and the wrapper runtime image layered on
// top of it. Builds execute as kaniko init containers inside the
// provisioning workload; this package produces their build descriptors.
package imagebuild

import (
	"github.com/podspace/podspace/internal/naming"
)

// Build context locations inside the workspace data volume. The repo-init
// container populates them; the kaniko containers consume them.
const (
	BaseContextSubPath    = ".base-build"
	WrapperContextSubPath = ".wrapper-build"
)

// EditorPort is the fixed internal port the editor daemon binds to and the
// workspace Service targets.
const EditorPort = 8443

// Step describes one kaniko build: where the context lives, where the image
// goes, and the environment the builder needs.
type Step struct {
	// Name is the init container name.
	Name string
	// ContextSubPath is the build context location relative to the
	// workspace data volume root.
	ContextSubPath string
	// Destination is the image tag the build pushes to.
	Destination string
	// Env carries additional KEY=VALUE pairs for the builder container.
	Env map[string]string
}

// Args returns the kaniko executor arguments for the step. The registry is
// cluster-internal, so transport security is disabled; pushes retry on
// transient failure and the build context is cleaned up afterwards.
func (s Step) Args() []string {
	return []string{
		"--dockerfile=/workspace/Dockerfile",
		"--context=/workspace",
		"--destination=" + s.Destination,
		"--insecure",
		"--skip-tls-verify",
		"--push-retry=3",
		"--snapshotMode=time",
		"--use-new-run",
		"--cleanup",
	}
}

// Plan is the ordered pair of builds for one provisioning run. A Plan is
// only constructible through NewPlan, which derives the wrapper step from
// the base step's destination tag: there is no way to schedule a wrapper
// build whose source image is not a completed base build.
type Plan struct {
	base    Step
	wrapper Step
	baseTag string
}

// NewPlan computes both build steps for the given workspace namespace and
// build timestamp. Both destination tags embed the same
// namespace/timestamp pair.
func NewPlan(registryEndpoint, repository, namespace, timestamp string) Plan {
	baseTag := naming.ImageTag(registryEndpoint, repository, naming.RoleBase, namespace, timestamp)
	wrapperTag := naming.ImageTag(registryEndpoint, repository, naming.RoleWrapper, namespace, timestamp)
	return Plan{
		baseTag: baseTag,
		base: Step{
			Name:           "build-base-image",
			ContextSubPath: BaseContextSubPath,
			Destination:    baseTag,
		},
		wrapper: Step{
			Name:           "build-wrapper-image",
			ContextSubPath: WrapperContextSubPath,
			Destination:    wrapperTag,
			Env:            map[string]string{"BASE_IMAGE": baseTag},
		},
	}
}

// Steps returns the builds in execution order: the wrapper build must not
// start until the base build has pushed its image. The workload runs these
// as sequential init containers, so a failed base build prevents the
// wrapper build from ever being scheduled.
func (p Plan) Steps() []Step {
	return []Step{p.base, p.wrapper}
}

// BaseTag returns the base image destination tag.
func (p Plan) BaseTag() string { return p.baseTag }

// WrapperTag returns the wrapper image destination tag; this is the image
// the steady-phase editor container runs.
func (p Plan) WrapperTag() string { return p.wrapper.Destination }
