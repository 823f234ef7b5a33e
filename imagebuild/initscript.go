package imagebuild

import (
	"fmt"
	"strings"

	"github.com/podspace/podspace/devcontainer"
)

// Mount points inside the repo-init container.
const (
	// ArtifactsMountPath is where the compiled devcontainer artifacts
	// ConfigMap is mounted.
	ArtifactsMountPath = "/artifacts"
	// FeatureScriptMountPath is where the feature install script ConfigMap
	// is mounted.
	FeatureScriptMountPath = "/feature-install"
	// InitScriptFileName is the ConfigMap key and mounted file name of the
	// generated init script.
	InitScriptFileName = "init.sh"
)

// artifactTargets maps compiled artifact names to their materialized
// location under the workspace volume. Lifecycle hook scripts additionally
// get the executable bit.
var artifactTargets = []struct {
	name       string
	target     string
	executable bool
}{
	{devcontainer.ArtifactExtensions, "/workspaces/.extensions-list", false},
	{devcontainer.ArtifactSettings, "/workspaces/.vscode/settings.json", false},
	{devcontainer.ArtifactFeatures, "/workspaces/.devcontainer-features", false},
	{devcontainer.ArtifactForwardPorts, "/workspaces/.forward-ports", false},
	{devcontainer.ArtifactCustomizations, "/workspaces/.customizations", false},
	{devcontainer.ArtifactContainerEnv, "/workspaces/.container-env", false},
	{devcontainer.ArtifactRemoteEnv, "/workspaces/.remote-env", false},
	{devcontainer.ArtifactUserConfig, "/workspaces/.user-config", false},
	{devcontainer.ArtifactPostCreate, "/workspaces/post-create-command.sh", true},
	{devcontainer.ArtifactPostStart, "/workspaces/post-start-command.sh", true},
}

// InitScriptParams carries the per-workspace values rendered into the
// repo-init script.
type InitScriptParams struct {
	RepoName         string // "owner/name"; empty skips cloning
	RepoURL          string
	Branch           string // empty clones the default branch
	DefaultBaseImage string // base Dockerfile fallback
	WrapperFROM      string // base build destination tag
}

// InitScript renders the script run by the repo-init container. It clones
// the repository when missing, materializes compiled artifacts and derived
// helper scripts into the workspace volume, and prepares both image build
// contexts.
func InitScript(p InitScriptParams) string {
	var b strings.Builder
	b.WriteString(`#!/bin/bash
# Prepares the workspace volume for the image builds and the runtime
# container. Runs once per pod start, before the kaniko builders.
set -e

mkdir -p /workspaces /workspaces/.vscode
mkdir -p /workspaces/` + BaseContextSubPath + ` /workspaces/` + WrapperContextSubPath + `
`)

	if p.RepoName != "" {
		// GITHUB_TOKEN arrives via the workspace secret when the repository
		// is private; the anonymous URL is used otherwise.
		authURL := strings.Replace(p.RepoURL, "https://", "https://${GITHUB_TOKEN}@", 1)
		branchFlag := ""
		if p.Branch != "" {
			branchFlag = fmt.Sprintf("-b %q ", p.Branch)
		}
		fmt.Fprintf(&b, `
REPO_PATH="/workspaces/%s"
if [ ! -d "$REPO_PATH" ]; then
    if [ -n "${GITHUB_TOKEN:-}" ]; then
        git clone %s"%s" "$REPO_PATH"
    else
        git clone %s%q "$REPO_PATH"
    fi
fi
git config --global --add safe.directory '*'
`, p.RepoName, branchFlag, authURL, branchFlag, p.RepoURL)
	} else {
		b.WriteString("\nREPO_PATH=\"\"\n")
	}

	b.WriteString("\n# Materialize compiled devcontainer artifacts.\n")
	for _, a := range artifactTargets {
		fmt.Fprintf(&b, "if [ -f %s/%s ]; then\n    cp %s/%s %s\n", ArtifactsMountPath, a.name, ArtifactsMountPath, a.name, a.target)
		if a.executable {
			fmt.Fprintf(&b, "    chmod +x %s\n", a.target)
		}
		b.WriteString("fi\n")
	}

	fmt.Fprintf(&b, `
if [ -f %s/install-features.sh ]; then
    cp %s/install-features.sh /workspaces/install-features.sh
    chmod +x /workspaces/install-features.sh
fi
`, FeatureScriptMountPath, FeatureScriptMountPath)

	b.WriteString(`
# Derived startup helpers, generated only when their input exists.
if [ -f /workspaces/.container-env ]; then
    sed 's/^/export /' /workspaces/.container-env > /workspaces/setup-env.sh
fi
if [ -f /workspaces/.extensions-list ]; then
    {
        echo '#!/bin/bash'
        echo 'while read -r ext; do'
        echo '    [ -n "$ext" ] && code-server --extensions-dir /config/extensions --install-extension "$ext" || true'
        echo 'done < /workspaces/.extensions-list'
    } > /workspaces/install-extensions.sh
    chmod +x /workspaces/install-extensions.sh
fi
`)

	// Lifecycle hooks run from the checked-out repository. The path is
	// resolved here, at render time; the wrapper container that executes
	// run-lifecycle.sh has no REPO_PATH variable.
	hookDir := "/workspaces"
	if p.RepoName != "" {
		hookDir = "/workspaces/" + p.RepoName
	}
	fmt.Fprintf(&b, `if [ -f /workspaces/post-create-command.sh ] || [ -f /workspaces/post-start-command.sh ]; then
    {
        echo '#!/bin/bash'
        echo 'if [ -f /workspaces/post-create-command.sh ] && [ ! -f /workspaces/.post-create-done ]; then'
        echo '    (cd %q && /workspaces/post-create-command.sh) && touch /workspaces/.post-create-done'
        echo 'fi'
        echo 'if [ -f /workspaces/post-start-command.sh ]; then'
        echo '    (cd %q && /workspaces/post-start-command.sh)'
        echo 'fi'
    } > /workspaces/run-lifecycle.sh
    chmod +x /workspaces/run-lifecycle.sh
fi
`, hookDir, hookDir)

	fmt.Fprintf(&b, `
# Base build context: the repository's devcontainer build directory, or a
# minimal default declaration when the repository has none.
if [ -n "$REPO_PATH" ] && [ -f "$REPO_PATH/%s/Dockerfile" ]; then
    cp -r "$REPO_PATH/%s/." /workspaces/%s/
else
    echo "FROM %s" > /workspaces/%s/Dockerfile
fi

# Wrapper build context.
cat > /workspaces/%s/Dockerfile << 'WRAPPER_DOCKERFILE'
%s
WRAPPER_DOCKERFILE
`,
		devcontainer.BuildDirName, devcontainer.BuildDirName, BaseContextSubPath,
		p.DefaultBaseImage, BaseContextSubPath,
		WrapperContextSubPath, strings.TrimRight(WrapperDockerfile(p.WrapperFROM), "\n"))

	return b.String()
}
