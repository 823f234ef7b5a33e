package imagebuild

import (
	"fmt"
	"strconv"
)

// WrapperDockerfile renders the synthesized build descriptor of the wrapper
// runtime image. It layers the fixed workspace toolchain and the editor
// daemon on top of the user base image, and wires the conditional startup
// sequence: feature installer, environment setup, extension installer and
// lifecycle runner all run only when the repo-init container materialized
// their files.
func WrapperDockerfile(baseTag string) string {
	return fmt.Sprintf(`FROM %s

RUN git config --global --add safe.directory /workspaces && \
    git config --global --add safe.directory '*'

RUN apt-get update && apt-get install -y \
    curl \
    git \
    gnupg2 \
    jq \
    procps \
    lsb-release \
    sudo \
    tmux \
    vim \
    && rm -rf /var/lib/apt/lists/*

RUN curl -fsSL https://code-server.dev/install.sh | sh

EXPOSE %d

ENTRYPOINT ["/bin/bash", "-c", "%s"]
`, baseTag, EditorPort, wrapperEntrypoint())
}

// wrapperEntrypoint builds the startup command chain. Each optional step is
// presence-checked so a workspace without features, env vars, extensions or
// lifecycle hooks starts the editor directly.
func wrapperEntrypoint() string {
	// Failed features are reported by the installer itself; they do not
	// block editor startup.
	return "if [ -f /workspaces/install-features.sh ]; then /workspaces/install-features.sh || true; fi && " +
		"if [ -f /workspaces/setup-env.sh ]; then source /workspaces/setup-env.sh; fi && " +
		"if [ -f /workspaces/install-extensions.sh ]; then /workspaces/install-extensions.sh; fi && " +
		"if [ -f /workspaces/run-lifecycle.sh ]; then /workspaces/run-lifecycle.sh & fi && " +
		"/usr/bin/code-server --bind-addr 0.0.0.0:" + strconv.Itoa(EditorPort) +
		" --auth password --user-data-dir /config/data --extensions-dir /config/extensions /workspaces"
}
