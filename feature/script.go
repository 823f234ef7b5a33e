package feature

import (
	"fmt"
	"strings"
)

// ScriptFileName is the key under which the install script is stored in its
// ConfigMap and the file name it is mounted as.
const ScriptFileName = "install-features.sh"

// FeaturesFilePath is where the feature-set artifact is materialized inside
// the workspace volume.
const FeaturesFilePath = "/workspaces/.devcontainer-features"

const scriptHeader = `#!/bin/bash
# Installs dev container features at container start.
#
# Each feature runs in its own subshell with fail-fast semantics inside the
# block only; a failing feature is recorded and the remaining features still
# run. The script exits nonzero when any feature failed.

FEATURES_FILE="` + FeaturesFilePath + `"
if [ ! -f "$FEATURES_FILE" ]; then
    echo "No features file found, skipping feature installation"
    exit 0
fi

echo "Installing dev container features"
FAILED=()
`

const scriptFooter = `
if [ ${#FAILED[@]} -gt 0 ]; then
    echo "Feature installation finished with failures: ${FAILED[*]}" >&2
    exit 1
fi
echo "Feature installation completed"
`

// Script renders the container-start install script for the given feature
// set. Unrecognized feature identifiers are skipped for forward
// compatibility. Alias identifiers (docker-from-docker, kubernetes-tools)
// collapse onto their canonical feature so a feature installs at most once.
func Script(set Set) string {
	var b strings.Builder
	b.WriteString(scriptHeader)

	seen := map[string]bool{}
	for _, f := range set {
		name, body := installBlock(f)
		if body == "" || seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(&b, "\ninstall_%s() {\n    set -e\n", shellName(name))
		for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
			if line == "" {
				b.WriteString("\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
		b.WriteString("}\n")
		fmt.Fprintf(&b, "echo \"Installing %s feature\"\n", name)
		fmt.Fprintf(&b, "if (install_%s); then\n    echo \"feature %s installed\"\nelse\n    FAILED+=(%q)\nfi\n", shellName(name), name, name)
	}

	b.WriteString(scriptFooter)
	return b.String()
}

func shellName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// shellQuote single-quotes s for safe interpolation into the script.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// canonicalID reduces a feature identifier to its short name. Descriptors
// may use fully qualified OCI refs like
// "ghcr.io/devcontainers/features/node:1"; only the final path segment
// selects the install block.
func canonicalID(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[:i]
	}
	return id
}

// installBlock returns the canonical feature name and its install body, or
// an empty body for unrecognized identifiers.
func installBlock(f Feature) (string, string) {
	switch id := canonicalID(f.ID); id {
	case "node":
		return "node", nodeBlock(f)
	case "python":
		return "python", pythonBlock(f)
	case "go":
		return "go", goBlock(f)
	case "java":
		return "java", javaBlock(f)
	case "rust":
		return "rust", rustBlock(f)
	case "dotnet":
		return "dotnet", dotnetBlock(f)
	case "php":
		return "php", phpBlock(f)
	case "docker", "docker-in-docker", "docker-from-docker":
		return "docker", dockerBlock(f)
	case "common-utils":
		return "common-utils", commonUtilsBlock()
	case "github-cli":
		return "github-cli", githubCLIBlock()
	case "azure-cli":
		return "azure-cli", azureCLIBlock()
	case "aws-cli":
		return "aws-cli", awsCLIBlock()
	case "terraform":
		return "terraform", terraformBlock(f)
	case "kubectl", "kubernetes-tools":
		return "kubectl", kubectlBlock(f)
	default:
		return id, ""
	}
}

func nodeBlock(f Feature) string {
	v := f.Version("lts")
	var b strings.Builder
	b.WriteString(`if command -v node >/dev/null 2>&1; then
    echo "node already present: $(node -v)"
    return 0
fi
curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.39.3/install.sh | bash
export NVM_DIR="$HOME/.nvm"
[ -s "$NVM_DIR/nvm.sh" ] && \. "$NVM_DIR/nvm.sh"
`)
	if v == "lts" || v == "latest" {
		b.WriteString("nvm install --lts\n")
	} else {
		b.WriteString("nvm install " + shellQuote(v) + "\n")
	}
	b.WriteString(`echo 'export NVM_DIR="$HOME/.nvm"' >> /etc/profile.d/nvm.sh
echo '[ -s "$NVM_DIR/nvm.sh" ] && \. "$NVM_DIR/nvm.sh"' >> /etc/profile.d/nvm.sh
`)
	return b.String()
}

func pythonBlock(f Feature) string {
	var b strings.Builder
	b.WriteString(`if ! command -v python3 >/dev/null 2>&1; then
    apt-get update
    apt-get install -y python3 python3-venv python3-pip
fi
ln -sf /usr/bin/python3 /usr/bin/python
`)
	if f.BoolOption("installTools", true) {
		b.WriteString("pip3 install --no-cache-dir ipython pytest pylint flake8 black\n")
	}
	if f.BoolOption("installJupyter", false) {
		b.WriteString("pip3 install --no-cache-dir jupyter notebook\n")
	}
	return b.String()
}

func goBlock(f Feature) string {
	v := f.Version("latest")
	var b strings.Builder
	b.WriteString(`if command -v go >/dev/null 2>&1; then
    echo "go already present: $(go version)"
    return 0
fi
`)
	if v == "latest" {
		b.WriteString("VERSION=$(curl -s 'https://go.dev/VERSION?m=text' | head -n1)\n")
	} else {
		b.WriteString("VERSION=" + shellQuote(v) + "\n")
		b.WriteString("case \"$VERSION\" in go*) ;; *) VERSION=\"go${VERSION}\" ;; esac\n")
	}
	b.WriteString(`curl -sSL "https://golang.org/dl/${VERSION}.linux-amd64.tar.gz" -o /tmp/go.tar.gz
tar -C /usr/local -xzf /tmp/go.tar.gz
rm /tmp/go.tar.gz
echo 'export PATH=$PATH:/usr/local/go/bin:$HOME/go/bin' > /etc/profile.d/go.sh
`)
	return b.String()
}

func javaBlock(f Feature) string {
	v := f.Version("17")
	return `apt-get update
apt-get install -y openjdk-` + shellQuote(v) + `-jdk
`
}

func rustBlock(Feature) string {
	return `if command -v rustc >/dev/null 2>&1; then
    echo "rust already present: $(rustc --version)"
    return 0
fi
curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- -y
echo 'export PATH=$PATH:$HOME/.cargo/bin' > /etc/profile.d/rust.sh
`
}

func dotnetBlock(f Feature) string {
	v := f.Version("latest")
	var b strings.Builder
	b.WriteString(`curl -sSL https://dot.net/v1/dotnet-install.sh -o /tmp/dotnet-install.sh
chmod +x /tmp/dotnet-install.sh
`)
	if v == "latest" {
		b.WriteString("/tmp/dotnet-install.sh\n")
	} else {
		b.WriteString("/tmp/dotnet-install.sh --version " + shellQuote(v) + "\n")
	}
	b.WriteString("echo 'export PATH=$PATH:$HOME/.dotnet' > /etc/profile.d/dotnet.sh\n")
	return b.String()
}

func phpBlock(f Feature) string {
	v := f.Version("8.2")
	var b strings.Builder
	b.WriteString(`apt-get update
apt-get install -y software-properties-common
add-apt-repository -y ppa:ondrej/php
apt-get update
`)
	b.WriteString("apt-get install -y php" + shellQuote(v) + " php" + shellQuote(v) + "-cli php" + shellQuote(v) + "-common php" + shellQuote(v) + "-curl php" + shellQuote(v) + "-mbstring php" + shellQuote(v) + "-xml php" + shellQuote(v) + "-zip\n")
	if f.BoolOption("composer", true) {
		b.WriteString("curl -sS https://getcomposer.org/installer | php -- --install-dir=/usr/local/bin --filename=composer\n")
	}
	return b.String()
}

func dockerBlock(Feature) string {
	// The docker daemon itself is provided by the wrapper runtime; this
	// block only completes the client-side tooling.
	return `if ! command -v docker-compose >/dev/null 2>&1; then
    mkdir -p /usr/local/lib/docker/cli-plugins
    curl -SL "https://github.com/docker/compose/releases/download/v2.24.6/docker-compose-linux-$(uname -m)" -o /usr/local/lib/docker/cli-plugins/docker-compose
    chmod +x /usr/local/lib/docker/cli-plugins/docker-compose
    ln -sf /usr/local/lib/docker/cli-plugins/docker-compose /usr/local/bin/docker-compose
fi
`
}

func commonUtilsBlock() string {
	return `apt-get update
apt-get install -y wget curl vim git jq unzip zip sudo
apt-get install -y build-essential pkg-config libssl-dev
`
}

func githubCLIBlock() string {
	return `if command -v gh >/dev/null 2>&1; then
    return 0
fi
curl -fsSL https://cli.github.com/packages/githubcli-archive-keyring.gpg | dd of=/usr/share/keyrings/githubcli-archive-keyring.gpg
chmod go+r /usr/share/keyrings/githubcli-archive-keyring.gpg
echo "deb [arch=$(dpkg --print-architecture) signed-by=/usr/share/keyrings/githubcli-archive-keyring.gpg] https://cli.github.com/packages stable main" > /etc/apt/sources.list.d/github-cli.list
apt-get update
apt-get install -y gh
`
}

func azureCLIBlock() string {
	return `if command -v az >/dev/null 2>&1; then
    return 0
fi
curl -sL https://aka.ms/InstallAzureCLIDeb | bash
`
}

func awsCLIBlock() string {
	return `if command -v aws >/dev/null 2>&1; then
    return 0
fi
apt-get update
apt-get install -y unzip
curl -sSL "https://awscli.amazonaws.com/awscli-exe-linux-x86_64.zip" -o /tmp/awscliv2.zip
unzip -q /tmp/awscliv2.zip -d /tmp
/tmp/aws/install
rm -rf /tmp/aws /tmp/awscliv2.zip
`
}

func terraformBlock(f Feature) string {
	v := f.Version("latest")
	var b strings.Builder
	b.WriteString(`apt-get update
apt-get install -y gnupg software-properties-common curl
curl -fsSL https://apt.releases.hashicorp.com/gpg | apt-key add -
apt-add-repository "deb [arch=amd64] https://apt.releases.hashicorp.com $(lsb_release -cs) main"
apt-get update
`)
	if v == "latest" {
		b.WriteString("apt-get install -y terraform\n")
	} else {
		b.WriteString("apt-get install -y terraform=" + shellQuote(v) + "\n")
	}
	return b.String()
}

func kubectlBlock(f Feature) string {
	v := f.Version("latest")
	var b strings.Builder
	b.WriteString(`if command -v kubectl >/dev/null 2>&1; then
    return 0
fi
`)
	if v == "latest" {
		b.WriteString("VERSION=$(curl -L -s https://dl.k8s.io/release/stable.txt)\n")
	} else {
		b.WriteString("VERSION=" + shellQuote(v) + "\n")
	}
	b.WriteString(`curl -sSLO "https://dl.k8s.io/release/${VERSION}/bin/linux/amd64/kubectl"
chmod +x kubectl
mv kubectl /usr/local/bin/
`)
	return b.String()
}
