// Package podspacecfg defines the configuration schema (structs) for
// podspace.yml. This package is intended for YAML -> struct
// deserialization; loading helpers live in load.go.
//
// The loaded Config is passed by value into use cases and never mutated
// after Load returns. There is no package-level default instance.
package podspacecfg

// Config is the root structure of podspace.yml.
type Config struct {
	Version  string   `yaml:"version"`
	Domain   string   `yaml:"domain"`          // workspace domain suffix, e.g. "ws.podspace.dev"
	System   System   `yaml:"system"`          // cluster-shared asset locations
	Registry Registry `yaml:"registry"`        // image build destination
	Storage  Storage  `yaml:"storage"`         // durable volume settings
	Access   Access   `yaml:"access"`          // workspace service identity
	Teardown Teardown `yaml:"teardown"`        // namespace deletion polling
	DBURL    string   `yaml:"dbURL,omitempty"` // workspace registry database
}

// System locates cluster-shared assets copied into each workspace namespace.
type System struct {
	// Namespace holds the shared wildcard certificate and helper scripts.
	Namespace string `yaml:"namespace"`
	// TLSSecretName is the wildcard certificate Secret to copy.
	TLSSecretName string `yaml:"tlsSecretName"`
	// PortDetectorConfigMap is the port-detector script bundle to copy.
	PortDetectorConfigMap string `yaml:"portDetectorConfigMap"`
}

// Registry describes the cluster-internal registry the image builds push to.
type Registry struct {
	Endpoint         string `yaml:"endpoint"`   // e.g. "registry.podspace-system.svc.cluster.local:5000"
	Repository       string `yaml:"repository"` // e.g. "workspace-images"
	DefaultBaseImage string `yaml:"defaultBaseImage"`
}

// Storage configures the two persistent volumes of a workspace.
type Storage struct {
	ClassName     string `yaml:"className"`
	WorkspaceSize string `yaml:"workspaceSize"` // workspace data volume, e.g. "10Gi"
	RegistrySize  string `yaml:"registrySize"`  // registry cache volume, e.g. "5Gi"
}

// Access configures the per-workspace service identity.
type Access struct {
	ServiceAccountName string            `yaml:"serviceAccountName"`
	Annotations        map[string]string `yaml:"annotations,omitempty"` // e.g. IAM role binding
}

// Teardown tunes the bounded poll that waits for namespace disappearance.
type Teardown struct {
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`
	PollAttempts        int `yaml:"pollAttempts"`
}
