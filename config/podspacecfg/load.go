package podspacecfg

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default returns a Config populated with the built-in defaults. Load starts
// from this value, so a partial podspace.yml only needs to override what it
// changes.
func Default() Config {
	return Config{
		Version: "v1",
		Domain:  "ws.podspace.dev",
		System: System{
			Namespace:             "podspace-system",
			TLSSecretName:         "workspace-domain-wildcard-tls",
			PortDetectorConfigMap: "port-detector",
		},
		Registry: Registry{
			Endpoint:         "registry.podspace-system.svc.cluster.local:5000",
			Repository:       "workspace-images",
			DefaultBaseImage: "linuxserver/code-server:latest",
		},
		Storage: Storage{
			ClassName:     "efs-sc",
			WorkspaceSize: "10Gi",
			RegistrySize:  "5Gi",
		},
		Access: Access{
			ServiceAccountName: "workspace-controller",
		},
		Teardown: Teardown{
			PollIntervalSeconds: 1,
			PollAttempts:        30,
		},
		DBURL: "sqlite:./podspace.db",
	}
}

// Load reads a YAML file from the given path and returns the deserialized
// Config merged over Default(). An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks fields that have no usable zero value.
func (c Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if c.Registry.Endpoint == "" {
		return fmt.Errorf("registry.endpoint is required")
	}
	if c.Registry.Repository == "" {
		return fmt.Errorf("registry.repository is required")
	}
	if c.Teardown.PollIntervalSeconds <= 0 || c.Teardown.PollAttempts <= 0 {
		return fmt.Errorf("teardown poll settings must be positive")
	}
	return nil
}

// TeardownTimeout returns the total bounded wait for namespace deletion.
func (c Config) TeardownTimeout() time.Duration {
	return time.Duration(c.Teardown.PollIntervalSeconds*c.Teardown.PollAttempts) * time.Second
}

// TeardownInterval returns the poll interval for namespace deletion.
func (c Config) TeardownInterval() time.Duration {
	return time.Duration(c.Teardown.PollIntervalSeconds) * time.Second
}
