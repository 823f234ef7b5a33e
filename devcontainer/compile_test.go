package devcontainer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".devcontainer"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".devcontainer", "devcontainer.json"), []byte(content), 0o644))
	return dir
}

func TestCompileMissingRepoYieldsMinimalSpec(t *testing.T) {
	spec := Compile("")
	assert.True(t, spec.IsMinimal())

	spec = Compile(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.True(t, spec.IsMinimal())
	assert.Empty(t, spec.Artifacts())
}

func TestCompileMissingDescriptorYieldsMinimalSpec(t *testing.T) {
	spec := Compile(t.TempDir())
	assert.True(t, spec.IsMinimal())
}

func TestCompileExtractsFields(t *testing.T) {
	dir := writeDescriptor(t, `{
		// JSONC comments are allowed in devcontainer.json
		"extensions": ["ms-python.python"],
		"features": {"node": {"version": "18"}},
		"forwardPorts": [3000, 8080],
		"containerEnv": {"FOO": "bar", "BAR": "baz"},
		"remoteUser": "vscode",
		"postCreateCommand": "npm install",
	}`)
	spec := Compile(dir)
	assert.Equal(t, []string{"ms-python.python"}, spec.Extensions)
	assert.JSONEq(t, `{"node":{"version":"18"}}`, string(spec.Features))
	assert.Equal(t, []int{3000, 8080}, spec.ForwardPorts)
	// Env lines are flattened sorted by key.
	assert.Equal(t, []string{"BAR=baz", "FOO=bar"}, spec.ContainerEnv)
	assert.Equal(t, "vscode", spec.RemoteUser)
	assert.Equal(t, "npm install", spec.PostCreateCommand)
}

func TestCompilePrimaryExtensionsWinOverCustomizations(t *testing.T) {
	dir := writeDescriptor(t, `{
		"extensions": ["primary.ext"],
		"customizations": {"vscode": {"extensions": ["nested.ext"]}}
	}`)
	spec := Compile(dir)
	assert.Equal(t, []string{"primary.ext"}, spec.Extensions)
}

func TestCompileFallsBackToCustomizations(t *testing.T) {
	dir := writeDescriptor(t, `{
		"customizations": {"vscode": {
			"extensions": ["nested.ext"],
			"settings": {"editor.tabSize": 2}
		}}
	}`)
	spec := Compile(dir)
	assert.Equal(t, []string{"nested.ext"}, spec.Extensions)
	assert.JSONEq(t, `{"editor.tabSize":2}`, string(spec.Settings))
}

func TestCompileDegradesMalformedFields(t *testing.T) {
	dir := writeDescriptor(t, `{
		"extensions": "not-a-list",
		"forwardPorts": [3000, "web", 8080],
		"features": {"node": {"version": "18"}}
	}`)
	spec := Compile(dir)
	// Malformed extensions degrade to absent without affecting siblings.
	assert.Empty(t, spec.Extensions)
	assert.Equal(t, []int{3000, 8080}, spec.ForwardPorts)
	assert.NotEmpty(t, spec.Features)
}

func TestCompileIsIdempotent(t *testing.T) {
	dir := writeDescriptor(t, `{
		"extensions": ["a.b", "c.d"],
		"settings": {"z": 1, "a": {"nested": true}},
		"features": {"go": {"version": "latest"}, "node": {}},
		"containerEnv": {"K2": "v2", "K1": "v1"}
	}`)
	first := Compile(dir).Artifacts()
	second := Compile(dir).Artifacts()
	assert.Equal(t, first, second)
}

func TestCompileRootLevelDescriptorLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".devcontainer.json"), []byte(`{"extensions":["x.y"]}`), 0o644))
	spec := Compile(dir)
	assert.Equal(t, []string{"x.y"}, spec.Extensions)
}

func TestArtifactsExactFeatureAndExtensionScenario(t *testing.T) {
	dir := writeDescriptor(t, `{
		"features": {"node": {"version": "18"}},
		"extensions": ["ms-python.python"]
	}`)
	arts := Compile(dir).Artifacts()
	assert.Equal(t, "ms-python.python\n", arts[ArtifactExtensions])
	assert.JSONEq(t, `{"node":{"version":"18"}}`, arts[ArtifactFeatures])
	assert.Len(t, arts, 2)
}

func TestCompileLifecycleCommandArray(t *testing.T) {
	dir := writeDescriptor(t, `{"postStartCommand": ["npm", "run", "dev"]}`)
	spec := Compile(dir)
	assert.Equal(t, "npm run dev", spec.PostStartCommand)
}
