package imagebuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testRegistry = "registry.podspace-system.svc.cluster.local:5000"
	testRepo     = "workspace-images"
)

func TestPlanOrderingAndDependency(t *testing.T) {
	p := NewPlan(testRegistry, testRepo, "workspace-w1", "20260314092653")
	steps := p.Steps()
	assert.Len(t, steps, 2)
	assert.Equal(t, "build-base-image", steps[0].Name)
	assert.Equal(t, "build-wrapper-image", steps[1].Name)
	// The wrapper build declares the base artifact as its dependency.
	assert.Equal(t, p.BaseTag(), steps[1].Env["BASE_IMAGE"])
}

func TestPlanTagsShareNamespaceAndTimestamp(t *testing.T) {
	p := NewPlan(testRegistry, testRepo, "workspace-w1", "20260314092653")
	suffix := "workspace-w1-20260314092653"
	assert.True(t, strings.HasSuffix(p.BaseTag(), suffix), p.BaseTag())
	assert.True(t, strings.HasSuffix(p.WrapperTag(), suffix), p.WrapperTag())
	assert.NotEqual(t, p.BaseTag(), p.WrapperTag())
}

func TestStepArgs(t *testing.T) {
	p := NewPlan(testRegistry, testRepo, "workspace-w1", "20260314092653")
	args := p.Steps()[0].Args()
	assert.Contains(t, args, "--destination="+p.BaseTag())
	assert.Contains(t, args, "--insecure")
	assert.Contains(t, args, "--push-retry=3")
	assert.Contains(t, args, "--cleanup")
}

func TestWrapperDockerfile(t *testing.T) {
	df := WrapperDockerfile("example.com/workspace-images:base-workspace-w1-1")
	assert.True(t, strings.HasPrefix(df, "FROM example.com/workspace-images:base-workspace-w1-1\n"))
	assert.Contains(t, df, "code-server.dev/install.sh")
	assert.Contains(t, df, "EXPOSE 8443")
	// Conditional startup chain ends with the editor daemon.
	assert.Contains(t, df, "install-features.sh")
	assert.Contains(t, df, "--auth password")
	assert.Contains(t, df, "--bind-addr 0.0.0.0:8443")
}

func TestInitScriptWithRepository(t *testing.T) {
	s := InitScript(InitScriptParams{
		RepoName:         "org/sample",
		RepoURL:          "https://github.com/org/sample",
		Branch:           "main",
		DefaultBaseImage: "linuxserver/code-server:latest",
		WrapperFROM:      "reg/workspace-images:base-workspace-w1-1",
	})
	assert.Contains(t, s, `git clone -b "main" "https://github.com/org/sample"`)
	assert.Contains(t, s, "/workspaces/.base-build")
	assert.Contains(t, s, "FROM reg/workspace-images:base-workspace-w1-1")
	// Default base image only applies when the repo has no Dockerfile.
	assert.Contains(t, s, `echo "FROM linuxserver/code-server:latest"`)
}

func TestInitScriptWithoutRepository(t *testing.T) {
	s := InitScript(InitScriptParams{
		DefaultBaseImage: "linuxserver/code-server:latest",
		WrapperFROM:      "reg/workspace-images:base-workspace-w1-1",
	})
	assert.NotContains(t, s, "git clone")
	assert.Contains(t, s, `echo "FROM linuxserver/code-server:latest"`)
}

func TestInitScriptLifecycleHookDirectory(t *testing.T) {
	// run-lifecycle.sh executes in the wrapper container, which has no
	// shell variables from the init script; the hook directory must be a
	// literal path.
	s := InitScript(InitScriptParams{
		RepoName:         "org/sample",
		RepoURL:          "https://github.com/org/sample",
		DefaultBaseImage: "linuxserver/code-server:latest",
		WrapperFROM:      "reg/workspace-images:base-workspace-w1-1",
	})
	assert.Contains(t, s, `(cd "/workspaces/org/sample" && /workspaces/post-create-command.sh)`)
	assert.Contains(t, s, `(cd "/workspaces/org/sample" && /workspaces/post-start-command.sh)`)
	assert.NotContains(t, s, "REPO_PATH:-")

	noRepo := InitScript(InitScriptParams{
		DefaultBaseImage: "linuxserver/code-server:latest",
		WrapperFROM:      "reg/workspace-images:base-workspace-w1-1",
	})
	assert.Contains(t, noRepo, `(cd "/workspaces" && /workspaces/post-create-command.sh)`)
}
