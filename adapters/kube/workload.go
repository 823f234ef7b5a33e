package kube

import (
	"context"
	"fmt"
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/podspace/podspace/imagebuild"
)

// Images of the provisioning helper containers.
const (
	repoInitImage     = "buildpack-deps:22.04-scm"
	kanikoImage       = "gcr.io/kaniko-project/executor:latest"
	portDetectorImage = "python:3.9-slim"
)

// WorkloadParams carries everything the workspace Deployment needs. The
// build plan supplies both kaniko init containers and the runtime image
// tag, so the workload can only ever run an image its own builds produced.
type WorkloadParams struct {
	Namespace   string
	WorkspaceID string
	Subdomain   string
	Domain      string

	Plan imagebuild.Plan

	ServiceAccountName string
	// PortDetectorConfigMap names the sidecar script ConfigMap copied from
	// the system namespace; empty disables the sidecar.
	PortDetectorConfigMap string
	// HasGitToken wires the repository token into the repo-init container.
	HasGitToken bool
}

// CreateWorkspaceWorkload creates the workspace Deployment. Provisioning
// runs as ordered init containers (repo init, base build, wrapper build)
// before the editor starts, so a failed build leaves the pod in init and
// the editor never runs against a half-built image. Idempotent.
func (c *Client) CreateWorkspaceWorkload(ctx context.Context, p WorkloadParams) error {
	if err := c.check(); err != nil {
		return err
	}

	dep := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:   DeploymentWorkspace,
			Labels: workspaceLabels(p.WorkspaceID),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr(int32(1)),
			Strategy: appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType},
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{LabelApp: LabelAppValue},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels(p.WorkspaceID),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: p.ServiceAccountName,
					ImagePullSecrets: []corev1.LocalObjectReference{
						{Name: SecretRegistryPull},
					},
					InitContainers: initContainers(p),
					Containers:     runContainers(p),
					Volumes:        podVolumes(p),
				},
			},
		},
	}

	_, err := c.Clientset.AppsV1().Deployments(p.Namespace).Create(ctx, dep, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create deployment %s/%s: %w", p.Namespace, DeploymentWorkspace, err)
	}
	return nil
}

func podLabels(workspaceID string) map[string]string {
	l := workspaceLabels(workspaceID)
	l[LabelRegistryAccess] = "true"
	return l
}

func initContainers(p WorkloadParams) []corev1.Container {
	repoInit := corev1.Container{
		Name:    "repo-init",
		Image:   repoInitImage,
		Command: []string{"/bin/bash", "/init/" + imagebuild.InitScriptFileName},
		SecurityContext: &corev1.SecurityContext{
			Capabilities: &corev1.Capabilities{
				Add: []corev1.Capability{"CHOWN", "FOWNER", "FSETID", "DAC_OVERRIDE"},
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: "workspace-data", MountPath: "/workspaces"},
			{Name: "init-script", MountPath: "/init"},
			{Name: "artifacts", MountPath: imagebuild.ArtifactsMountPath},
			{Name: "feature-script", MountPath: imagebuild.FeatureScriptMountPath},
		},
	}
	if p.HasGitToken {
		repoInit.Env = append(repoInit.Env, corev1.EnvVar{
			Name: "GITHUB_TOKEN",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: SecretWorkspace},
					Key:                  SecretKeyGitToken,
				},
			},
		})
	}

	containers := []corev1.Container{repoInit}
	// Steps run in plan order; init containers execute sequentially, so the
	// wrapper build cannot start before the base build pushed its image.
	for _, step := range p.Plan.Steps() {
		containers = append(containers, kanikoContainer(step))
	}
	return containers
}

func kanikoContainer(step imagebuild.Step) corev1.Container {
	env := []corev1.EnvVar{
		{Name: "DOCKER_CONFIG", Value: "/kaniko/.docker/"},
		{Name: "HTTP_TIMEOUT", Value: "600s"},
		{Name: "HTTPS_TIMEOUT", Value: "600s"},
	}
	keys := make([]string, 0, len(step.Env))
	for k := range step.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, corev1.EnvVar{Name: k, Value: step.Env[k]})
	}
	return corev1.Container{
		Name:  step.Name,
		Image: kanikoImage,
		Args:  step.Args(),
		Env:   env,
		VolumeMounts: []corev1.VolumeMount{
			{Name: "workspace-data", MountPath: "/workspace", SubPath: step.ContextSubPath},
			{Name: "registry-auth", MountPath: "/kaniko/.docker"},
		},
	}
}

func runContainers(p WorkloadParams) []corev1.Container {
	editor := corev1.Container{
		Name:  "workspace",
		Image: p.Plan.WrapperTag(),
		Env: []corev1.EnvVar{
			{Name: "PUID", Value: "1000"},
			{Name: "PGID", Value: "1000"},
			{Name: "TZ", Value: "UTC"},
			{Name: "DEFAULT_WORKSPACE", Value: "/workspaces"},
			{Name: "VSCODE_PROXY_URI", Value: fmt.Sprintf("https://%s-{{port}}.%s/", p.Subdomain, p.Domain)},
			{
				Name: "PASSWORD",
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: SecretWorkspace},
						Key:                  SecretKeyPassword,
					},
				},
			},
		},
		Ports: []corev1.ContainerPort{
			{Name: "http", ContainerPort: imagebuild.EditorPort, Protocol: corev1.ProtocolTCP},
		},
		SecurityContext: &corev1.SecurityContext{
			Privileged: ptr(true),
		},
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("500m"),
				corev1.ResourceMemory: resource.MustParse("1Gi"),
			},
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("4"),
				corev1.ResourceMemory: resource.MustParse("8Gi"),
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: "workspace-data", MountPath: "/workspaces"},
			{Name: "docker-lib", MountPath: "/var/lib/docker"},
			{Name: "docker-sock", MountPath: "/var/run"},
		},
	}

	containers := []corev1.Container{editor}
	if p.PortDetectorConfigMap != "" {
		containers = append(containers, corev1.Container{
			Name:    "port-detector",
			Image:   portDetectorImage,
			Command: []string{"python", "/scripts/port_detector.py"},
			VolumeMounts: []corev1.VolumeMount{
				{Name: "port-detector", MountPath: "/scripts"},
			},
		})
	}
	return containers
}

func podVolumes(p WorkloadParams) []corev1.Volume {
	vols := []corev1.Volume{
		{
			Name: "workspace-data",
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: PVCWorkspaceData,
				},
			},
		},
		{
			Name: "init-script",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: ConfigMapInitScript},
					DefaultMode:          ptr(int32(0o755)),
				},
			},
		},
		{
			Name: "artifacts",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: ConfigMapArtifacts},
				},
			},
		},
		{
			Name: "feature-script",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: ConfigMapFeatureScript},
					DefaultMode:          ptr(int32(0o755)),
				},
			},
		},
		{
			Name: "registry-auth",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{
					SecretName: SecretRegistryPull,
					Items: []corev1.KeyToPath{
						{Key: corev1.DockerConfigJsonKey, Path: "config.json"},
					},
				},
			},
		},
		{Name: "docker-lib", VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}}},
		{Name: "docker-sock", VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}}},
	}
	if p.PortDetectorConfigMap != "" {
		vols = append(vols, corev1.Volume{
			Name: "port-detector",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: p.PortDetectorConfigMap},
				},
			},
		})
	}
	return vols
}

func ptr[T any](v T) *T { return &v }
