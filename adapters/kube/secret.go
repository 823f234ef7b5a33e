package kube

import (
	"context"
	"encoding/base64"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/podspace/podspace/internal/logging"
)

// SecretParams carries the credential material stored alongside a
// workspace.
type SecretParams struct {
	Namespace   string
	WorkspaceID string
	Password    string
	GitToken    string // optional; omitted from the secret when empty
}

// CreateWorkspaceSecret stores the editor password and, when present, the
// repository access token. Idempotent.
func (c *Client) CreateWorkspaceSecret(ctx context.Context, p SecretParams) error {
	if err := c.check(); err != nil {
		return err
	}
	data := map[string][]byte{
		SecretKeyPassword: []byte(p.Password),
	}
	if p.GitToken != "" {
		data[SecretKeyGitToken] = []byte(p.GitToken)
	}
	sec := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:   SecretWorkspace,
			Labels: workspaceLabels(p.WorkspaceID),
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
	_, err := c.Clientset.CoreV1().Secrets(p.Namespace).Create(ctx, sec, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create secret %s/%s: %w", p.Namespace, SecretWorkspace, err)
	}
	return nil
}

// CreateRegistryPullSecret creates the dockerconfigjson secret the kaniko
// builders and the kubelet use against the cluster-internal registry. The
// registry is unauthenticated, so the auth entry is empty. Idempotent.
func (c *Client) CreateRegistryPullSecret(ctx context.Context, namespace, workspaceID, registryEndpoint string) error {
	if err := c.check(); err != nil {
		return err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(":"))
	cfg := fmt.Sprintf(`{"auths":{%q:{"auth":%q}}}`, registryEndpoint, auth)
	sec := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:   SecretRegistryPull,
			Labels: workspaceLabels(workspaceID),
		},
		Type: corev1.SecretTypeDockerConfigJson,
		Data: map[string][]byte{
			corev1.DockerConfigJsonKey: []byte(cfg),
		},
	}
	_, err := c.Clientset.CoreV1().Secrets(namespace).Create(ctx, sec, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create secret %s/%s: %w", namespace, SecretRegistryPull, err)
	}
	return nil
}

// CopySecret replicates a secret from the system namespace into the
// workspace namespace, typically the wildcard TLS certificate. The copy is
// best-effort: any failure (missing source, transient API error) is logged
// and tolerated, so an optional shared asset never blocks provisioning.
func (c *Client) CopySecret(ctx context.Context, srcNamespace, dstNamespace, name, workspaceID string) error {
	if err := c.check(); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	src, err := c.Clientset.CoreV1().Secrets(srcNamespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		logger.Warn(ctx, "get source secret failed, skipping copy",
			"namespace", srcNamespace, "name", name, "error", err)
		return nil
	}
	dst := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: workspaceLabels(workspaceID),
		},
		Type: src.Type,
		Data: src.Data,
	}
	_, err = c.Clientset.CoreV1().Secrets(dstNamespace).Create(ctx, dst, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		logger.Warn(ctx, "create secret copy failed, continuing without it",
			"namespace", dstNamespace, "name", name, "error", err)
	}
	return nil
}
