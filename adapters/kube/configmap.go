package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/podspace/podspace/internal/logging"
)

// CreateConfigMap creates a labeled ConfigMap in the workspace namespace.
// Idempotent.
func (c *Client) CreateConfigMap(ctx context.Context, namespace, name, workspaceID string, data map[string]string) error {
	if err := c.check(); err != nil {
		return err
	}
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: workspaceLabels(workspaceID),
		},
		Data: data,
	}
	_, err := c.Clientset.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create configmap %s/%s: %w", namespace, name, err)
	}
	return nil
}

// CopyConfigMap replicates a ConfigMap from the system namespace into the
// workspace namespace. The copy is best-effort: any failure is logged and
// tolerated so optional cluster add-ons do not block provisioning.
func (c *Client) CopyConfigMap(ctx context.Context, srcNamespace, dstNamespace, name, workspaceID string) error {
	if err := c.check(); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	src, err := c.Clientset.CoreV1().ConfigMaps(srcNamespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		logger.Warn(ctx, "get source configmap failed, skipping copy",
			"namespace", srcNamespace, "name", name, "error", err)
		return nil
	}
	if err := c.CreateConfigMap(ctx, dstNamespace, name, workspaceID, src.Data); err != nil {
		logger.Warn(ctx, "create configmap copy failed, continuing without it",
			"namespace", dstNamespace, "name", name, "error", err)
	}
	return nil
}
