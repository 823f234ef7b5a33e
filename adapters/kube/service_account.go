package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CreateServiceAccount ensures the workspace pod's ServiceAccount exists
// and carries the configured annotations (cloud IAM bindings and the
// like). Annotations on an existing account are merged, never removed.
func (c *Client) CreateServiceAccount(ctx context.Context, namespace, name, workspaceID string, annotations map[string]string) error {
	if err := c.check(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("serviceaccount name is empty")
	}

	sa, err := c.Clientset.CoreV1().ServiceAccounts(namespace).Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		if len(annotations) == 0 {
			return nil
		}
		if sa.Annotations == nil {
			sa.Annotations = map[string]string{}
		}
		changed := false
		for k, v := range annotations {
			if ev, ok := sa.Annotations[k]; !ok || ev != v {
				sa.Annotations[k] = v
				changed = true
			}
		}
		if !changed {
			return nil
		}
		if _, err := c.Clientset.CoreV1().ServiceAccounts(namespace).Update(ctx, sa, metav1.UpdateOptions{}); err != nil {
			return fmt.Errorf("update serviceaccount %s/%s: %w", namespace, name, err)
		}
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("get serviceaccount %s/%s: %w", namespace, name, err)
	}

	sa = &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      workspaceLabels(workspaceID),
			Annotations: annotations,
		},
	}
	if _, err := c.Clientset.CoreV1().ServiceAccounts(namespace).Create(ctx, sa, metav1.CreateOptions{}); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("create serviceaccount %s/%s: %w", namespace, name, err)
	}
	return nil
}
