package kube

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/podspace/podspace/domain/model"
)

// NamespaceParams carries the identity labels stamped onto a workspace
// namespace at creation.
type NamespaceParams struct {
	Name        string
	WorkspaceID string
	FQDN        string
	ForPool     bool
}

// CreateWorkspaceNamespace creates the isolation boundary of a workspace
// with its identity labels and lifecycle "initializing" (idempotent).
func (c *Client) CreateWorkspaceNamespace(ctx context.Context, p NamespaceParams) error {
	if err := c.check(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("namespace name is empty")
	}

	typ := LabelTypeWorkspace
	if p.ForPool {
		typ = LabelTypePool
	}
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: p.Name,
			Labels: map[string]string{
				LabelWorkspaceID: p.WorkspaceID,
				LabelApp:         LabelAppValue,
				LabelFQDN:        p.FQDN,
				LabelType:        typ,
				LabelLifecycle:   LabelLifecycleInitializing,
			},
		},
	}
	_, err := c.Clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("create namespace %s: %w", p.Name, err)
	}
	return nil
}

// SetNamespaceLifecycle updates the lifecycle label on the namespace. The
// orchestrator calls this once, with "ready", after the terminal stage.
func (c *Client) SetNamespaceLifecycle(ctx context.Context, name, state string) error {
	if err := c.check(); err != nil {
		return err
	}
	patch := []byte(fmt.Sprintf(`{"metadata":{"labels":{%q:%q}}}`, LabelLifecycle, state))
	_, err := c.Clientset.CoreV1().Namespaces().Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("patch namespace %s lifecycle: %w", name, err)
	}
	return nil
}

// NamespaceLifecycle reads the lifecycle label of a namespace. A missing
// namespace returns an empty state, not an error.
func (c *Client) NamespaceLifecycle(ctx context.Context, name string) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	ns, err := c.Clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get namespace %s: %w", name, err)
	}
	return ns.Labels[LabelLifecycle], nil
}

// DeleteNamespace requests deletion of a namespace. A namespace that is
// already gone is not an error.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	err := c.Clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete namespace %s: %w", name, err)
	}
	return nil
}

// WaitNamespaceDeleted polls until the namespace is gone. The wait is
// bounded by timeout and cancellable through ctx; exceeding the bound
// returns model.ErrTeardownTimeout, which callers report but do not retry.
func (c *Client) WaitNamespaceDeleted(ctx context.Context, name string, interval, timeout time.Duration) error {
	if err := c.check(); err != nil {
		return err
	}
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		_, err := c.Clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return false, nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wait.Interrupted(err) {
		return fmt.Errorf("namespace %s: %w", name, model.ErrTeardownTimeout)
	}
	return fmt.Errorf("wait for namespace %s deletion: %w", name, err)
}
