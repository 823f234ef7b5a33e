package kube

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/podspace/podspace/internal/logging"
)

// TeardownWorkspaceResources deletes everything inside a workspace
// namespace ahead of the namespace deletion itself. Every step is
// best-effort: a failure is logged and the remaining kinds are still
// processed, so a partially provisioned namespace tears down as far as
// possible. The caller deletes the namespace afterwards, which sweeps up
// anything left behind.
func (c *Client) TeardownWorkspaceResources(ctx context.Context, namespace string) error {
	if err := c.check(); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	policy := metav1.DeletePropagationForeground
	warn := func(kind, name string, err error) {
		logger.Warn(ctx, "teardown: delete "+kind+" failed",
			"namespace", namespace, "name", name, "error", err)
	}

	if deps, err := c.Clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("deployments", "", err)
	} else {
		for _, d := range deps.Items {
			if err := c.Clientset.AppsV1().Deployments(namespace).Delete(ctx, d.Name, metav1.DeleteOptions{PropagationPolicy: &policy}); err != nil {
				warn("deployment", d.Name, err)
			}
		}
	}
	if ings, err := c.Clientset.NetworkingV1().Ingresses(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("ingresses", "", err)
	} else {
		for _, ing := range ings.Items {
			if err := c.Clientset.NetworkingV1().Ingresses(namespace).Delete(ctx, ing.Name, metav1.DeleteOptions{}); err != nil {
				warn("ingress", ing.Name, err)
			}
		}
	}
	if svcs, err := c.Clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("services", "", err)
	} else {
		for _, svc := range svcs.Items {
			if err := c.Clientset.CoreV1().Services(namespace).Delete(ctx, svc.Name, metav1.DeleteOptions{}); err != nil {
				warn("service", svc.Name, err)
			}
		}
	}
	if cms, err := c.Clientset.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("configmaps", "", err)
	} else {
		for _, cm := range cms.Items {
			if err := c.Clientset.CoreV1().ConfigMaps(namespace).Delete(ctx, cm.Name, metav1.DeleteOptions{}); err != nil {
				warn("configmap", cm.Name, err)
			}
		}
	}
	if secs, err := c.Clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("secrets", "", err)
	} else {
		for _, sec := range secs.Items {
			if err := c.Clientset.CoreV1().Secrets(namespace).Delete(ctx, sec.Name, metav1.DeleteOptions{}); err != nil {
				warn("secret", sec.Name, err)
			}
		}
	}
	if pvcs, err := c.Clientset.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{}); err != nil {
		warn("pvcs", "", err)
	} else {
		for _, pvc := range pvcs.Items {
			if err := c.Clientset.CoreV1().PersistentVolumeClaims(namespace).Delete(ctx, pvc.Name, metav1.DeleteOptions{}); err != nil {
				warn("pvc", pvc.Name, err)
			}
		}
	}
	return nil
}
