package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// StorageParams carries the storage class and claim sizes for one
// workspace. Values come from the orchestrator's config snapshot.
type StorageParams struct {
	Namespace     string
	WorkspaceID   string
	ClassName     string
	WorkspaceSize string // e.g. "10Gi"
	RegistrySize  string // e.g. "5Gi"
}

// CreateWorkspaceStorage creates the two persistent volume claims of a
// workspace: the shared workspace volume (ReadWriteMany, mounted by the
// init containers and the editor) and the build-layer cache volume
// (ReadWriteOnce). Idempotent.
func (c *Client) CreateWorkspaceStorage(ctx context.Context, p StorageParams) error {
	if err := c.check(); err != nil {
		return err
	}
	wsQty, err := resource.ParseQuantity(p.WorkspaceSize)
	if err != nil {
		return fmt.Errorf("parse workspace volume size %q: %w", p.WorkspaceSize, err)
	}
	regQty, err := resource.ParseQuantity(p.RegistrySize)
	if err != nil {
		return fmt.Errorf("parse registry volume size %q: %w", p.RegistrySize, err)
	}

	claims := []*corev1.PersistentVolumeClaim{
		pvc(PVCWorkspaceData, p, corev1.ReadWriteMany, wsQty),
		pvc(PVCRegistryStorage, p, corev1.ReadWriteOnce, regQty),
	}
	for _, claim := range claims {
		_, err := c.Clientset.CoreV1().PersistentVolumeClaims(p.Namespace).Create(ctx, claim, metav1.CreateOptions{})
		if err != nil && !apierrors.IsAlreadyExists(err) {
			return fmt.Errorf("create pvc %s/%s: %w", p.Namespace, claim.Name, err)
		}
	}
	return nil
}

func pvc(name string, p StorageParams, mode corev1.PersistentVolumeAccessMode, size resource.Quantity) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: workspaceLabels(p.WorkspaceID),
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes:      []corev1.PersistentVolumeAccessMode{mode},
			StorageClassName: &p.ClassName,
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: size,
				},
			},
		},
	}
}
