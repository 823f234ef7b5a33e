package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/podspace/podspace/imagebuild"
)

// CreateWorkspaceService exposes the editor port inside the cluster.
// Idempotent.
func (c *Client) CreateWorkspaceService(ctx context.Context, namespace, workspaceID string) error {
	if err := c.check(); err != nil {
		return err
	}
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:   ServiceWorkspace,
			Labels: workspaceLabels(workspaceID),
		},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{LabelApp: LabelAppValue},
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       imagebuild.EditorPort,
					TargetPort: intstr.FromInt32(imagebuild.EditorPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
	_, err := c.Clientset.CoreV1().Services(namespace).Create(ctx, svc, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create service %s/%s: %w", namespace, ServiceWorkspace, err)
	}
	return nil
}
