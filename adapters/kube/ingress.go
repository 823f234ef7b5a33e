package kube

import (
	"context"
	"fmt"

	netv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/podspace/podspace/imagebuild"
)

// IngressParams carries the routing identity of one workspace.
type IngressParams struct {
	Namespace     string
	WorkspaceID   string
	FQDN          string
	WildcardHost  string // "*.<domain>", matched by the copied TLS secret
	TLSSecretName string
}

// CreateWorkspaceIngress routes the workspace's FQDN to the editor
// service. Timeouts are raised to an hour so long-lived editor websocket
// sessions survive the proxy. Idempotent.
func (c *Client) CreateWorkspaceIngress(ctx context.Context, p IngressParams) error {
	if err := c.check(); err != nil {
		return err
	}
	className := "nginx"
	pathType := netv1.PathTypePrefix
	ing := &netv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:   IngressWorkspace,
			Labels: workspaceLabels(p.WorkspaceID),
			Annotations: map[string]string{
				"nginx.ingress.kubernetes.io/proxy-read-timeout": "3600",
				"nginx.ingress.kubernetes.io/proxy-send-timeout": "3600",
				"nginx.ingress.kubernetes.io/proxy-body-size":    "0",
			},
		},
		Spec: netv1.IngressSpec{
			IngressClassName: &className,
			TLS: []netv1.IngressTLS{
				{
					Hosts:      []string{p.WildcardHost},
					SecretName: p.TLSSecretName,
				},
			},
			Rules: []netv1.IngressRule{
				{
					Host: p.FQDN,
					IngressRuleValue: netv1.IngressRuleValue{
						HTTP: &netv1.HTTPIngressRuleValue{
							Paths: []netv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: netv1.IngressBackend{
										Service: &netv1.IngressServiceBackend{
											Name: ServiceWorkspace,
											Port: netv1.ServiceBackendPort{Number: imagebuild.EditorPort},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
	_, err := c.Clientset.NetworkingV1().Ingresses(p.Namespace).Create(ctx, ing, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create ingress %s/%s: %w", p.Namespace, IngressWorkspace, err)
	}
	return nil
}
