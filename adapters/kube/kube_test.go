package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/podspace/podspace/domain/model"
	"github.com/podspace/podspace/imagebuild"
)

func testClient() *Client {
	return NewClientFromClientset(fake.NewSimpleClientset())
}

func TestCreateWorkspaceNamespace(t *testing.T) {
	ctx := context.Background()
	c := testClient()

	p := NamespaceParams{Name: "workspace-w1", WorkspaceID: "w1", FQDN: "abc.ws.example.com"}
	require.NoError(t, c.CreateWorkspaceNamespace(ctx, p))
	// Second create is a no-op.
	require.NoError(t, c.CreateWorkspaceNamespace(ctx, p))

	ns, err := c.Clientset.CoreV1().Namespaces().Get(ctx, "workspace-w1", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "w1", ns.Labels[LabelWorkspaceID])
	assert.Equal(t, LabelTypeWorkspace, ns.Labels[LabelType])
	assert.Equal(t, LabelLifecycleInitializing, ns.Labels[LabelLifecycle])

	require.NoError(t, c.SetNamespaceLifecycle(ctx, "workspace-w1", LabelLifecycleReady))
	ns, err = c.Clientset.CoreV1().Namespaces().Get(ctx, "workspace-w1", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, LabelLifecycleReady, ns.Labels[LabelLifecycle])
}

func TestCreateWorkspaceNamespacePoolType(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateWorkspaceNamespace(ctx, NamespaceParams{
		Name: "workspace-p1", WorkspaceID: "p1", ForPool: true,
	}))
	ns, err := c.Clientset.CoreV1().Namespaces().Get(ctx, "workspace-p1", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, LabelTypePool, ns.Labels[LabelType])
}

func TestDeleteNamespaceTolerance(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	assert.NoError(t, c.DeleteNamespace(ctx, "no-such-namespace"))
}

func TestWaitNamespaceDeletedTimeout(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateWorkspaceNamespace(ctx, NamespaceParams{Name: "workspace-w1", WorkspaceID: "w1"}))

	err := c.WaitNamespaceDeleted(ctx, "workspace-w1", time.Millisecond, 10*time.Millisecond)
	assert.ErrorIs(t, err, model.ErrTeardownTimeout)
}

func TestWaitNamespaceDeletedGone(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	assert.NoError(t, c.WaitNamespaceDeleted(ctx, "workspace-w1", time.Millisecond, 100*time.Millisecond))
}

func TestCreateWorkspaceStorage(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	p := StorageParams{
		Namespace:     "workspace-w1",
		WorkspaceID:   "w1",
		ClassName:     "efs-sc",
		WorkspaceSize: "10Gi",
		RegistrySize:  "5Gi",
	}
	require.NoError(t, c.CreateWorkspaceStorage(ctx, p))
	require.NoError(t, c.CreateWorkspaceStorage(ctx, p))

	ws, err := c.Clientset.CoreV1().PersistentVolumeClaims("workspace-w1").Get(ctx, PVCWorkspaceData, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany}, ws.Spec.AccessModes)
	assert.Equal(t, "efs-sc", *ws.Spec.StorageClassName)

	reg, err := c.Clientset.CoreV1().PersistentVolumeClaims("workspace-w1").Get(ctx, PVCRegistryStorage, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce}, reg.Spec.AccessModes)
}

func TestCreateWorkspaceStorageBadSize(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	err := c.CreateWorkspaceStorage(ctx, StorageParams{
		Namespace: "workspace-w1", WorkspaceID: "w1", WorkspaceSize: "lots", RegistrySize: "5Gi",
	})
	assert.Error(t, err)
}

func TestCreateWorkspaceSecret(t *testing.T) {
	ctx := context.Background()
	c := testClient()

	require.NoError(t, c.CreateWorkspaceSecret(ctx, SecretParams{
		Namespace: "workspace-w1", WorkspaceID: "w1", Password: "pw",
	}))
	sec, err := c.Clientset.CoreV1().Secrets("workspace-w1").Get(ctx, SecretWorkspace, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), sec.Data[SecretKeyPassword])
	_, hasToken := sec.Data[SecretKeyGitToken]
	assert.False(t, hasToken)
}

func TestCreateRegistryPullSecret(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateRegistryPullSecret(ctx, "workspace-w1", "w1", "registry:5000"))
	sec, err := c.Clientset.CoreV1().Secrets("workspace-w1").Get(ctx, SecretRegistryPull, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.SecretTypeDockerConfigJson, sec.Type)
	assert.Contains(t, string(sec.Data[corev1.DockerConfigJsonKey]), `"registry:5000"`)
}

func TestCopySecretMissingSourceSkipped(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	assert.NoError(t, c.CopySecret(ctx, "podspace-system", "workspace-w1", "tls-cert", "w1"))
}

func TestCopySecret(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	_, err := c.Clientset.CoreV1().Secrets("podspace-system").Create(ctx, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "tls-cert"},
		Type:       corev1.SecretTypeTLS,
		Data:       map[string][]byte{"tls.crt": []byte("cert")},
	}, metav1.CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, c.CopySecret(ctx, "podspace-system", "workspace-w1", "tls-cert", "w1"))
	sec, err := c.Clientset.CoreV1().Secrets("workspace-w1").Get(ctx, "tls-cert", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.SecretTypeTLS, sec.Type)
	assert.Equal(t, []byte("cert"), sec.Data["tls.crt"])
}

func TestCreateServiceAccountMergesAnnotations(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateServiceAccount(ctx, "workspace-w1", "workspace-controller", "w1", map[string]string{"a": "1"}))
	require.NoError(t, c.CreateServiceAccount(ctx, "workspace-w1", "workspace-controller", "w1", map[string]string{"b": "2"}))
	sa, err := c.Clientset.CoreV1().ServiceAccounts("workspace-w1").Get(ctx, "workspace-controller", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1", sa.Annotations["a"])
	assert.Equal(t, "2", sa.Annotations["b"])
}

func TestCreateWorkspaceWorkloadOrdering(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	plan := imagebuild.NewPlan("registry:5000", "workspace-images", "workspace-w1", "20260314092653")
	require.NoError(t, c.CreateWorkspaceWorkload(ctx, WorkloadParams{
		Namespace:          "workspace-w1",
		WorkspaceID:        "w1",
		Subdomain:          "abc",
		Domain:             "ws.example.com",
		Plan:               plan,
		ServiceAccountName: "workspace-controller",
	}))

	dep, err := c.Clientset.AppsV1().Deployments("workspace-w1").Get(ctx, DeploymentWorkspace, metav1.GetOptions{})
	require.NoError(t, err)
	inits := dep.Spec.Template.Spec.InitContainers
	require.Len(t, inits, 3)
	assert.Equal(t, "repo-init", inits[0].Name)
	assert.Equal(t, "build-base-image", inits[1].Name)
	assert.Equal(t, "build-wrapper-image", inits[2].Name)

	// The editor runs the wrapper image, not the base image.
	editor := dep.Spec.Template.Spec.Containers[0]
	assert.Equal(t, plan.WrapperTag(), editor.Image)

	// No port-detector sidecar unless its script ConfigMap was configured.
	assert.Len(t, dep.Spec.Template.Spec.Containers, 1)
}

func TestCreateWorkspaceWorkloadPortDetector(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	plan := imagebuild.NewPlan("registry:5000", "workspace-images", "workspace-w1", "20260314092653")
	require.NoError(t, c.CreateWorkspaceWorkload(ctx, WorkloadParams{
		Namespace:             "workspace-w1",
		WorkspaceID:           "w1",
		Plan:                  plan,
		PortDetectorConfigMap: "port-detector",
	}))
	dep, err := c.Clientset.AppsV1().Deployments("workspace-w1").Get(ctx, DeploymentWorkspace, metav1.GetOptions{})
	require.NoError(t, err)
	require.Len(t, dep.Spec.Template.Spec.Containers, 2)
	assert.Equal(t, "port-detector", dep.Spec.Template.Spec.Containers[1].Name)
}

func TestCreateWorkspaceServiceAndIngress(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateWorkspaceService(ctx, "workspace-w1", "w1"))
	require.NoError(t, c.CreateWorkspaceIngress(ctx, IngressParams{
		Namespace:     "workspace-w1",
		WorkspaceID:   "w1",
		FQDN:          "abc.ws.example.com",
		WildcardHost:  "*.ws.example.com",
		TLSSecretName: "tls-cert",
	}))

	svc, err := c.Clientset.CoreV1().Services("workspace-w1").Get(ctx, ServiceWorkspace, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(imagebuild.EditorPort), svc.Spec.Ports[0].Port)

	ing, err := c.Clientset.NetworkingV1().Ingresses("workspace-w1").Get(ctx, IngressWorkspace, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "abc.ws.example.com", ing.Spec.Rules[0].Host)
	assert.Equal(t, "tls-cert", ing.Spec.TLS[0].SecretName)
}

func TestTeardownWorkspaceResources(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	require.NoError(t, c.CreateWorkspaceService(ctx, "workspace-w1", "w1"))
	require.NoError(t, c.CreateWorkspaceSecret(ctx, SecretParams{Namespace: "workspace-w1", WorkspaceID: "w1", Password: "pw"}))
	require.NoError(t, c.CreateConfigMap(ctx, "workspace-w1", ConfigMapInfo, "w1", map[string]string{"k": "v"}))
	require.NoError(t, c.CreateWorkspaceStorage(ctx, StorageParams{
		Namespace: "workspace-w1", WorkspaceID: "w1", ClassName: "efs-sc", WorkspaceSize: "10Gi", RegistrySize: "5Gi",
	}))
	plan := imagebuild.NewPlan("registry:5000", "workspace-images", "workspace-w1", "20260314092653")
	require.NoError(t, c.CreateWorkspaceWorkload(ctx, WorkloadParams{Namespace: "workspace-w1", WorkspaceID: "w1", Plan: plan}))
	require.NoError(t, c.CreateWorkspaceIngress(ctx, IngressParams{
		Namespace: "workspace-w1", WorkspaceID: "w1", FQDN: "abc.ws.example.com", WildcardHost: "*.ws.example.com", TLSSecretName: "tls-cert",
	}))

	require.NoError(t, c.TeardownWorkspaceResources(ctx, "workspace-w1"))

	deps, err := c.Clientset.AppsV1().Deployments("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, deps.Items)
	ings, err := c.Clientset.NetworkingV1().Ingresses("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, ings.Items)
	svcs, err := c.Clientset.CoreV1().Services("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, svcs.Items)
	cms, err := c.Clientset.CoreV1().ConfigMaps("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, cms.Items)
	secs, err := c.Clientset.CoreV1().Secrets("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, secs.Items)
	pvcs, err := c.Clientset.CoreV1().PersistentVolumeClaims("workspace-w1").List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, pvcs.Items)
}
