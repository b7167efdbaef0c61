package sweep

import (
	"bytes"
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	apiruntime "k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/metrics"
)

func testScheme(t *testing.T) *apiruntime.Scheme {
	t.Helper()
	scheme := apiruntime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		t.Fatalf("registering client-go scheme: %v", err)
	}
	if err := cdkv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("registering cdktsstack scheme: %v", err)
	}
	return scheme
}

func newStack(name, phase string, driftDetection, deploy bool) *cdkv1alpha1.CdkTsStack {
	s := &cdkv1alpha1.CdkTsStack{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "ns"},
		Spec: cdkv1alpha1.CdkTsStackSpec{
			StackName:             "stack-" + name,
			CredentialsSecretName: "aws-creds",
			Actions:               cdkv1alpha1.StackActions{DriftDetection: driftDetection, Deploy: deploy},
		},
	}
	s.Status.Phase = phase
	return s
}

func TestSweeperRun_OnlyChecksSucceededAndEnabled(t *testing.T) {
	eligible := newStack("eligible", cdkv1alpha1.PhaseSucceeded, true, true)
	wrongPhase := newStack("wrong-phase", cdkv1alpha1.PhaseDeploying, true, true)
	disabled := newStack("disabled", cdkv1alpha1.PhaseSucceeded, false, true)

	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).
		WithObjects(eligible, wrongPhase, disabled).
		WithStatusSubresource(eligible, wrongPhase, disabled).Build()
	gw := &gateway.Gateway{Client: fc}

	var checked []string
	s := &Sweeper{
		Gateway: gw,
		Group:   "drift-status",
		Enabled: func(st *cdkv1alpha1.CdkTsStack) bool { return st.Spec.Actions.DriftDetection },
		Check:   func(_ context.Context, st *cdkv1alpha1.CdkTsStack) { checked = append(checked, st.Name) },
	}

	s.Run(context.Background())

	if len(checked) != 1 || checked[0] != "eligible" {
		t.Errorf("expected only 'eligible' to be checked, got %v", checked)
	}
}

func TestSweeperRun_EmitsGroupExpireFirst(t *testing.T) {
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	gw := &gateway.Gateway{Client: fc}

	var buf bytes.Buffer
	m := metrics.NewWithWriter(&buf, "cdktsstack_")

	s := &Sweeper{Gateway: gw, Metrics: m, Group: "drift-status", Check: func(context.Context, *cdkv1alpha1.CdkTsStack) {}}
	s.Run(context.Background())

	if buf.Len() == 0 {
		t.Fatal("expected a group-expire record to be written")
	}
}

func TestSweeperRun_IsolatesPerResourcePanic(t *testing.T) {
	a := newStack("a", cdkv1alpha1.PhaseSucceeded, true, true)
	b := newStack("b", cdkv1alpha1.PhaseSucceeded, true, true)
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(a, b).WithStatusSubresource(a, b).Build()
	gw := &gateway.Gateway{Client: fc}

	var checked []string
	s := &Sweeper{
		Gateway: gw,
		Enabled: func(*cdkv1alpha1.CdkTsStack) bool { return true },
		Check: func(_ context.Context, st *cdkv1alpha1.CdkTsStack) {
			if st.Name == "a" {
				panic("boom")
			}
			checked = append(checked, st.Name)
		},
	}

	s.Run(context.Background())

	if len(checked) != 1 || checked[0] != "b" {
		t.Errorf("expected sweep to continue past a panicking resource, got %v", checked)
	}
}

func TestNewScheduler_AddSweepAndStopDoesNotError(t *testing.T) {
	sched := NewScheduler()
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	gw := &gateway.Gateway{Client: fc}
	s := &Sweeper{Gateway: gw, Check: func(context.Context, *cdkv1alpha1.CdkTsStack) {}}

	if err := sched.AddSweep(context.Background(), "*/30 * * * *", s); err != nil {
		t.Fatalf("AddSweep returned error: %v", err)
	}
	sched.Start()
	sched.Stop()
}
