package gateway

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		t.Fatalf("registering client-go scheme: %v", err)
	}
	if err := cdkv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("registering cdktsstack scheme: %v", err)
	}
	return scheme
}

func newStack(name, namespace string) *cdkv1alpha1.CdkTsStack {
	return &cdkv1alpha1.CdkTsStack{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: cdkv1alpha1.CdkTsStackSpec{
			StackName:             "my-stack",
			CredentialsSecretName: "aws-creds",
		},
	}
}

func TestGet_Success(t *testing.T) {
	stack := newStack("demo", "ns")
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(stack).WithStatusSubresource(stack).Build()
	g := &Gateway{Client: fc}

	got, err := g.Get(context.Background(), "ns", "demo")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Spec.StackName != "my-stack" {
		t.Errorf("unexpected object: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	g := &Gateway{Client: fc}

	_, err := g.Get(context.Background(), "ns", "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestPatchStatus_SetsFields(t *testing.T) {
	stack := newStack("demo", "ns")
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(stack).WithStatusSubresource(stack).Build()
	g := &Gateway{Client: fc}

	err := g.PatchStatus(context.Background(), "ns", "demo", StatusPatch{
		Phase:         cdkv1alpha1.PhaseSucceeded,
		Message:       "deployed",
		SetLastDeploy: true,
	})
	if err != nil {
		t.Fatalf("PatchStatus returned error: %v", err)
	}

	got, err := g.Get(context.Background(), "ns", "demo")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Status.Phase != cdkv1alpha1.PhaseSucceeded || got.Status.Message != "deployed" {
		t.Errorf("unexpected status: %+v", got.Status)
	}
	if got.Status.LastDeploy == nil {
		t.Errorf("expected LastDeploy to be set")
	}
}

func TestPatchStatus_ToleratesNotFound(t *testing.T) {
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	g := &Gateway{Client: fc}

	err := g.PatchStatus(context.Background(), "ns", "gone", StatusPatch{Phase: cdkv1alpha1.PhaseFailed, Message: "x"})
	if err != nil {
		t.Fatalf("expected PatchStatus to tolerate a missing object, got %v", err)
	}
}

func TestAddFinalizer_IdempotentAndReportsChange(t *testing.T) {
	stack := newStack("demo", "ns")
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(stack).WithStatusSubresource(stack).Build()
	g := &Gateway{Client: fc}

	added, err := g.AddFinalizer(context.Background(), "ns", "demo")
	if err != nil {
		t.Fatalf("AddFinalizer returned error: %v", err)
	}
	if !added {
		t.Errorf("expected finalizer to be newly added")
	}

	added, err = g.AddFinalizer(context.Background(), "ns", "demo")
	if err != nil {
		t.Fatalf("AddFinalizer returned error: %v", err)
	}
	if added {
		t.Errorf("expected second AddFinalizer call to be a no-op")
	}

	got, _ := g.Get(context.Background(), "ns", "demo")
	if !controllerutil.ContainsFinalizer(got, cdkv1alpha1.Finalizer) {
		t.Errorf("expected finalizer present on object")
	}
}

func TestRemoveFinalizer_RemovesAndIsIdempotent(t *testing.T) {
	stack := newStack("demo", "ns")
	controllerutil.AddFinalizer(stack, cdkv1alpha1.Finalizer)
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(stack).WithStatusSubresource(stack).Build()
	g := &Gateway{Client: fc}

	if err := g.RemoveFinalizer(context.Background(), "ns", "demo"); err != nil {
		t.Fatalf("RemoveFinalizer returned error: %v", err)
	}
	got, _ := g.Get(context.Background(), "ns", "demo")
	if controllerutil.ContainsFinalizer(got, cdkv1alpha1.Finalizer) {
		t.Errorf("expected finalizer to be removed")
	}

	if err := g.RemoveFinalizer(context.Background(), "ns", "demo"); err != nil {
		t.Fatalf("second RemoveFinalizer call returned error: %v", err)
	}
}

func TestRemoveFinalizer_ToleratesNotFound(t *testing.T) {
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()
	g := &Gateway{Client: fc}

	if err := g.RemoveFinalizer(context.Background(), "ns", "gone"); err != nil {
		t.Fatalf("expected RemoveFinalizer to tolerate a missing object, got %v", err)
	}
}

func TestEmitEvent_NilRecorderIsSafe(t *testing.T) {
	g := &Gateway{}
	stack := newStack("demo", "ns")
	g.EmitEvent(stack, "Warning", "LifecycleHookFailure", "hook %s failed", "beforeDeploy")
}

func TestEmitEvent_DelegatesToRecorder(t *testing.T) {
	rec := record.NewFakeRecorder(1)
	g := &Gateway{Recorder: rec}
	stack := newStack("demo", "ns")

	g.EmitEvent(stack, "Warning", "LifecycleHookFailure", "hook %s failed", "beforeDeploy")

	select {
	case e := <-rec.Events:
		if e == "" {
			t.Errorf("expected a non-empty event")
		}
	default:
		t.Errorf("expected an event to be recorded")
	}
}

func TestList_ReturnsAllNamespaces(t *testing.T) {
	a := newStack("a", "ns1")
	b := newStack("b", "ns2")
	fc := fake.NewClientBuilder().WithScheme(testScheme(t)).WithObjects(a, b).WithStatusSubresource(a, b).Build()
	g := &Gateway{Client: fc}

	list, err := g.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(list.Items))
	}
}
