package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/process"
)

func newStack() *cdkv1alpha1.CdkTsStack {
	return &cdkv1alpha1.CdkTsStack{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "ns"},
		Spec: cdkv1alpha1.CdkTsStackSpec{
			StackName:             "my-stack",
			CredentialsSecretName: "aws-creds",
			Source: cdkv1alpha1.StackSource{
				Git: cdkv1alpha1.GitSource{Repository: "https://example.test/repo.git"},
			},
		},
	}
}

func TestRun_EmptyScriptIsNoOp(t *testing.T) {
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{}}
	err := e.Run(context.Background(), "beforeDeploy", "", Context{Stack: newStack(), WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("expected no error for empty script, got %v", err)
	}
}

func TestRun_SuccessfulScriptWritesMarkerFile(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{}}

	err := e.Run(context.Background(), "beforeDeploy", "touch \""+marker+"\"", Context{
		Stack:   newStack(),
		WorkDir: dir,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, statErr := os.Stat(marker); statErr != nil {
		t.Errorf("expected marker file to exist: %v", statErr)
	}
}

func TestRun_EnvContractIncludesOperationAndStackFields(t *testing.T) {
	dir := t.TempDir()
	envDump := filepath.Join(dir, "env.txt")
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{}}

	err := e.Run(context.Background(), "beforeDeploy", "env > \""+envDump+"\"", Context{
		Stack:   newStack(),
		WorkDir: dir,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	contents, err := os.ReadFile(envDump)
	if err != nil {
		t.Fatalf("reading env dump: %v", err)
	}
	out := string(contents)
	for _, want := range []string{
		"CDK_STACK_NAME=my-stack",
		"CDK_STACK_NAMESPACE=ns",
		"CDK_STACK_RESOURCE_NAME=demo",
		"CDK_OPERATION=beforeDeploy",
		"CDK_GIT_REPOSITORY=https://example.test/repo.git",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected env to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_DriftDetectedOnlySetForAfterDriftDetection(t *testing.T) {
	dir := t.TempDir()
	envDump := filepath.Join(dir, "env.txt")
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{}}
	drift := true

	err := e.Run(context.Background(), "afterDriftDetection", "env > \""+envDump+"\"", Context{
		Stack:         newStack(),
		WorkDir:       dir,
		DriftDetected: &drift,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	out, _ := os.ReadFile(envDump)
	if !strings.Contains(string(out), "DRIFT_DETECTED=true") {
		t.Errorf("expected DRIFT_DETECTED=true in env, got:\n%s", out)
	}
}

func TestRun_NonZeroExitEmitsWarningEventAndReturnsNil(t *testing.T) {
	rec := record.NewFakeRecorder(8)
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{Recorder: rec}}

	err := e.Run(context.Background(), "beforeDestroy", "exit 3", Context{
		Stack:   newStack(),
		WorkDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("expected Run to swallow a non-zero hook exit, got %v", err)
	}

	if !recordedEvent(rec, "LifecycleHookFailure") {
		t.Errorf("expected a LifecycleHookFailure event to be recorded")
	}
}

func TestRun_SuccessEmitsStartAndSuccessEvents(t *testing.T) {
	rec := record.NewFakeRecorder(8)
	e := &Executor{Runner: &process.Runner{}, Gateway: &gateway.Gateway{Recorder: rec}}

	err := e.Run(context.Background(), "afterDeploy", "true", Context{
		Stack:   newStack(),
		WorkDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !recordedEvent(rec, "LifecycleHookStart") {
		t.Errorf("expected a LifecycleHookStart event to be recorded")
	}
	if !recordedEvent(rec, "LifecycleHookSuccess") {
		t.Errorf("expected a LifecycleHookSuccess event to be recorded")
	}
}

// recordedEvent drains the fake recorder's buffered events looking for a
// reason substring. Drained events are not restored.
func recordedEvent(rec *record.FakeRecorder, reason string) bool {
	for {
		select {
		case evt := <-rec.Events:
			if strings.Contains(evt, reason) {
				return true
			}
		default:
			return false
		}
	}
}

