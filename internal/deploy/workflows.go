/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package deploy implements the external-process side of every phase of
// the deploy state machine plus the three self-contained workflows
// (destroy, drift check, Git-sync check). The reconciler drives the
// per-phase Clone/Install/Deploy steps one Modified event at a time; the
// sweepers invoke DriftCheck/GitSyncCheck wholesale.
package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/credentials"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/hooks"
	"github.com/awscdk-operator/cdk-ts-operator/internal/metrics"
	"github.com/awscdk-operator/cdk-ts-operator/internal/process"
	"github.com/awscdk-operator/cdk-ts-operator/internal/workspace"
)

// Per-step subprocess deadlines. `cdk deploy` uses
// process.DefaultDeployTimeout directly; destroy gets the same budget
// since a `cdk destroy` synth is no cheaper than the deploy it undoes.
// drift/diff get a shorter budget since they never provision anything,
// only synth and compare.
const (
	cloneTimeout   = 5 * time.Minute
	installTimeout = 10 * time.Minute
	destroyTimeout = process.DefaultDeployTimeout
	driftTimeout   = 15 * time.Minute
	diffTimeout    = 15 * time.Minute
)

// Workflows wires together the leaf components to implement the deploy
// state machine and the three single-shot workflows.
type Workflows struct {
	Runner      *process.Runner
	Hooks       *hooks.Executor
	Gateway     *gateway.Gateway
	Credentials *credentials.Loader
	Metrics     *metrics.Recorder

	// VerifyIdentity resolves the AWS account ID used for the CDK account
	// env mirrors. Defaults to credentials.VerifyCallerIdentity; tests
	// substitute a stub so no STS round-trip happens.
	VerifyIdentity func(ctx context.Context, creds credentials.Credentials) (string, error)

	// ExtraEnv is appended to every npm/cdk child process environment, after
	// the operator's own environment and before per-resource credentials.
	// The operator-level CDK_DEFAULT_ACCOUNT / CDK_DEFAULT_REGION /
	// NODE_OPTIONS settings arrive here.
	ExtraEnv []string
}

// baseEnv is the starting environment for npm/cdk child processes.
func (w *Workflows) baseEnv() []string {
	return append(os.Environ(), w.ExtraEnv...)
}

// resolveAccount runs the identity pre-flight and returns the account ID,
// or "" when it could not be resolved. Failure only costs the account env
// mirrors; cdk resolves the account itself from the credentials.
func (w *Workflows) resolveAccount(ctx context.Context, creds credentials.Credentials) string {
	verify := w.VerifyIdentity
	if verify == nil {
		verify = credentials.VerifyCallerIdentity
	}
	accountID, err := verify(ctx, creds)
	if err != nil {
		log.FromContext(ctx).Error(err, "caller identity verification failed, proceeding without account mirroring")
		return ""
	}
	return accountID
}

// Clone performs the Cloning phase step: clears any prior deploy workspace
// for this resource and shallow-clones spec.source.git at spec.source.git.ref.
func (w *Workflows) Clone(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) (string, error) {
	ws := workspace.ForStack(stack.Namespace, stack.Name)
	if err := ws.Reset(); err != nil {
		return "", fmt.Errorf("clearing workspace: %w", err)
	}
	return w.cloneRepo(ctx, "Cloning", ws.Dir(), stack)
}

// cloneRepo shallow-clones the stack's repository into dir, materializing
// the optional SSH deploy key for the duration of the clone. On a non-zero
// git exit the returned string carries the truncated clone log.
func (w *Workflows) cloneRepo(ctx context.Context, phase, dir string, stack *cdkv1alpha1.CdkTsStack) (string, error) {
	env := cloneEnv()
	if name := stack.Spec.Source.Git.SSHSecretName; name != "" {
		keyPath, cleanup, err := w.Credentials.WriteSSHKey(ctx, stack.Namespace, name)
		if err != nil {
			return "", fmt.Errorf("materializing ssh key: %w", err)
		}
		defer cleanup()
		env = append(env, "GIT_SSH_COMMAND=ssh -i "+keyPath+" -o IdentitiesOnly=yes -o StrictHostKeyChecking=accept-new")
	}

	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	res, err := w.Runner.Run(cloneCtx, phase, dir, env,
		"git", "clone", "--depth", "1", "--branch", stack.EffectiveRef(), stack.Spec.Source.Git.Repository, ".")
	if err != nil {
		return "", fmt.Errorf("starting git clone: %w", err)
	}
	if res.ExitCode != 0 {
		return truncate(res.Output, 2000), fmt.Errorf("git clone exited %d", res.ExitCode)
	}
	return "", nil
}

// cloneEnv sets a stable Git identity so any commit created incidentally by
// tooling during clone/install never fails for lack of user.name/email.
func cloneEnv() []string {
	return append(os.Environ(),
		"GIT_AUTHOR_NAME=cdkts-operator",
		"GIT_AUTHOR_EMAIL=cdkts-operator@localhost",
		"GIT_COMMITTER_NAME=cdkts-operator",
		"GIT_COMMITTER_EMAIL=cdkts-operator@localhost",
	)
}

// Install performs the Installing phase step. skipped reports whether no
// package.json was present (npm ci was not run, which is not a failure).
func (w *Workflows) Install(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) (skipped bool, message string, err error) {
	ws := workspace.ForStack(stack.Namespace, stack.Name)
	projectDir := ws.ProjectDir(stack.EffectivePath())

	if _, statErr := os.Stat(projectDir); statErr != nil {
		return false, fmt.Sprintf("configured path %q does not exist in the cloned repository", stack.EffectivePath()), fmt.Errorf("stat project dir: %w", statErr)
	}

	if _, statErr := os.Stat(filepath.Join(projectDir, "package.json")); statErr != nil {
		return true, "", nil
	}

	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	res, err := w.Runner.Run(installCtx, "Installing", projectDir, w.baseEnv(), "npm", "ci", "--no-audit", "--no-fund")
	if err != nil {
		return false, "", fmt.Errorf("starting npm ci: %w", err)
	}
	if res.ExitCode != 0 {
		return false, truncate(res.Output, 2000), fmt.Errorf("npm ci exited %d", res.ExitCode)
	}
	return false, "", nil
}

// deployOutcome is the result of running `cdk deploy` once, shared by the
// Deploying phase step and the Git-sync sweeper's auto-redeploy.
type deployOutcome struct {
	Succeeded bool
	Summary   string
}

// runDeploy executes `cdk deploy` in projectDir with the given credentials
// overlay, running the beforeDeploy hook first and the afterDeploy hook only
// after a successful deploy. It does not patch status; callers apply the
// outcome to whichever phase they own.
func (w *Workflows) runDeploy(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, projectDir string, creds credentials.Credentials, accountID string) (deployOutcome, error) {
	logger := log.FromContext(ctx)
	env := append(w.baseEnv(), creds.EnvVars(accountID)...)

	hookCtx := hooks.Context{Stack: stack, WorkDir: projectDir, CredentialEnv: creds.EnvVars(accountID)}
	if err := w.Hooks.Run(ctx, "beforeDeploy", stack.Spec.LifecycleHooks.BeforeDeploy, hookCtx); err != nil {
		logger.Error(err, "beforeDeploy hook failed to start")
	}

	w.Gateway.EmitEvent(stack, "Normal", "StackDeployStart", "cdk deploy starting for stack %q", stack.Spec.StackName)

	deployCtx, cancel := context.WithTimeout(ctx, process.DefaultDeployTimeout)
	defer cancel()

	res, err := w.Runner.Run(deployCtx, "Deploying", projectDir, env, "cdk", deployArgs(stack.Spec.StackName, stack.Spec.CdkContext)...)
	if err != nil {
		return deployOutcome{}, fmt.Errorf("starting cdk deploy: %w", err)
	}

	if res.ExitCode == 0 {
		if err := w.Hooks.Run(ctx, "afterDeploy", stack.Spec.LifecycleHooks.AfterDeploy, hookCtx); err != nil {
			logger.Error(err, "afterDeploy hook failed to start")
		}
		w.Gateway.EmitEvent(stack, "Normal", "StackDeploySuccess", "cdk deploy succeeded for stack %q", stack.Spec.StackName)
		return deployOutcome{Succeeded: true}, nil
	}

	summary := classifyDeployFailure(res.Output, res.ExitCode)
	w.Gateway.EmitEvent(stack, "Warning", "StackDeployFailure", "%s", summary)
	return deployOutcome{Succeeded: false, Summary: summary}, nil
}

// Deploy performs the Deploying phase step.
func (w *Workflows) Deploy(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, creds credentials.Credentials, accountID string) (deployOutcome, error) {
	ws := workspace.ForStack(stack.Namespace, stack.Name)
	projectDir := ws.ProjectDir(stack.EffectivePath())
	return w.runDeploy(ctx, stack, projectDir, creds, accountID)
}

// Destroy is the single-shot destroy workflow. npm ci and hook failures are
// logged and the workflow continues; a failure to create the workspace, to
// re-clone the repository or to start `cdk destroy` ends it with an error.
// The caller removes the finalizer regardless of the outcome reported here.
func (w *Workflows) Destroy(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, creds credentials.Credentials, accountID string) error {
	logger := log.FromContext(ctx)
	ws, err := workspace.New("destroy", stack.Namespace+"-"+stack.Name)
	if err != nil {
		return fmt.Errorf("creating destroy workspace: %w", err)
	}
	defer ws.Remove()

	if _, err := w.cloneRepo(ctx, "Destroy-Clone", ws.Dir(), stack); err != nil {
		return fmt.Errorf("re-cloning repository for destroy: %w", err)
	}

	projectDir := ws.ProjectDir(stack.EffectivePath())
	if _, statErr := os.Stat(projectDir); statErr != nil {
		logger.Info("destroy: configured path not present in clone, nothing to destroy", "path", stack.EffectivePath())
		return nil
	}

	if _, statErr := os.Stat(filepath.Join(projectDir, "package.json")); statErr == nil {
		if _, err := w.Runner.Run(ctx, "Destroy-Install", projectDir, w.baseEnv(), "npm", "ci", "--no-audit", "--no-fund"); err != nil {
			logger.Error(err, "npm ci failed before destroy, continuing anyway")
		}
	}

	env := append(w.baseEnv(), creds.EnvVars(accountID)...)
	hookCtx := hooks.Context{Stack: stack, WorkDir: projectDir, CredentialEnv: creds.EnvVars(accountID)}

	if err := w.Hooks.Run(ctx, "beforeDestroy", stack.Spec.LifecycleHooks.BeforeDestroy, hookCtx); err != nil {
		logger.Error(err, "beforeDestroy hook failed to start")
	}

	destroyCtx, cancel := context.WithTimeout(ctx, destroyTimeout)
	defer cancel()

	res, err := w.Runner.Run(destroyCtx, "Destroy", projectDir, env, "cdk", destroyArgs(stack.Spec.StackName, stack.Spec.CdkContext)...)
	if err != nil {
		return fmt.Errorf("starting cdk destroy: %w", err)
	}

	if err := w.Hooks.Run(ctx, "afterDestroy", stack.Spec.LifecycleHooks.AfterDestroy, hookCtx); err != nil {
		logger.Error(err, "afterDestroy hook failed to start")
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("cdk destroy exited %d", res.ExitCode)
	}
	return nil
}

// DriftCheck is the single-shot drift-detection workflow, invoked
// by the drift sweeper against one Succeeded resource.
func (w *Workflows) DriftCheck(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) {
	logger := log.FromContext(ctx).WithValues("namespace", stack.Namespace, "name", stack.Name)

	// Re-read before taking the owned phase: the sweeper works off a
	// listing that may be stale by the time this resource's turn comes up.
	stack, ok := w.refresh(ctx, stack)
	if !ok {
		return
	}

	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseDriftChecking, Message: "Checking infrastructure drift",
	}); err != nil {
		logger.Error(err, "patching to DriftChecking")
		return
	}
	w.Gateway.EmitEvent(stack, "Normal", "DriftCheckStart", "checking drift for stack %q", stack.Spec.StackName)

	ws, err := workspace.New("drift", stack.Namespace+"-"+stack.Name)
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("creating drift workspace: %v", err))
		return
	}
	defer ws.Remove()

	if _, err := w.cloneRepo(ctx, "Drift-Clone", ws.Dir(), stack); err != nil {
		w.failBack(ctx, stack, "cloning repository for drift check failed")
		return
	}

	projectDir := ws.ProjectDir(stack.EffectivePath())
	if _, statErr := os.Stat(filepath.Join(projectDir, "package.json")); statErr == nil {
		if _, err := w.Runner.Run(ctx, "Drift-Install", projectDir, w.baseEnv(), "npm", "ci", "--no-audit", "--no-fund"); err != nil {
			logger.Error(err, "npm ci failed before drift check, continuing anyway")
		}
	}

	creds, err := w.Credentials.Load(ctx, stack.Namespace, stack.Spec.CredentialsSecretName, stack.EffectiveRegion())
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("loading credentials: %v", err))
		return
	}
	defer creds.Scrub()

	accountID := w.resolveAccount(ctx, creds)

	env := append(w.baseEnv(), creds.EnvVars(accountID)...)
	hookCtx := hooks.Context{Stack: stack, WorkDir: projectDir, CredentialEnv: creds.EnvVars(accountID)}

	if err := w.Hooks.Run(ctx, "beforeDriftDetection", stack.Spec.LifecycleHooks.BeforeDriftDetection, hookCtx); err != nil {
		logger.Error(err, "beforeDriftDetection hook failed to start")
	}

	driftCtx, cancel := context.WithTimeout(ctx, driftTimeout)
	defer cancel()

	res, err := w.Runner.Run(driftCtx, "Drift", projectDir, env, "cdk", driftArgs(stack.Spec.StackName, stack.Spec.CdkContext)...)
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("starting cdk drift: %v", err))
		return
	}
	drifted := driftDetectedFromDriftOutput(res.ExitCode, res.Output)

	now := time.Now()
	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase:          cdkv1alpha1.PhaseSucceeded,
		Message:        driftMessage(drifted),
		DriftDetected:  &drifted,
		LastDriftCheck: &now,
	}); err != nil {
		logger.Error(err, "patching drift check result")
	}
	if drifted {
		w.Gateway.EmitEvent(stack, "Warning", "DriftDetected", "infrastructure drift detected for stack %q", stack.Spec.StackName)
	}

	hookCtx.DriftDetected = &drifted
	if err := w.Hooks.Run(ctx, "afterDriftDetection", stack.Spec.LifecycleHooks.AfterDriftDetection, hookCtx); err != nil {
		logger.Error(err, "afterDriftDetection hook failed to start")
	}

	if w.Metrics != nil {
		labels := metricLabels(stack)
		_ = w.Metrics.CounterAdd(w.Metrics.Name("drift_checks_total"), 1, labels)
		if drifted {
			_ = w.Metrics.CounterAdd(w.Metrics.Name("drifts_detected_total"), 1, labels)
		}
		_ = w.Metrics.GaugeSet(w.Metrics.Name("drift_status"), boolMetric(drifted), labels, "drift-status")
	}
}

// GitSyncCheck is the single-shot Git-sync workflow, invoked by
// the Git-sync sweeper against one Succeeded resource with deploy enabled.
func (w *Workflows) GitSyncCheck(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) {
	logger := log.FromContext(ctx).WithValues("namespace", stack.Namespace, "name", stack.Name)

	stack, ok := w.refresh(ctx, stack)
	if !ok || !stack.Spec.Actions.Deploy {
		return
	}

	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseGitSyncChecking, Message: "Checking Git sync status",
	}); err != nil {
		logger.Error(err, "patching to GitSyncChecking")
		return
	}
	w.Gateway.EmitEvent(stack, "Normal", "GitSyncCheckStart", "checking Git sync for stack %q", stack.Spec.StackName)

	ws, err := workspace.New("gitsync", stack.Namespace+"-"+stack.Name)
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("creating git-sync workspace: %v", err))
		return
	}
	defer ws.Remove()

	if _, err := w.cloneRepo(ctx, "GitSync-Clone", ws.Dir(), stack); err != nil {
		w.failBack(ctx, stack, "cloning repository for git-sync check failed")
		return
	}

	projectDir := ws.ProjectDir(stack.EffectivePath())
	if _, statErr := os.Stat(filepath.Join(projectDir, "package.json")); statErr == nil {
		if _, err := w.Runner.Run(ctx, "GitSync-Install", projectDir, w.baseEnv(), "npm", "ci", "--no-audit", "--no-fund"); err != nil {
			logger.Error(err, "npm ci failed before git-sync check, continuing anyway")
		}
	}

	creds, err := w.Credentials.Load(ctx, stack.Namespace, stack.Spec.CredentialsSecretName, stack.EffectiveRegion())
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("loading credentials: %v", err))
		return
	}
	defer creds.Scrub()

	accountID := w.resolveAccount(ctx, creds)

	hookCtx := hooks.Context{Stack: stack, WorkDir: projectDir, CredentialEnv: creds.EnvVars(accountID)}
	if err := w.Hooks.Run(ctx, "beforeGitSync", stack.Spec.LifecycleHooks.BeforeGitSync, hookCtx); err != nil {
		logger.Error(err, "beforeGitSync hook failed to start")
	}

	env := append(w.baseEnv(), creds.EnvVars(accountID)...)
	diffCtx, cancel := context.WithTimeout(ctx, diffTimeout)
	defer cancel()

	res, err := w.Runner.Run(diffCtx, "GitSync-Diff", projectDir, env, "cdk", diffArgs(stack.Spec.StackName, stack.Spec.CdkContext)...)
	if err != nil {
		w.failBack(ctx, stack, fmt.Sprintf("starting cdk diff: %v", err))
		return
	}
	changesPending := gitChangesPendingFromDiffOutput(res.ExitCode)

	if w.Metrics != nil {
		labels := metricLabels(stack)
		_ = w.Metrics.GaugeSet(w.Metrics.Name("git_sync_pending"), boolMetric(changesPending), labels, "git-sync-status")
		if changesPending {
			_ = w.Metrics.CounterAdd(w.Metrics.Name("git_changes_detected_total"), 1, labels)
		}
	}
	if changesPending {
		w.Gateway.EmitEvent(stack, "Normal", "GitChangesDetected", "Git changes pending for stack %q", stack.Spec.StackName)
	}

	message := "No Git changes pending"
	redeployed := false
	if changesPending && stack.Spec.Actions.AutoRedeploy && stack.Spec.Actions.Deploy {
		message, redeployed = w.autoRedeploy(ctx, stack, projectDir, creds, accountID)
	} else if changesPending {
		message = "Git changes pending manual deployment"
	}

	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseSucceeded, Message: message, SetLastDeploy: redeployed,
	}); err != nil {
		logger.Error(err, "patching git-sync check result")
	}

	hookCtx.GitChangesDetected = &changesPending
	if err := w.Hooks.Run(ctx, "afterGitSync", stack.Spec.LifecycleHooks.AfterGitSync, hookCtx); err != nil {
		logger.Error(err, "afterGitSync hook failed to start")
	}
}

// autoRedeploy runs `cdk deploy` on behalf of the Git-sync sweeper. It
// parks the resource in Succeeded even on failure, never Failed, so the
// event-driven reconciler's phase guard leaves retry cadence to this
// sweeper alone.
func (w *Workflows) autoRedeploy(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, projectDir string, creds credentials.Credentials, accountID string) (string, bool) {
	logger := log.FromContext(ctx)

	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseDeploying, Message: "Auto-redeploying from Git changes",
	}); err != nil {
		logger.Error(err, "patching to Deploying for auto-redeploy")
	}
	w.Gateway.EmitEvent(stack, "Normal", "AutoRedeployStart", "auto-redeploy starting for stack %q", stack.Spec.StackName)

	outcome, err := w.runDeploy(ctx, stack, projectDir, creds, accountID)
	if err != nil {
		w.Gateway.EmitEvent(stack, "Warning", "AutoRedeployFailure", "auto-redeploy failed to start: %v", err)
		return "Auto deployment failed - Git changes pending manual deployment", false
	}
	if !outcome.Succeeded {
		w.Gateway.EmitEvent(stack, "Warning", "AutoRedeployFailure", "auto-redeploy failed: %s", outcome.Summary)
		return "Auto deployment failed - Git changes pending manual deployment", false
	}
	w.Gateway.EmitEvent(stack, "Normal", "AutoRedeploySuccess", "auto-redeploy succeeded for stack %q", stack.Spec.StackName)
	return "Auto deployment from Git completed", true
}

// refresh re-reads the resource and reports whether it still exists and is
// still in Succeeded. Both sweeper workflows call this before taking their
// owned phase, so a resource that was deleted, deleted-and-recreated, or
// moved on since the sweep's List is skipped instead of clobbered.
func (w *Workflows) refresh(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) (*cdkv1alpha1.CdkTsStack, bool) {
	fresh, err := w.Gateway.Get(ctx, stack.Namespace, stack.Name)
	if err != nil {
		if !gateway.IsNotFound(err) {
			log.FromContext(ctx).Error(err, "re-reading resource before sweep check", "namespace", stack.Namespace, "name", stack.Name)
		}
		return nil, false
	}
	if fresh.Status.Phase != cdkv1alpha1.PhaseSucceeded {
		return nil, false
	}
	return fresh, true
}

// failBack patches a sweeper-owned workflow back to Failed, for
// configuration-class problems encountered while preparing the workspace.
func (w *Workflows) failBack(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, message string) {
	logger := log.FromContext(ctx)
	if err := w.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseFailed, Message: message,
	}); err != nil {
		logger.Error(err, "patching back to Failed")
	}
}

func driftMessage(drifted bool) string {
	if drifted {
		return "Infrastructure drift detected"
	}
	return "No infrastructure drift detected"
}

func metricLabels(stack *cdkv1alpha1.CdkTsStack) map[string]string {
	return map[string]string{
		"namespace":     stack.Namespace,
		"resource_name": stack.Name,
		"aws_region":    stack.EffectiveRegion(),
		"stack_name":    stack.Spec.StackName,
	}
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
