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

// Package controller hosts the CdkTsStackReconciler: the event-driven half
// of the reconciliation engine. It owns the deploy state machine and the
// finalizer-governed destroy path; the sweepers in internal/sweep own the
// drift and Git-sync checks.
package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/credentials"
	"github.com/awscdk-operator/cdk-ts-operator/internal/deploy"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
)

// CdkTsStackReconciler drives a single CdkTsStack through the deploy state
// machine and the destroy path. Drift and Git-sync checks belong to the
// sweepers; this reconciler's phase guard explicitly declines to touch the
// phases they own.
type CdkTsStackReconciler struct {
	client.Client

	Gateway     *gateway.Gateway
	Credentials *credentials.Loader
	Workflows   *deploy.Workflows

	// MaxConcurrentReconciles bounds the worker pool that services the
	// single logical reconcile queue keyed by (namespace, name): at most
	// one reconcile per key runs at a time, but distinct keys may run in
	// parallel up to this bound. Zero means use the package default.
	MaxConcurrentReconciles int

	// VerifyIdentity resolves the AWS account ID for the CDK account env
	// mirrors. Defaults to credentials.VerifyCallerIdentity; tests
	// substitute a stub so no STS round-trip happens.
	VerifyIdentity func(ctx context.Context, creds credentials.Credentials) (string, error)
}

// defaultMaxConcurrentReconciles is the worker pool size used when
// MaxConcurrentReconciles is left unset.
const defaultMaxConcurrentReconciles = 4

// Reconcile is the event-driven entrypoint.
func (r *CdkTsStackReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	stack, err := r.Gateway.Get(ctx, req.Namespace, req.Name)
	if err != nil {
		if gateway.IsNotFound(err) {
			logger.V(1).Info("resource no longer exists")
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	if !stack.GetDeletionTimestamp().IsZero() {
		return r.reconcileDeletion(ctx, stack)
	}

	if !controllerutil.ContainsFinalizer(stack, cdkv1alpha1.Finalizer) {
		if _, err := r.Gateway.AddFinalizer(ctx, stack.Namespace, stack.Name); err != nil {
			return ctrl.Result{}, err
		}
		// The resulting Modified event drives the rest of reconciliation;
		// this guarantees destroy is attempted for every resource ever
		// reconciled.
		return ctrl.Result{}, nil
	}

	proceed, result := phaseGuard(logger, stack.Status.Phase, stack.Status.Message)
	if !proceed {
		return result, nil
	}

	if !stack.Spec.Actions.Deploy {
		if stack.Status.Phase == "" {
			return ctrl.Result{}, r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
				Phase: cdkv1alpha1.PhaseFailed, Message: "Deploy action is disabled",
			})
		}
		return ctrl.Result{}, nil
	}

	creds, err := r.Credentials.Load(ctx, stack.Namespace, stack.Spec.CredentialsSecretName, stack.EffectiveRegion())
	if err != nil {
		if errors.Is(err, credentials.ErrSecretMissing) || errors.Is(err, credentials.ErrSecretMalformed) {
			return ctrl.Result{}, r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
				Phase: cdkv1alpha1.PhaseFailed, Message: credentialErrorMessage(err),
			})
		}
		// Transient API failure reading the secret: requeue with backoff
		// rather than surfacing a Failed the user cannot act on.
		return ctrl.Result{}, err
	}
	defer creds.Scrub()

	accountID := r.resolveAccount(ctx, creds)

	return ctrl.Result{}, r.runDeployStateMachine(ctx, stack, creds, accountID)
}

// resolveAccount runs the STS identity pre-flight for the CDK account env
// mirrors. Defaults to credentials.VerifyCallerIdentity; failure is logged
// and costs only the mirrors, since cdk resolves the account itself.
func (r *CdkTsStackReconciler) resolveAccount(ctx context.Context, creds credentials.Credentials) string {
	verify := r.VerifyIdentity
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

// phaseGuard implements the owned-phase and transient-skip rules. It
// returns proceed=false when the current phase must not be touched by the
// event-driven reconciler.
func phaseGuard(logger logr.Logger, phase, message string) (proceed bool, result ctrl.Result) {
	switch phase {
	case cdkv1alpha1.PhaseDriftChecking, cdkv1alpha1.PhaseGitSyncChecking, cdkv1alpha1.PhaseDeleting:
		return false, ctrl.Result{}
	case cdkv1alpha1.PhaseDeploying:
		// Only ever persisted across a reconcile boundary by the Git-sync
		// sweeper's auto-redeploy; assumed to be in progress there.
		return false, ctrl.Result{}
	case cdkv1alpha1.PhaseFailed:
		if strings.Contains(message, "Auto deployment failed") || strings.Contains(message, "Git sync") {
			return false, ctrl.Result{}
		}
		return true, ctrl.Result{}
	case "", cdkv1alpha1.PhaseCloning, cdkv1alpha1.PhaseInstalling, cdkv1alpha1.PhaseSucceeded:
		return true, ctrl.Result{}
	default:
		logger.Info("unknown phase, skipping", "phase", phase)
		return false, ctrl.Result{}
	}
}

// runDeployStateMachine advances exactly one phase step. Installing's
// success continues synchronously into the Deploying step within the same
// call: "Deploying" is never persisted as a phase a fresh Modified event
// needs to resume from on the normal path, only by the Git-sync sweeper's
// auto-redeploy (see phaseGuard).
//
// A persisted "Cloning" means a previous attempt died mid-clone (the phase
// is patched to Installing only after git succeeds), so the workspace is
// empty or a partial checkout. Resuming there re-runs the cloning step,
// which resets the workspace, rather than installing on top of it.
func (r *CdkTsStackReconciler) runDeployStateMachine(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, creds credentials.Credentials, accountID string) error {
	switch stack.Status.Phase {
	case "", cdkv1alpha1.PhaseFailed, cdkv1alpha1.PhaseCloning:
		return r.runCloning(ctx, stack)
	case cdkv1alpha1.PhaseInstalling:
		return r.runInstallingThenDeploying(ctx, stack, creds, accountID)
	case cdkv1alpha1.PhaseSucceeded:
		// Steady state; the sweepers own drift/Git-sync checks from here.
		return nil
	}
	return nil
}

func (r *CdkTsStackReconciler) runCloning(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) error {
	if err := r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseCloning, Message: "Cloning repository",
	}); err != nil {
		return err
	}

	if msg, err := r.Workflows.Clone(ctx, stack); err != nil {
		return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
			Phase: cdkv1alpha1.PhaseFailed, Message: cloneFailureMessage(msg, err),
		})
	}

	return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseInstalling, Message: "Installing dependencies",
	})
}

func (r *CdkTsStackReconciler) runInstallingThenDeploying(ctx context.Context, stack *cdkv1alpha1.CdkTsStack, creds credentials.Credentials, accountID string) error {
	_, msg, err := r.Workflows.Install(ctx, stack)
	if err != nil {
		return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
			Phase: cdkv1alpha1.PhaseFailed, Message: msg,
		})
	}

	if err := r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseDeploying, Message: "Deploying stack",
	}); err != nil {
		return err
	}

	outcome, err := r.Workflows.Deploy(ctx, stack, creds, accountID)
	if err != nil {
		return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
			Phase: cdkv1alpha1.PhaseFailed, Message: err.Error(),
		})
	}
	if !outcome.Succeeded {
		return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
			Phase: cdkv1alpha1.PhaseFailed, Message: outcome.Summary,
		})
	}
	return r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseSucceeded, Message: "Deployed successfully", SetLastDeploy: true,
	})
}

// reconcileDeletion handles a resource whose deletionTimestamp is set.
func (r *CdkTsStackReconciler) reconcileDeletion(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(stack, cdkv1alpha1.Finalizer) {
		return ctrl.Result{}, nil
	}

	if !stack.Spec.Actions.Destroy {
		if err := r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
			Phase: cdkv1alpha1.PhaseDeleting, Message: "Destroy action disabled; AWS resources left in place",
		}); err != nil {
			logger.Error(err, "patching to Deleting before finalizer removal")
		}
		return ctrl.Result{}, r.Gateway.RemoveFinalizer(ctx, stack.Namespace, stack.Name)
	}

	if err := r.Gateway.PatchStatus(ctx, stack.Namespace, stack.Name, gateway.StatusPatch{
		Phase: cdkv1alpha1.PhaseDeleting, Message: "Destroying stack",
	}); err != nil {
		logger.Error(err, "patching to Deleting")
	}

	creds, err := r.Credentials.Load(ctx, stack.Namespace, stack.Spec.CredentialsSecretName, stack.EffectiveRegion())
	if err != nil {
		logger.Error(err, "loading credentials for destroy; removing finalizer anyway")
		r.Gateway.EmitEvent(stack, "Warning", "StackDestroyFailure", "could not load credentials for destroy: %v", err)
		return ctrl.Result{}, r.Gateway.RemoveFinalizer(ctx, stack.Namespace, stack.Name)
	}
	defer creds.Scrub()

	accountID := r.resolveAccount(ctx, creds)

	if err := r.Workflows.Destroy(ctx, stack, creds, accountID); err != nil {
		logger.Error(err, "destroy failed; removing finalizer anyway so the resource is not stuck")
		r.Gateway.EmitEvent(stack, "Warning", "StackDestroyFailure", "%v", err)
	} else {
		r.Gateway.EmitEvent(stack, "Normal", "StackDestroySuccess", "stack %q destroyed", stack.Spec.StackName)
	}

	// Destroy failure never blocks finalizer removal: the user must be
	// able to clean up orphaned AWS stacks manually rather than stay stuck.
	return ctrl.Result{}, r.Gateway.RemoveFinalizer(ctx, stack.Namespace, stack.Name)
}

func credentialErrorMessage(err error) string {
	switch {
	case errors.Is(err, credentials.ErrSecretMissing):
		return "Credentials secret not found"
	case errors.Is(err, credentials.ErrSecretMalformed):
		return "Credentials secret is missing a required key"
	default:
		return "Failed to load credentials: " + err.Error()
	}
}

func cloneFailureMessage(truncatedLog string, err error) string {
	if truncatedLog == "" {
		return "git clone failed: " + err.Error()
	}
	return "git clone failed: " + truncatedLog
}

// SetupWithManager wires the reconciler into the manager, watching
// CdkTsStack for add/update/delete/resync events. The underlying
// controller-runtime workqueue is keyed by (namespace, name): at most one
// in-flight reconcile per key, and a failed reconcile is requeued with
// exponential backoff and no retry cap. The cache's periodic resync also
// re-delivers every object.
func (r *CdkTsStackReconciler) SetupWithManager(mgr ctrl.Manager) error {
	maxConcurrent := r.MaxConcurrentReconciles
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrentReconciles
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&cdkv1alpha1.CdkTsStack{}).
		WithOptions(controller.Options{MaxConcurrentReconciles: maxConcurrent}).
		Complete(r)
}
