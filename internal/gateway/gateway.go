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

// Package gateway is the sole place that reads or writes a CdkTsStack, its
// status subresource, its finalizer list, or auxiliary Events. It
// encapsulates optimistic-concurrency retry and tolerance of the object
// having been deleted out from under a reconcile.
package gateway

import (
	"context"
	"errors"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
)

// getRetries and getBackoff bound the transient-error retry in Get.
const (
	getRetries = 3
	getBackoff = time.Second
)

// Gateway mediates all CdkTsStack reads and writes.
type Gateway struct {
	Client   client.Client
	Recorder record.EventRecorder
}

// NotFoundError is returned by Get when the object does not exist. It
// wraps the underlying apierrors.StatusError so errors.Is/apierrors.IsNotFound
// both work against it.
type NotFoundError struct{ err error }

func (e *NotFoundError) Error() string { return e.err.Error() }
func (e *NotFoundError) Unwrap() error { return e.err }

// Get fetches the named CdkTsStack, retrying transient (non-NotFound)
// errors up to getRetries times with a getBackoff pause between attempts.
func (g *Gateway) Get(ctx context.Context, namespace, name string) (*cdkv1alpha1.CdkTsStack, error) {
	key := types.NamespacedName{Namespace: namespace, Name: name}
	var lastErr error
	for attempt := 0; attempt <= getRetries; attempt++ {
		obj := &cdkv1alpha1.CdkTsStack{}
		err := g.Client.Get(ctx, key, obj)
		if err == nil {
			return obj, nil
		}
		if apierrors.IsNotFound(err) {
			return nil, &NotFoundError{err: err}
		}
		lastErr = err
		if attempt < getRetries {
			select {
			case <-time.After(getBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// IsNotFound reports whether err is (or wraps) a Gateway NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StatusPatch describes the status fields a caller wants applied. Phase and
// Message are always re-asserted. SetLastDeploy is computed by the caller
// (only the deploy workflow knows whether this Succeeded transition follows
// a Deploying phase); the gateway itself never infers it.
type StatusPatch struct {
	Phase          string
	Message        string
	DriftDetected  *bool
	LastDriftCheck *time.Time
	SetLastDeploy  bool
}

// PatchStatus merge-patches the status subresource. A NotFound here is
// tolerated (logged, treated as success) so a race with deletion is never
// fatal. On a write conflict, the object is re-read once and the patch is
// retried against the fresh version.
func (g *Gateway) PatchStatus(ctx context.Context, namespace, name string, patch StatusPatch) error {
	logger := log.FromContext(ctx)

	obj, err := g.Get(ctx, namespace, name)
	if err != nil {
		if IsNotFound(err) {
			logger.Info("PatchStatus: resource no longer exists, treating as success", "namespace", namespace, "name", name)
			return nil
		}
		return err
	}

	applyPatch := func(o *cdkv1alpha1.CdkTsStack) {
		o.Status.Phase = patch.Phase
		o.Status.Message = patch.Message
		if patch.DriftDetected != nil {
			o.Status.DriftDetected = *patch.DriftDetected
		}
		if patch.LastDriftCheck != nil {
			t := metav1.NewTime(*patch.LastDriftCheck)
			o.Status.LastDriftCheck = &t
		}
		if patch.SetLastDeploy {
			now := metav1.Now()
			o.Status.LastDeploy = &now
		}
	}

	original := obj.DeepCopy()
	applyPatch(obj)
	if err := g.Client.Status().Patch(ctx, obj, client.MergeFrom(original)); err != nil {
		if apierrors.IsNotFound(err) {
			logger.Info("PatchStatus: resource deleted mid-patch, treating as success", "namespace", namespace, "name", name)
			return nil
		}
		if apierrors.IsConflict(err) {
			fresh, getErr := g.Get(ctx, namespace, name)
			if getErr != nil {
				if IsNotFound(getErr) {
					return nil
				}
				return getErr
			}
			original = fresh.DeepCopy()
			applyPatch(fresh)
			return g.Client.Status().Patch(ctx, fresh, client.MergeFrom(original))
		}
		return err
	}
	return nil
}

// AddFinalizer adds the controller's finalizer if absent, and reports
// whether it was newly added. Idempotent: calling it twice adds the
// finalizer exactly once.
func (g *Gateway) AddFinalizer(ctx context.Context, namespace, name string) (bool, error) {
	obj, err := g.Get(ctx, namespace, name)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if controllerutil.ContainsFinalizer(obj, cdkv1alpha1.Finalizer) {
		return false, nil
	}
	original := obj.DeepCopy()
	controllerutil.AddFinalizer(obj, cdkv1alpha1.Finalizer)
	if err := g.Client.Patch(ctx, obj, client.MergeFrom(original)); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveFinalizer removes the controller's finalizer. Idempotent and
// tolerant of the object already being gone.
func (g *Gateway) RemoveFinalizer(ctx context.Context, namespace, name string) error {
	obj, err := g.Get(ctx, namespace, name)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if !controllerutil.ContainsFinalizer(obj, cdkv1alpha1.Finalizer) {
		return nil
	}
	original := obj.DeepCopy()
	controllerutil.RemoveFinalizer(obj, cdkv1alpha1.Finalizer)
	if err := g.Client.Patch(ctx, obj, client.MergeFrom(original)); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// EmitEvent creates a Kubernetes Event owned by obj. Failures are
// deliberately swallowed by the underlying recorder contract: event
// emission must never fail the operation it describes.
func (g *Gateway) EmitEvent(obj *cdkv1alpha1.CdkTsStack, eventType, reason, messageFmt string, args ...interface{}) {
	if g.Recorder == nil {
		return
	}
	g.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

// List returns every CdkTsStack across all namespaces, used by the sweepers.
func (g *Gateway) List(ctx context.Context) (*cdkv1alpha1.CdkTsStackList, error) {
	list := &cdkv1alpha1.CdkTsStackList{}
	if err := g.Client.List(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
