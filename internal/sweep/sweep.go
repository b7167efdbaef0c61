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

// Package sweep hosts the two cron-scheduled entrypoints of the
// reconciliation engine: the infrastructure drift sweeper and the
// Git-sync sweeper. Both share the same Gateway and Workflows the
// event-driven reconciler uses, and both are solely responsible for
// transitioning resources out of the owned phase they set.
package sweep

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/robfig/cron/v3"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/deploy"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/metrics"
)

// Sweeper runs one of the two periodic checks against every Succeeded
// resource with the relevant action enabled. A failure on one resource is
// logged and does not stop the sweep.
type Sweeper struct {
	Gateway   *gateway.Gateway
	Workflows *deploy.Workflows
	Metrics   *metrics.Recorder
	Log       logr.Logger

	// Group is the metrics gauge group this sweeper pre-expires at the
	// start of each run ("drift-status" or "git-sync-status").
	Group string

	// Enabled reports whether a given resource is eligible for this
	// sweeper's check (actions.driftDetection for drift, actions.deploy
	// for Git-sync).
	Enabled func(*cdkv1alpha1.CdkTsStack) bool

	// Check runs the workflow itself against one eligible resource.
	Check func(ctx context.Context, stack *cdkv1alpha1.CdkTsStack)
}

// Run executes a single sweep: group-expire, list, filter, check.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Metrics != nil && s.Group != "" {
		if err := s.Metrics.GroupExpire(s.Group); err != nil {
			s.Log.Error(err, "emitting group-expire record", "group", s.Group)
		}
	}

	list, err := s.Gateway.List(ctx)
	if err != nil {
		s.Log.Error(err, "listing CdkTsStack resources for sweep")
		return
	}

	for i := range list.Items {
		stack := &list.Items[i]
		if stack.Status.Phase != cdkv1alpha1.PhaseSucceeded {
			continue
		}
		if s.Enabled != nil && !s.Enabled(stack) {
			continue
		}
		s.runOne(ctx, stack)
	}
}

// runOne isolates a single resource's failure from the rest of the sweep.
func (s *Sweeper) runOne(ctx context.Context, stack *cdkv1alpha1.CdkTsStack) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error(fmt.Errorf("panic: %v", r), "sweep check panicked", "namespace", stack.Namespace, "name", stack.Name)
		}
	}()
	s.Check(ctx, stack)
}

// NewDriftSweeper builds the infrastructure-drift sweeper.
func NewDriftSweeper(gw *gateway.Gateway, wf *deploy.Workflows, m *metrics.Recorder, log logr.Logger) *Sweeper {
	return &Sweeper{
		Gateway:   gw,
		Workflows: wf,
		Metrics:   m,
		Log:       log,
		Group:     "drift-status",
		Enabled:   func(s *cdkv1alpha1.CdkTsStack) bool { return s.Spec.Actions.DriftDetection },
		Check:     wf.DriftCheck,
	}
}

// NewGitSyncSweeper builds the Git-sync sweeper.
func NewGitSyncSweeper(gw *gateway.Gateway, wf *deploy.Workflows, m *metrics.Recorder, log logr.Logger) *Sweeper {
	return &Sweeper{
		Gateway:   gw,
		Workflows: wf,
		Metrics:   m,
		Log:       log,
		Group:     "git-sync-status",
		Enabled:   func(s *cdkv1alpha1.CdkTsStack) bool { return s.Spec.Actions.Deploy },
		Check:     wf.GitSyncCheck,
	}
}

// Scheduler owns the cron entries for both sweepers and runs each sweep in
// its own goroutine so a slow sweep never delays the other's schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler builds a Scheduler with second-less (standard 5-field)
// cron parsing, matching the DRIFT_CHECK_CRON / GIT_SYNC_CHECK_CRON
// expressions documented in the environment configuration.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddSweep schedules sweeper.Run on the given cron expression.
func (s *Scheduler) AddSweep(ctx context.Context, expr string, sweeper *Sweeper) error {
	_, err := s.cron.AddFunc(expr, func() { sweeper.Run(ctx) })
	return err
}

// Start begins running scheduled sweeps in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler so no further sweeps start. It does not wait for
// a running sweep; the returned context is done once running sweeps finish.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }
