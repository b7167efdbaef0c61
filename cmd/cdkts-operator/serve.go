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

package main

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/config"
	"github.com/awscdk-operator/cdk-ts-operator/internal/controller"
	"github.com/awscdk-operator/cdk-ts-operator/internal/credentials"
	"github.com/awscdk-operator/cdk-ts-operator/internal/deploy"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/hooks"
	"github.com/awscdk-operator/cdk-ts-operator/internal/metrics"
	"github.com/awscdk-operator/cdk-ts-operator/internal/process"
	"github.com/awscdk-operator/cdk-ts-operator/internal/sweep"
)

type serveOptions struct {
	healthProbeBindAddress  string
	maxConcurrentReconciles int
}

func (o *serveOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.healthProbeBindAddress, "health-probe-bind-address", ":8081", "address the liveness/readiness probe endpoint binds to")
	fs.IntVar(&o.maxConcurrentReconciles, "max-concurrent-reconciles", 4, "upper bound on reconciles running in parallel across distinct resources")
}

func newServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CdkTsStack controller manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	opts.bindFlags(cmd.Flags())
	return cmd
}

func runServe(opts serveOptions) error {
	cfg := config.Load()

	zapCfg := zap.NewProductionConfig()
	if cfg.DebugMode {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zl, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("building zap logger: %w", err)
	}
	defer zl.Sync()
	logger := zapr.NewLogger(zl)
	ctrl.SetLogger(logger)

	runtimeScheme := scheme.Scheme
	if err := cdkv1alpha1.AddToScheme(runtimeScheme); err != nil {
		return fmt.Errorf("registering CdkTsStack scheme: %w", err)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 runtimeScheme,
		HealthProbeBindAddress: opts.healthProbeBindAddress,
	})
	if err != nil {
		return fmt.Errorf("creating manager: %w", err)
	}

	var metricsRecorder *metrics.Recorder
	if cfg.MetricsPath != "" {
		metricsRecorder, err = metrics.Open(cfg.MetricsPath, cfg.MetricsPrefix)
		if err != nil {
			return fmt.Errorf("opening metrics file: %w", err)
		}
		defer metricsRecorder.Close()
	} else {
		metricsRecorder = metrics.NewWithWriter(io.Discard, cfg.MetricsPrefix)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("adding health check: %w", err)
	}

	return bootstrapAndRun(mgr, cfg, opts, metricsRecorder, logger)
}

func bootstrapAndRun(mgr ctrl.Manager, cfg config.Config, opts serveOptions, metricsRecorder *metrics.Recorder, logger logr.Logger) error {
	gw := &gateway.Gateway{Client: mgr.GetClient(), Recorder: mgr.GetEventRecorderFor("cdkts-operator")}
	credLoader := &credentials.Loader{Client: mgr.GetClient()}
	runner := &process.Runner{Log: logger}
	hookExecutor := &hooks.Executor{Runner: runner, Gateway: gw}

	wf := &deploy.Workflows{
		Runner:      runner,
		Hooks:       hookExecutor,
		Gateway:     gw,
		Credentials: credLoader,
		Metrics:     metricsRecorder,
		ExtraEnv:    cfg.ChildProcessEnv(),
	}

	reconciler := &controller.CdkTsStackReconciler{
		Client:                  mgr.GetClient(),
		Gateway:                 gw,
		Credentials:             credLoader,
		Workflows:               wf,
		MaxConcurrentReconciles: opts.maxConcurrentReconciles,
	}
	if err := reconciler.SetupWithManager(mgr); err != nil {
		return fmt.Errorf("setting up CdkTsStack controller: %w", err)
	}

	ctx := log.IntoContext(ctrl.SetupSignalHandler(), logger)

	scheduler := sweep.NewScheduler()
	driftSweeper := sweep.NewDriftSweeper(gw, wf, metricsRecorder, logger)
	gitSyncSweeper := sweep.NewGitSyncSweeper(gw, wf, metricsRecorder, logger)

	if err := scheduler.AddSweep(ctx, cfg.DriftCheckCron, driftSweeper); err != nil {
		return fmt.Errorf("scheduling drift sweeper: %w", err)
	}
	if err := scheduler.AddSweep(ctx, cfg.GitSyncCheckCron, gitSyncSweeper); err != nil {
		return fmt.Errorf("scheduling git-sync sweeper: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("running manager: %w", err)
	}
	return nil
}
