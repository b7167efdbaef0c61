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

// Package hooks executes user-supplied lifecycle hook script bodies at the
// eight named stages of a reconcile, under a documented environment
// contract, with a failure policy that never blocks the surrounding
// operation: hooks are user-owned and must not be able to wedge the
// controller.
package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
	"github.com/awscdk-operator/cdk-ts-operator/internal/gateway"
	"github.com/awscdk-operator/cdk-ts-operator/internal/process"
)

const scriptPreamble = "#!/usr/bin/env bash\nset -euo pipefail\n"

// Context carries the per-reconcile values the hook environment contract
// needs. CredentialEnv is the AWS env overlay produced by the credential
// loader; it is merged into the hook's process environment for the
// duration of the hook only.
type Context struct {
	Stack         *cdkv1alpha1.CdkTsStack
	WorkDir       string
	CredentialEnv []string

	// DriftDetected is non-nil only when invoking afterDriftDetection.
	DriftDetected *bool
	// GitChangesDetected is non-nil only when invoking afterGitSync.
	GitChangesDetected *bool
}

// Executor runs lifecycle hook script bodies via the Process Runner.
type Executor struct {
	Runner  *process.Runner
	Gateway *gateway.Gateway
}

// Run synthesizes scriptBody into a temporary executable file and runs it
// under bash with errexit/nounset/pipefail. An empty scriptBody is a no-op.
// A non-zero exit is logged, reported as a Warning Event with reason
// LifecycleHookFailure, and does not return an error: the caller always
// proceeds to the rest of its operation.
func (e *Executor) Run(ctx context.Context, hookName, scriptBody string, hctx Context) error {
	if scriptBody == "" {
		return nil
	}

	scriptPath, err := writeScript(hctx.WorkDir, hookName, scriptBody)
	if err != nil {
		return fmt.Errorf("writing %s hook script: %w", hookName, err)
	}
	defer os.Remove(scriptPath)

	env := buildEnv(hookName, hctx)

	e.Gateway.EmitEvent(hctx.Stack, "Normal", "LifecycleHookStart", "running %s hook", hookName)

	res, err := e.Runner.Run(ctx, hookName, hctx.WorkDir, env, "bash", scriptPath)
	if err != nil {
		return fmt.Errorf("starting %s hook: %w", hookName, err)
	}
	if res.ExitCode != 0 {
		e.Gateway.EmitEvent(hctx.Stack, "Warning", "LifecycleHookFailure",
			"hook %s exited %d", hookName, res.ExitCode)
		return nil
	}
	e.Gateway.EmitEvent(hctx.Stack, "Normal", "LifecycleHookSuccess", "hook %s completed", hookName)
	return nil
}

func writeScript(dir, hookName, body string) (string, error) {
	f, err := os.CreateTemp(dir, "hook-"+hookName+"-*.sh")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(scriptPreamble + body + "\n"); err != nil {
		return "", err
	}
	path := f.Name()
	if err := os.Chmod(path, 0o700); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// buildEnv layers the hook environment contract over the controller's own
// environment, so scripts keep PATH and friends while seeing every
// CDK_* variable the contract documents.
func buildEnv(hookName string, hctx Context) []string {
	stack := hctx.Stack
	env := append(os.Environ(),
		"CDK_STACK_NAME="+stack.Spec.StackName,
		"CDK_STACK_NAMESPACE="+stack.Namespace,
		"CDK_STACK_RESOURCE_NAME="+stack.Name,
		"CDK_STACK_REGION="+stack.EffectiveRegion(),
		"CDK_OPERATION="+hookName,
		"CDK_PROJECT_PATH="+stack.EffectivePath(),
		"CDK_GIT_REPOSITORY="+stack.Spec.Source.Git.Repository,
		"CDK_GIT_REF="+stack.EffectiveRef(),
	)

	if hookName == "afterDriftDetection" && hctx.DriftDetected != nil {
		env = append(env, "DRIFT_DETECTED="+boolString(*hctx.DriftDetected))
	}
	if hookName == "afterGitSync" && hctx.GitChangesDetected != nil {
		env = append(env, "GIT_CHANGES_DETECTED="+boolString(*hctx.GitChangesDetected))
	}

	env = append(env, hctx.CredentialEnv...)
	return env
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
