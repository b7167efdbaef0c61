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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	cdkv1alpha1 "github.com/awscdk-operator/cdk-ts-operator/api/v1alpha1"
)

// newResetPhaseCommand wraps the manual recovery procedure documented for a
// stuck resource: clearing status.phase back to "" so the next reconcile
// restarts the deploy state machine from Cloning. It exists so operators do
// not need to hand-craft a kubectl patch against a status subresource.
func newResetPhaseCommand() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "reset-phase <name>",
		Short: "Clear status.phase on a stuck CdkTsStack so it restarts from Cloning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetPhase(cmd, namespace, args[0])
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "namespace of the CdkTsStack resource")
	return cmd
}

func runResetPhase(cmd *cobra.Command, namespace, name string) error {
	runtimeScheme := scheme.Scheme
	if err := cdkv1alpha1.AddToScheme(runtimeScheme); err != nil {
		return fmt.Errorf("registering CdkTsStack scheme: %w", err)
	}

	c, err := client.New(ctrl.GetConfigOrDie(), client.Options{Scheme: runtimeScheme})
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	ctx := context.Background()
	stack := &cdkv1alpha1.CdkTsStack{}
	key := client.ObjectKey{Namespace: namespace, Name: name}
	if err := c.Get(ctx, key, stack); err != nil {
		return fmt.Errorf("fetching %s/%s: %w", namespace, name, err)
	}

	if stack.Status.Phase == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s is already unset, nothing to do\n", namespace, name)
		return nil
	}

	patch := client.MergeFrom(stack.DeepCopy())
	previousPhase := stack.Status.Phase
	stack.Status.Phase = ""
	stack.Status.Message = ""
	if err := c.Status().Patch(ctx, stack, patch); err != nil {
		return fmt.Errorf("patching status: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: phase %q -> \"\"\n", namespace, name, previousPhase)
	return nil
}
