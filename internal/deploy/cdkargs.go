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

package deploy

// stackTarget returns the positional stack argument: an explicit name, or
// --all when spec.stackName was left empty (targeting every stack in the
// app).
func stackTarget(stackName string) []string {
	if stackName == "" {
		return []string{"--all"}
	}
	return []string{stackName}
}

// contextArgs renders spec.cdkContext's "key=value" entries as repeated
// --context flags, preserving order.
func contextArgs(cdkContext []string) []string {
	args := make([]string, 0, len(cdkContext)*2)
	for _, kv := range cdkContext {
		args = append(args, "--context", kv)
	}
	return args
}

// deployArgs builds the full `cdk deploy` argument vector.
func deployArgs(stackName string, cdkContext []string) []string {
	args := []string{"deploy"}
	args = append(args, stackTarget(stackName)...)
	args = append(args, "--require-approval", "never")
	args = append(args, contextArgs(cdkContext)...)
	return args
}

// destroyArgs builds the full `cdk destroy` argument vector.
func destroyArgs(stackName string, cdkContext []string) []string {
	args := []string{"destroy", "--force"}
	args = append(args, stackTarget(stackName)...)
	args = append(args, contextArgs(cdkContext)...)
	return args
}

// driftArgs builds the full `cdk drift --fail` argument vector.
func driftArgs(stackName string, cdkContext []string) []string {
	args := []string{"drift", "--fail"}
	args = append(args, stackTarget(stackName)...)
	args = append(args, contextArgs(cdkContext)...)
	return args
}

// diffArgs builds the full `cdk diff --fail` argument vector.
func diffArgs(stackName string, cdkContext []string) []string {
	args := []string{"diff", "--fail"}
	args = append(args, stackTarget(stackName)...)
	args = append(args, contextArgs(cdkContext)...)
	return args
}
