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

import (
	"fmt"
	"strings"
)

// classifyDeployFailure turns a cdk deploy failure's merged output into an
// operator-friendly summary. Order matters: the first matching substring
// wins, most specific causes first.
func classifyDeployFailure(output string, exitCode int) string {
	switch {
	case strings.Contains(output, "no credentials have been configured"):
		return "Credentials secret missing or invalid"
	case strings.Contains(output, "Unable to resolve AWS account"):
		return "Account/caller identity resolution failed"
	case strings.Contains(output, "AccessDenied"):
		return "Permissions insufficient"
	case strings.Contains(output, "ValidationError"):
		return "Template validation failure"
	case strings.Contains(output, "npm ERR"), strings.Contains(output, "dependency"):
		return "Dependency install failure"
	case strings.Contains(output, "Region"):
		return "Region misconfiguration"
	default:
		return fmt.Sprintf("cdk deploy failed with exit code %d", exitCode)
	}
}

// driftDetectedFromDriftOutput interprets `cdk drift --fail`'s exit code
// and output: exit 0 means no drift; a non-zero exit means either drift or
// an unrelated command failure, disambiguated by the substring "drift"
// appearing in the output.
func driftDetectedFromDriftOutput(exitCode int, output string) bool {
	if exitCode == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(output), "drift")
}

// gitChangesPendingFromDiffOutput interprets `cdk diff --fail`'s exit code:
// exit 1 means changes are pending, exit 0 means none.
func gitChangesPendingFromDiffOutput(exitCode int) bool {
	return exitCode != 0
}
