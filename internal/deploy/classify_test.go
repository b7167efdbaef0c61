package deploy

import "testing"

func TestClassifyDeployFailure(t *testing.T) {
	cases := []struct {
		name     string
		output   string
		exitCode int
		want     string
	}{
		{"missing credentials", "Error: no credentials have been configured", 1, "Credentials secret missing or invalid"},
		{"unresolved account", "Unable to resolve AWS account to use", 1, "Account/caller identity resolution failed"},
		{"access denied", "User: arn:aws:iam::1:user/x is not authorized (AccessDenied)", 1, "Permissions insufficient"},
		{"validation error", "ValidationError: Template format error", 1, "Template validation failure"},
		{"npm error", "npm ERR! code E404", 1, "Dependency install failure"},
		{"dependency text without npm prefix", "failed to resolve dependency tree", 1, "Dependency install failure"},
		{"region", "Region us-wrong-1 is not a valid region", 1, "Region misconfiguration"},
		{"generic", "some unrelated stack trace", 2, "cdk deploy failed with exit code 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyDeployFailure(tc.output, tc.exitCode)
			if got != tc.want {
				t.Errorf("classifyDeployFailure(%q, %d) = %q, want %q", tc.output, tc.exitCode, got, tc.want)
			}
		})
	}
}

func TestDriftDetectedFromDriftOutput(t *testing.T) {
	cases := []struct {
		name     string
		exitCode int
		output   string
		want     bool
	}{
		{"exit zero is never drift", 0, "Stack drift detected!", false},
		{"exit one with drift keyword", 1, "Stack drift detected for 2 resources", true},
		{"exit one without drift keyword is a plain failure", 1, "cdk: command not found", false},
		{"case insensitive", 1, "DRIFT found", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := driftDetectedFromDriftOutput(tc.exitCode, tc.output)
			if got != tc.want {
				t.Errorf("driftDetectedFromDriftOutput(%d, %q) = %v, want %v", tc.exitCode, tc.output, got, tc.want)
			}
		})
	}
}

func TestGitChangesPendingFromDiffOutput(t *testing.T) {
	if gitChangesPendingFromDiffOutput(0) {
		t.Errorf("exit 0 should mean no pending changes")
	}
	if !gitChangesPendingFromDiffOutput(1) {
		t.Errorf("exit 1 should mean changes pending")
	}
}
