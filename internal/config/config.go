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

// Package config materializes the operator's environment-variable surface
// into a typed struct, read once at startup.
package config

import (
	"os"
	"strconv"
)

// Config holds every operator-level setting sourced from the environment.
type Config struct {
	// DebugMode switches zap to development mode (console encoder, debug level).
	DebugMode bool

	// DriftCheckCron is the cron schedule for the drift sweeper.
	DriftCheckCron string

	// GitSyncCheckCron is the cron schedule for the Git-sync sweeper.
	GitSyncCheckCron string

	// MetricsPrefix is prepended to every metric record name.
	MetricsPrefix string

	// MetricsPath is the file path line-JSON metric records are appended to.
	MetricsPath string

	// CDKDefaultAccount mirrors CDK_DEFAULT_ACCOUNT for child processes.
	CDKDefaultAccount string

	// CDKDefaultRegion mirrors CDK_DEFAULT_REGION for child processes.
	CDKDefaultRegion string

	// NodeOptions mirrors NODE_OPTIONS for the npm/cdk child processes.
	NodeOptions string
}

// Load reads Config from the process environment, applying the documented
// defaults for anything unset.
func Load() Config {
	return Config{
		DebugMode:         parseBool(os.Getenv("DEBUG_MODE")),
		DriftCheckCron:    envOrDefault("DRIFT_CHECK_CRON", "*/30 * * * *"),
		GitSyncCheckCron:  envOrDefault("GIT_SYNC_CHECK_CRON", "*/5 * * * *"),
		MetricsPrefix:     envOrDefault("METRICS_PREFIX", "cdktsstack_"),
		MetricsPath:       os.Getenv("METRICS_PATH"),
		CDKDefaultAccount: os.Getenv("CDK_DEFAULT_ACCOUNT"),
		CDKDefaultRegion:  os.Getenv("CDK_DEFAULT_REGION"),
		NodeOptions:       os.Getenv("NODE_OPTIONS"),
	}
}

// ChildProcessEnv renders the pass-through settings as NAME=VALUE pairs
// appended to the environment of every npm/cdk child process. Unset
// settings are omitted so they never mask per-resource values.
func (c Config) ChildProcessEnv() []string {
	var env []string
	if c.CDKDefaultAccount != "" {
		env = append(env, "CDK_DEFAULT_ACCOUNT="+c.CDKDefaultAccount)
	}
	if c.CDKDefaultRegion != "" {
		env = append(env, "CDK_DEFAULT_REGION="+c.CDKDefaultRegion)
	}
	if c.NodeOptions != "" {
		env = append(env, "NODE_OPTIONS="+c.NodeOptions)
	}
	return env
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
