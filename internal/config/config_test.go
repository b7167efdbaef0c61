package config

import (
	"reflect"
	"testing"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	for _, key := range []string{"DEBUG_MODE", "DRIFT_CHECK_CRON", "GIT_SYNC_CHECK_CRON", "METRICS_PREFIX", "METRICS_PATH", "CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION", "NODE_OPTIONS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DebugMode {
		t.Errorf("DebugMode should default to false")
	}
	if cfg.DriftCheckCron != "*/30 * * * *" {
		t.Errorf("DriftCheckCron = %q, want */30 * * * *", cfg.DriftCheckCron)
	}
	if cfg.GitSyncCheckCron != "*/5 * * * *" {
		t.Errorf("GitSyncCheckCron = %q, want */5 * * * *", cfg.GitSyncCheckCron)
	}
	if cfg.MetricsPrefix != "cdktsstack_" {
		t.Errorf("MetricsPrefix = %q, want cdktsstack_", cfg.MetricsPrefix)
	}
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("DRIFT_CHECK_CRON", "*/10 * * * *")
	t.Setenv("NODE_OPTIONS", "--max-old-space-size=4096")

	cfg := Load()
	if !cfg.DebugMode {
		t.Errorf("expected DebugMode true")
	}
	if cfg.DriftCheckCron != "*/10 * * * *" {
		t.Errorf("DriftCheckCron = %q, want the override", cfg.DriftCheckCron)
	}
	if cfg.NodeOptions != "--max-old-space-size=4096" {
		t.Errorf("NodeOptions = %q, want the override", cfg.NodeOptions)
	}
}

func TestChildProcessEnv_OmitsUnsetSettings(t *testing.T) {
	cfg := Config{}
	if env := cfg.ChildProcessEnv(); len(env) != 0 {
		t.Errorf("expected no entries for an empty config, got %v", env)
	}

	cfg = Config{
		CDKDefaultAccount: "111122223333",
		CDKDefaultRegion:  "eu-west-1",
		NodeOptions:       "--max-old-space-size=4096",
	}
	want := []string{
		"CDK_DEFAULT_ACCOUNT=111122223333",
		"CDK_DEFAULT_REGION=eu-west-1",
		"NODE_OPTIONS=--max-old-space-size=4096",
	}
	if got := cfg.ChildProcessEnv(); !reflect.DeepEqual(got, want) {
		t.Errorf("ChildProcessEnv = %v, want %v", got, want)
	}
}
