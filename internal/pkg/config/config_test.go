package config

import (
	"testing"
)

func TestResolvePrefersFlag(t *testing.T) {
	Bootstrap()
	t.Setenv(EnvASProject, "env-project")

	if got := Resolve("flag-project", EnvASProject); got != "flag-project" {
		t.Errorf("Resolve = %q, want flag-project", got)
	}
}

func TestResolveFallsBackToEnv(t *testing.T) {
	Bootstrap()
	t.Setenv(EnvAgentSpaceLocation, "global")

	if got := Resolve("", EnvAgentSpaceLocation); got != "global" {
		t.Errorf("Resolve = %q, want global", got)
	}
}

func TestEnvUnsetIsEmpty(t *testing.T) {
	Bootstrap()

	if got := Env("WEATHEROPS_TEST_UNSET_VARIABLE"); got != "" {
		t.Errorf("Env = %q, want empty", got)
	}
}
