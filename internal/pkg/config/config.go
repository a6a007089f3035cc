package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables consumed by the weatherops tools.
const (
	// EnvASProject is the Agentspace GCP project ID.
	EnvASProject = "AS_GOOGLE_CLOUD_PROJECT"
	// EnvAgentSpaceAppID is the Agentspace application (engine) ID.
	EnvAgentSpaceAppID = "AGENT_SPACE_APP_ID"
	// EnvAgentSpaceLocation is the Agentspace location, "global" or a region.
	EnvAgentSpaceLocation = "AGENT_SPACE_LOCATION"
	// EnvAEProject is the Agent Engine GCP project ID.
	EnvAEProject = "GOOGLE_CLOUD_PROJECT"
	// EnvAELocation is the Agent Engine GCP location.
	EnvAELocation = "GOOGLE_CLOUD_LOCATION"
)

var bootstrapOnce sync.Once

// Bootstrap seeds the process environment from a local .env file when one
// exists and routes environment lookups through viper. A missing .env is
// not an error. Safe to call more than once.
func Bootstrap() {
	bootstrapOnce.Do(func() {
		_ = godotenv.Load()
		viper.AutomaticEnv()
	})
}

// Env returns the value of the named environment variable.
func Env(key string) string {
	return viper.GetString(key)
}

// Resolve prefers the explicit flag value, falling back to the named
// environment variable.
func Resolve(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return Env(key)
}
