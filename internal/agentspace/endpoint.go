package agentspace

import (
	"fmt"
)

const serviceHost = "discoveryengine.googleapis.com"

// Config identifies the Agentspace application whose agent directory a
// Client operates on. The command layer resolves it once at startup from
// flags and environment.
type Config struct {
	// ProjectID is the Agentspace GCP project.
	ProjectID string
	// AppID is the Agentspace application (engine) ID.
	AppID string
	// Location is "global" or a region such as "eu".
	Location string
	// UserProject overrides the billing project header. Defaults to
	// ProjectID when empty.
	UserProject string
	// Endpoint overrides the full collection URL; tests point it at a
	// local server. The zero value uses EndpointURL.
	Endpoint string
}

// EndpointURL builds the base URL of the application's agent collection.
// Pure: identical configs always produce the identical URL. The location
// "global" uses the bare service hostname; any other location routes to
// the regional endpoint by prefixing the hostname.
func EndpointURL(cfg Config) string {
	host := serviceHost
	if cfg.Location != "global" {
		host = cfg.Location + "-" + host
	}
	return fmt.Sprintf(
		"https://%s/v1alpha/projects/%s/locations/%s/collections/default_collection/engines/%s/assistants/default_assistant/agents",
		host, cfg.ProjectID, cfg.Location, cfg.AppID,
	)
}
