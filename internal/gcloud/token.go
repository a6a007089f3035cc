package gcloud

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const scopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"

// LoginHint is shown to the operator when default credentials cannot be
// resolved or refreshed.
const LoginHint = "Please ensure you are authenticated with 'gcloud auth application-default login'"

// TokenSource resolves Application Default Credentials from the ambient
// environment and returns a source that refreshes expired tokens on
// demand. Credential failure is never retried here; callers treat it as
// fatal.
func TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	creds, err := google.FindDefaultCredentials(ctx, scopeCloudPlatform)
	if err != nil {
		return nil, fmt.Errorf("resolve application default credentials: %w", err)
	}
	return creds.TokenSource, nil
}
