package gcp

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// RunningOnCloudRun reports whether the process is running inside Cloud Run,
// which always sets K_SERVICE.
func RunningOnCloudRun() bool {
	return GetEnv("K_SERVICE", "") != ""
}

// ClientOptions returns the options to pass to every GCP client constructor.
// On Cloud Run, application default credentials are used and no options are
// needed. For local development the service-account key is fetched from
// Secret Manager instead of living on disk.
func ClientOptions(ctx context.Context, projectID, credentialsSecret string) ([]option.ClientOption, error) {
	if RunningOnCloudRun() || credentialsSecret == "" {
		return nil, nil
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	defer sm.Close()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, credentialsSecret)
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	return []option.ClientOption{option.WithCredentialsJSON(resp.Payload.Data)}, nil
}
