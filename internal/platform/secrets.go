package platform

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

const secretRefPrefix = "sm://"

// ResolveSecret returns value unchanged unless it is a Secret Manager
// reference of the form sm://projects/<p>/secrets/<s>/versions/<v>, in which
// case the payload of that version is returned.
func ResolveSecret(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, secretRefPrefix) {
		return value, nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer client.Close()

	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: strings.TrimPrefix(value, secretRefPrefix),
	})
	if err != nil {
		return "", fmt.Errorf("access secret version: %w", err)
	}

	return string(res.GetPayload().GetData()), nil
}
