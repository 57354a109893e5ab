// Package secrets resolves credentials that are configured as Secret Manager
// references instead of literal values.
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/surenmigorskiy-ui/duo-backend/internal/config"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

type accessFunc func(ctx context.Context, name string) ([]byte, error)

type Resolver struct {
	access    accessFunc
	projectID string
}

func NewResolver(client *secretmanager.Client, projectID string) *Resolver {
	return &Resolver{
		projectID: projectID,
		access: func(ctx context.Context, name string) ([]byte, error) {
			res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
			if err != nil {
				return nil, err
			}
			return res.Payload.Data, nil
		},
	}
}

// Resolve returns value when set, otherwise the secret named by ref, otherwise
// an absent credential. ref is a secret id or a full resource name; a missing
// version means latest.
func (r *Resolver) Resolve(ctx context.Context, value, ref string) (config.Credential, error) {
	if value != "" {
		return config.Some(value), nil
	}
	if ref == "" {
		return config.None(), nil
	}
	if r == nil || r.access == nil {
		return config.None(), fmt.Errorf("secret %q configured but secret manager is unavailable", ref)
	}

	data, err := r.access(ctx, r.versionName(ref))
	if err != nil {
		code := status.Code(err)
		if code == codes.NotFound {
			return config.None(), errs.NewNotFoundError(fmt.Sprintf("secret %s not found", ref))
		}
		transient := code == codes.Unavailable || code == codes.DeadlineExceeded
		return config.None(), errs.NewExternalServiceError("secretmanager", transient, err)
	}
	return config.Some(strings.TrimSpace(string(data))), nil
}

func (r *Resolver) versionName(ref string) string {
	name := ref
	if !strings.HasPrefix(name, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s", r.projectID, ref)
	}
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}
	return name
}
