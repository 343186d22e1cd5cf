package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"wellity/backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentTypeJSON is the content type plan documents are written with.
const ContentTypeJSON = "application/json"

// objectAPI is the subset of *s3.Client the plan store uses. Tests swap in an
// in-memory implementation.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// WorkoutKey is the object key for a plan: <prefix>/<user id>/<plan id>.json.
// Both IDs must be single key segments.
func WorkoutKey(prefix, userID, planID string) (string, error) {
	if err := checkSegment(userID); err != nil {
		return "", err
	}
	if err := checkSegment(planID); err != nil {
		return "", err
	}
	return path.Join(prefix, userID, planID+".json"), nil
}

// userPrefix is the key prefix under which all of a user's plans live.
func userPrefix(prefix, userID string) (string, error) {
	if err := checkSegment(userID); err != nil {
		return "", err
	}
	return path.Join(prefix, userID) + "/", nil
}

// checkSegment rejects IDs that would leave their directory or nest under
// another user's.
func checkSegment(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return nil
}

// rootPrefix lists every stored plan.
func rootPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/"
}
