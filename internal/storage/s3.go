package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"wellity/backend/internal/config"
	"wellity/backend/internal/domain"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3WorkoutStore implements repository.WorkoutRepository on an S3-compatible bucket.
// Each plan is a JSON document.
type s3WorkoutStore struct {
	client     objectAPI
	bucketName string
	prefix     string
	logger     *logger.Logger
}

// NewS3WorkoutStore creates a plan store backed by the configured bucket.
func NewS3WorkoutStore(ctx context.Context, cfg config.S3Config, log *logger.Logger) (repository.WorkoutRepository, error) {
	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)

	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services (like MinIO)
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Infow("S3 workout store initialized", "endpoint", endpoint, "bucket", cfg.BucketName, "prefix", cfg.Prefix)

	return newS3WorkoutStore(client, cfg.BucketName, cfg.Prefix, log), nil
}

func newS3WorkoutStore(client objectAPI, bucket, prefix string, log *logger.Logger) *s3WorkoutStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &s3WorkoutStore{
		client:     client,
		bucketName: bucket,
		prefix:     strings.Trim(prefix, "/"),
		logger:     log,
	}
}

// Save writes the plan as JSON under <prefix>/<user>/<id>.json, overwriting any
// earlier copy.
func (s *s3WorkoutStore) Save(ctx context.Context, plan *domain.WorkoutPlan) (string, error) {
	if plan.ID == "" || plan.UserID == "" {
		return "", errors.New("workout plan requires id and user id")
	}

	key, err := WorkoutKey(s.prefix, plan.UserID, plan.ID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrSaveFailed, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentTypeJSON),
	})
	if err != nil {
		s.logger.Errorw("Failed to put workout object", "key", key, "bucket", s.bucketName, "error", err)
		return "", fmt.Errorf("%w: %v", repository.ErrSaveFailed, err)
	}

	s.logger.Debugw("Stored workout object", "key", key, "bytes", len(body))
	return plan.ID, nil
}

// GetByID scans the bucket for the plan's document. Keys are grouped by user, so
// a lookup by ID alone has to list.
func (s *s3WorkoutStore) GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	if err := checkSegment(id); err != nil {
		return nil, err
	}
	suffix := "/" + id + ".json"

	var found string
	err := s.eachKey(ctx, rootPrefix(s.prefix), func(key string) bool {
		if strings.HasSuffix(key, suffix) {
			found = key
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == "" {
		return nil, repository.ErrNotFound
	}
	return s.read(ctx, found)
}

// GetByUserID reads every plan stored for the user, newest first.
func (s *s3WorkoutStore) GetByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	prefix, err := userPrefix(s.prefix, userID)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = s.eachKey(ctx, prefix, func(key string) bool {
		// Only direct children belong to this user.
		if !strings.Contains(strings.TrimPrefix(key, prefix), "/") {
			keys = append(keys, key)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	plans := make([]domain.WorkoutPlan, 0, len(keys))
	for _, key := range keys {
		plan, err := s.read(ctx, key)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// eachKey pages through keys under prefix until fn returns false.
func (s *s3WorkoutStore) eachKey(ctx context.Context, prefix string, fn func(key string) bool) error {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return err
		}
		for _, obj := range out.Contents {
			if !fn(aws.ToString(obj.Key)) {
				return nil
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			return nil
		}
		input.ContinuationToken = out.NextContinuationToken
	}
}

func (s *s3WorkoutStore) read(ctx context.Context, key string) (*domain.WorkoutPlan, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	var plan domain.WorkoutPlan
	if err := json.NewDecoder(out.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &plan, nil
}

// endpointURL adds a scheme to bare host:port endpoints.
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
