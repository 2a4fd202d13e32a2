package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/aquarist-labs/glass/pkg/mountcmd"
	"github.com/aquarist-labs/glass/pkg/services"
)

// S3Store implements services.Store on an S3 bucket.
//
// Object layout (under KeyPrefix):
//
//	services/<name>.json      services.Desc
//	credentials/<name>.json   mountcmd.Credential
//
// Service creation uses a conditional PUT (If-None-Match: *) so two
// concurrent creators of the same name cannot both succeed.
type S3Store struct {
	client    Client
	bucket    string
	keyPrefix string
	metrics   metrics.StoreMetrics
}

// S3StoreConfig contains configuration for the S3 store.
type S3StoreConfig struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	MaxRetries      int    `mapstructure:"max_retries"`
}

// NewS3Store creates a store using client. A nil m disables metrics.
func NewS3Store(client Client, cfg S3StoreConfig, m metrics.StoreMetrics) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}
	if m == nil {
		m = metrics.NewNoopStoreMetrics()
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: prefix,
		metrics:   m,
	}, nil
}

func (s *S3Store) serviceKey(name string) string {
	return s.keyPrefix + "services/" + name + ".json"
}

func (s *S3Store) credentialKey(name string) string {
	return s.keyPrefix + "credentials/" + name + ".json"
}

// ListServices returns every service descriptor ordered by name.
//
// Keys under "<prefix>services/" are listed page by page and each object is
// fetched and decoded. Objects deleted between the list and the get are
// skipped.
//
// Parameters:
//   - ctx: Context for cancellation; aborts pagination and pending gets
//
// Returns:
//   - []services.Desc: All services, empty (not nil) when there are none
//   - error: S3 API errors or decode errors
func (s *S3Store) ListServices(ctx context.Context) ([]services.Desc, error) {
	prefix := s.keyPrefix + "services/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	result := []services.Desc{}
	for paginator.HasMorePages() {
		start := time.Now()
		page, err := paginator.NextPage(ctx)
		s.metrics.RecordOperation("ListObjectsV2", time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			var desc services.Desc
			if err := s.getJSON(ctx, key, &desc); err != nil {
				if isNotFound(err) {
					// Deleted between list and get
					continue
				}
				return nil, fmt.Errorf("failed to read %s: %w", key, err)
			}
			result = append(result, desc)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetService fetches and decodes "<prefix>services/<name>.json".
//
// Returns services.ErrNotFound when the object does not exist.
func (s *S3Store) GetService(ctx context.Context, name string) (*services.Desc, error) {
	var desc services.Desc
	if err := s.getJSON(ctx, s.serviceKey(name), &desc); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", services.ErrNotFound, name)
		}
		return nil, err
	}
	return &desc, nil
}

// PutService creates a service object.
//
// A HeadObject check reports the common duplicate case cheaply. The write
// itself is conditional (If-None-Match: *), so when two creators race past
// the check the loser gets 412 Precondition Failed, which is mapped to
// services.ErrAlreadyExists.
//
// Parameters:
//   - ctx: Context for cancellation
//   - desc: Descriptor to store, keyed by desc.Name
//
// Returns:
//   - error: services.ErrAlreadyExists if the name is taken, S3 API or
//     encode errors
func (s *S3Store) PutService(ctx context.Context, desc services.Desc) error {
	key := s.serviceKey(desc.Name)

	exists, err := s.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", services.ErrAlreadyExists, desc.Name)
	}

	err = s.putJSON(ctx, key, desc, true)
	if isPreconditionFailed(err) {
		return fmt.Errorf("%w: %s", services.ErrAlreadyExists, desc.Name)
	}
	return err
}

// DeleteService removes the service object, or returns services.ErrNotFound.
func (s *S3Store) DeleteService(ctx context.Context, name string) error {
	return s.delete(ctx, s.serviceKey(name), name)
}

// GetCredential fetches and decodes "<prefix>credentials/<name>.json".
//
// Returns services.ErrNotFound when the object does not exist.
func (s *S3Store) GetCredential(ctx context.Context, name string) (*mountcmd.Credential, error) {
	var cred mountcmd.Credential
	if err := s.getJSON(ctx, s.credentialKey(name), &cred); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: credential for %s", services.ErrNotFound, name)
		}
		return nil, err
	}
	return &cred, nil
}

// PutCredential creates or replaces the credential object of a service.
// The write is unconditional.
func (s *S3Store) PutCredential(ctx context.Context, name string, cred mountcmd.Credential) error {
	return s.putJSON(ctx, s.credentialKey(name), cred, false)
}

// DeleteCredential removes the credential object, or returns
// services.ErrNotFound.
func (s *S3Store) DeleteCredential(ctx context.Context, name string) error {
	return s.delete(ctx, s.credentialKey(name), "credential for "+name)
}

// Healthcheck verifies the bucket is reachable.
func (s *S3Store) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	s.metrics.RecordOperation("HeadBucket", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	return nil
}

// Close is a no-op; the S3 client holds no resources that need releasing.
func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) getJSON(ctx context.Context, key string, v any) error {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	s.metrics.RecordOperation("GetObject", time.Since(start), err)
	if err != nil {
		return err
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	s.metrics.RecordBytes("read", int64(len(data)))

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) putJSON(ctx context.Context, key string, v any, createOnly bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if createOnly {
		input.IfNoneMatch = aws.String("*")
	}

	start := time.Now()
	_, err = s.client.PutObject(ctx, input)
	s.metrics.RecordOperation("PutObject", time.Since(start), err)
	if err != nil {
		return err
	}
	s.metrics.RecordBytes("write", int64(len(data)))
	return nil
}

func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	s.metrics.RecordOperation("HeadObject", time.Since(start), err)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// delete removes key, reporting ErrNotFound when it does not exist. S3
// DeleteObject succeeds on missing keys, hence the HeadObject first.
func (s *S3Store) delete(ctx context.Context, key string, what string) error {
	exists, err := s.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", services.ErrNotFound, what)
	}

	start := time.Now()
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	s.metrics.RecordOperation("DeleteObject", time.Since(start), err)
	return err
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed"
}
