package spaces

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/howdyplanner/api/config"
)

// ArchiveClient stores raw transcript PDFs in DigitalOcean Spaces so a
// parse can be replayed later without asking the student to re-upload.
type ArchiveClient struct {
	s3Client *s3.S3
	bucket   string
}

// Config holds Spaces connection settings
type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// NewArchiveClient creates a new archive client
func NewArchiveClient(cfg Config) (*ArchiveClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &ArchiveClient{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
	}, nil
}

// FromEnv builds an ArchiveClient from environment configuration.
// Returns nil when Spaces is not configured; callers treat a nil client
// as "archiving disabled".
func FromEnv(env *config.EnviornmentVariable) (*ArchiveClient, error) {
	if env.DO_SPACES_BUCKET == "" || env.DO_SPACES_KEY == "" {
		return nil, nil
	}
	return NewArchiveClient(Config{
		AccessKey: env.DO_SPACES_KEY,
		SecretKey: env.DO_SPACES_SECRET,
		Bucket:    env.DO_SPACES_BUCKET,
		Region:    env.DO_SPACES_REGION,
		Endpoint:  env.DO_SPACES_ENDPOINT,
	})
}

// ArchiveKey builds the object key for a student's transcript upload.
func ArchiveKey(studentID uint) string {
	return fmt.Sprintf("transcripts/%d/%d.pdf", studentID, time.Now().Unix())
}

// UploadTranscript stores raw transcript bytes under the given key.
func (c *ArchiveClient) UploadTranscript(ctx context.Context, key string, data []byte) error {
	_, err := c.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(bytes.NewReader(data)),
		ACL:         aws.String("private"),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload transcript: %w", err)
	}
	return nil
}

// DownloadTranscript retrieves an archived transcript by key.
func (c *ArchiveClient) DownloadTranscript(ctx context.Context, key string) ([]byte, error) {
	result, err := c.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download transcript: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read transcript body: %w", err)
	}
	return buf.Bytes(), nil
}

// ListArchived lists archived transcript objects with their modification times.
func (c *ArchiveClient) ListArchived(ctx context.Context, prefix string) (map[string]time.Time, error) {
	result, err := c.s3Client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archived transcripts: %w", err)
	}

	objects := make(map[string]time.Time, len(result.Contents))
	for _, obj := range result.Contents {
		if obj.Key == nil {
			continue
		}
		var modified time.Time
		if obj.LastModified != nil {
			modified = *obj.LastModified
		}
		objects[*obj.Key] = modified
	}
	return objects, nil
}

// Delete removes an archived transcript.
func (c *ArchiveClient) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archived transcript: %w", err)
	}
	return nil
}
