package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore uploads publication images and resolves their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PublicURL(key string) string
}

// ObjectPutter is the slice of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore stores images in a public S3 bucket.
type S3ImageStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

func NewS3ImageStore(client ObjectPutter, bucket, baseURL string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *S3ImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *S3ImageStore) PublicURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// ImageKey builds the object key for a publication image. Images are keyed
// {listingId}_{index}.{ext} under a publications/ prefix so a re-upload of
// the same slot overwrites instead of accumulating.
func ImageKey(publicationID uuid.UUID, index int, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("publications/%s_%d.%s", publicationID, index, ext)
}
