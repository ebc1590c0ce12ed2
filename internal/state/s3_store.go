package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps each state key as a JSON object under prefix+key+".json".
type S3Store struct {
	client     S3Client
	bucketName string
	keyPrefix  string
	now        func() time.Time
}

func NewS3Store(client S3Client, bucketName, keyPrefix string) *S3Store {
	return &S3Store{
		client:     client,
		bucketName: bucketName,
		keyPrefix:  keyPrefix,
		now:        time.Now,
	}
}

func (s *S3Store) objectKey(key string) string {
	return s.keyPrefix + key + ".json"
}

func (s *S3Store) Save(ctx context.Context, key, value string) error {
	if s.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}
	if key == "" {
		return ErrEmptyKey
	}

	record := models.StateRecord{
		Key:         key,
		Value:       value,
		LastUpdated: s.now().Unix(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding state record: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Str("key", key).Int("bytes", len(value)).Msg("Saved state to S3")
	return nil
}

func (s *S3Store) Restore(ctx context.Context, key string) (string, bool, error) {
	if s.bucketName == "" {
		return "", false, fmt.Errorf("empty bucket name")
	}
	if key == "" {
		return "", false, ErrEmptyKey
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record models.StateRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return "", false, fmt.Errorf("decoding state record: %w", err)
	}

	return record.Value, true, nil
}
