package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	msd "github.com/go-sif/sif-msd"
	"github.com/sirupsen/logrus"
)

// PutObjectAPI is the subset of the S3 client used to upload chunks
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client from the default credential chain
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Sink stages each chunk locally, uploads it to a bucket and removes the staged file once the
// upload is confirmed. A staged file whose upload failed is kept for inspection.
type S3Sink struct {
	staging *LocalSink
	client  PutObjectAPI
	bucket  string
	runID   string
	log     logrus.FieldLogger
}

// NewS3Sink creates an S3Sink uploading to bucket
func NewS3Sink(staging *LocalSink, client PutObjectAPI, bucket, runID string, log logrus.FieldLogger) (*S3Sink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("an S3 bucket is required when chunks are not saved locally")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &S3Sink{
		staging: staging,
		client:  client,
		bucket:  bucket,
		runID:   runID,
		log:     log,
	}, nil
}

// KeyFor returns the object key of a staged chunk file
func KeyFor(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
}

// Persist stages rows and uploads the staged file
func (s *S3Sink) Persist(ctx context.Context, id msd.ChunkID, rows []msd.Row) error {
	staged, err := s.staging.Stage(ctx, id, rows)
	if err != nil {
		return err
	}
	key := KeyFor(staged.Path)
	log := s.log.WithFields(logrus.Fields{
		"chunk":  id.String(),
		"bucket": s.bucket,
		"key":    key,
	})
	if err = s.upload(ctx, staged, key); err != nil {
		log.WithError(err).Errorf("Upload failed, keeping %s", staged.Path)
		return err
	}
	log.Infof("csv uploaded to: s3://%s/%s", s.bucket, key)
	if err = s.staging.fs.Remove(staged.Path); err != nil {
		log.WithError(err).Warnf("Unable to remove staged file %s", staged.Path)
	}
	return nil
}

func (s *S3Sink) upload(ctx context.Context, staged *StagedChunk, key string) error {
	f, err := s.staging.fs.Open(staged.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	metadata := map[string]string{
		"xxhash64": fmt.Sprintf("%016x", staged.Checksum),
		"rows":     fmt.Sprintf("%d", staged.Rows),
	}
	if s.runID != "" {
		metadata["run-id"] = s.runID
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(staged.Bytes),
		ContentType:   aws.String("text/csv"),
		Metadata:      metadata,
	})
	return err
}
