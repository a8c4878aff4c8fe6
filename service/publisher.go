package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
	"github.com/Harshrb2424/jntuh-mcp-server/model"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Publisher persists a rendered result document and returns its locator.
// Publishing is append-only: artifacts are never overwritten or deleted.
type Publisher interface {
	Publish(ctx context.Context, htno, examCode string, pdf []byte) (*model.ResultArtifact, error)
}

// artifactFilename builds the deterministic artifact name. seq > 0 appends
// a counter suffix for same-second collisions.
func artifactFilename(htno, examCode string, at time.Time, seq int) string {
	timestamp := at.Format("20060102_150405")
	if seq > 0 {
		return fmt.Sprintf("result_%s_%s_%s_%d.pdf", htno, examCode, timestamp, seq)
	}
	return fmt.Sprintf("result_%s_%s_%s.pdf", htno, examCode, timestamp)
}

// LocalPublisher writes artifacts to a directory served under /static/pdfs.
type LocalPublisher struct {
	dir string
}

func NewLocalPublisher(cfg *config.StorageConfig) (*LocalPublisher, error) {
	if err := os.MkdirAll(cfg.PDFDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pdf directory: %w", err)
	}
	return &LocalPublisher{dir: cfg.PDFDir}, nil
}

func (p *LocalPublisher) Publish(ctx context.Context, htno, examCode string, pdf []byte) (*model.ResultArtifact, error) {
	now := time.Now()

	// Second-granularity timestamps collide for rapid repeats of the same
	// request; probe for a free name instead of overwriting.
	var filename string
	for seq := 0; ; seq++ {
		filename = artifactFilename(htno, examCode, now, seq)
		if _, err := os.Stat(filepath.Join(p.dir, filename)); os.IsNotExist(err) {
			break
		}
	}

	path := filepath.Join(p.dir, filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	return &model.ResultArtifact{
		ID:         uuid.New().String(),
		HallTicket: htno,
		ExamCode:   examCode,
		Filename:   filename,
		URL:        "/static/pdfs/" + filename,
		Size:       int64(len(pdf)),
		CreatedAt:  now,
	}, nil
}

// MinioPublisher stores artifacts in an object-storage bucket and hands
// out presigned download URLs.
type MinioPublisher struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioPublisher(cfg *config.MinioConfig) (*MinioPublisher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioPublisher{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (p *MinioPublisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (p *MinioPublisher) Publish(ctx context.Context, htno, examCode string, pdf []byte) (*model.ResultArtifact, error) {
	now := time.Now()
	id := uuid.New().String()
	filename := artifactFilename(htno, examCode, now, 0)

	// Namespacing the key with the artifact ID removes the same-second
	// collision window entirely.
	objectName := fmt.Sprintf("results/%s/%s", id, filename)

	_, err := p.client.PutObject(ctx, p.bucket, objectName, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload artifact: %w", err)
	}

	expiry := time.Duration(p.config.ExpireDays) * 24 * time.Hour
	url, err := p.client.PresignedGetObject(ctx, p.bucket, objectName, expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &model.ResultArtifact{
		ID:         id,
		HallTicket: htno,
		ExamCode:   examCode,
		Filename:   filename,
		URL:        url.String(),
		Size:       int64(len(pdf)),
		CreatedAt:  now,
	}, nil
}
