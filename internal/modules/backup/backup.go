package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Decaded/MSGA-server/internal/config"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type Service struct {
	store  store.Backend
	client *s3.Client
	bucket string
	prefix string
	log    *zap.Logger
}

// NewService builds the backup service, or nil when no bucket is configured.
func NewService(st store.Backend, cfg config.BackupConfig, log *zap.Logger) *Service {
	if !cfg.Enabled() {
		return nil
	}

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.Endpoint),
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})

	return &Service{
		store:  st,
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log,
	}
}

// Run dumps every collection into a single timestamped JSON object and uploads
// it to the configured bucket. Returns the object key.
func (s *Service) Run(ctx context.Context) (string, error) {
	dump := make(map[string]json.RawMessage, len(store.Names))
	for _, name := range store.Names {
		var doc json.RawMessage
		if err := s.store.Get(name, &doc); err != nil {
			return "", apperr.Wrap(apperr.KindInternal, fmt.Sprintf("failed to read collection %s", name), err)
		}
		dump[name] = doc
	}

	body, err := json.Marshal(dump)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to encode backup", err)
	}

	key := fmt.Sprintf("%smsga-backup-%s.json", s.prefix, time.Now().UTC().Format("20060102-150405"))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "backup upload failed", err)
	}

	s.log.Info("backup uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)),
	)
	return key, nil
}
