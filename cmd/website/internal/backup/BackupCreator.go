package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/alitto/pond/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type BackupCreator interface {
	CreateBackup()
}

type BackupCreatorConfig struct {
	AwsBucket    string
	AwsRegion    string
	BackupFolder string
	MaxWorkers   int
	S3Client     s3.S3Client
	Store        store.Store
	ShutdownCtx  context.Context
}

/*
BackupCreatorService mirrors durable uploads and the settings document
into an S3 bucket. It is an off-site copy of an otherwise single-disk
archive; nothing in the application reads from the bucket.
*/
type BackupCreatorService struct {
	awsBucket    string
	awsRegion    string
	backupFolder string
	maxWorkers   int
	s3Client     s3.S3Client
	store        store.Store
	shutdownCtx  context.Context
}

func NewBackupCreatorService(config BackupCreatorConfig) BackupCreatorService {
	return BackupCreatorService{
		awsBucket:    config.AwsBucket,
		awsRegion:    config.AwsRegion,
		backupFolder: config.BackupFolder,
		maxWorkers:   config.MaxWorkers,
		s3Client:     config.S3Client,
		store:        config.Store,
		shutdownCtx:  config.ShutdownCtx,
	}
}

func (c BackupCreatorService) CreateBackup() {
	var (
		err     error
		records []models.StoredUpload
	)

	slog.Info("starting media backup...")

	if err = c.ensureBucketExists(c.awsBucket); err != nil {
		slog.Error("error ensuring backup bucket exists. skipping backup", "bucket", c.awsBucket, "error", err)
		return
	}

	existing, err := c.listBackedUpKeys()

	if err != nil {
		slog.Error("error listing existing backups", "error", err)
		return
	}

	if records, err = c.store.ListUploads(); err != nil {
		slog.Error("error listing uploads for backup", "error", err)
		return
	}

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	var copied atomic.Int64

	for _, record := range records {
		key := c.uploadKey(record.ID)

		if _, ok := existing[key]; ok {
			continue
		}

		pool.Submit(func() {
			if _, err := c.s3Client.Put(c.awsBucket, key, bytes.NewReader(record.Blob)); err != nil {
				slog.Error("error backing up upload", "id", record.ID, "error", err)
				return
			}

			copied.Add(1)
		})
	}

	pool.Submit(func() {
		c.backupSettings()
	})

	_ = pool.Stop().Wait()
	slog.Info("media backup finished.", "copied", copied.Load())
}

func (c BackupCreatorService) backupSettings() {
	payload, err := c.store.GetSettings()

	if err != nil || len(payload) == 0 {
		return
	}

	key := filepath.Join(c.backupFolder, "settings.json")

	if _, err = c.s3Client.Put(c.awsBucket, key, bytes.NewReader(payload)); err != nil {
		slog.Error("error backing up settings", "error", err)
	}
}

/*
listBackedUpKeys returns the set of upload keys already in the bucket,
so each sweep only copies new media. The settings document is excluded;
it is rewritten every sweep.
*/
func (c BackupCreatorService) listBackedUpKeys() (map[string]struct{}, error) {
	uploadsPrefix := filepath.Join(c.backupFolder, "uploads")

	response, err := c.s3Client.List(
		c.awsBucket,
		uploadsPrefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return !strings.HasSuffix(aws.ToString(obj.Key), "settings.json")
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing backup bucket: %w", err)
	}

	result := map[string]struct{}{}

	for _, obj := range response.Objects {
		result[obj.Key] = struct{}{}
	}

	return result, nil
}

func (c BackupCreatorService) uploadKey(id string) string {
	return filepath.Join(c.backupFolder, "uploads", id)
}

func (c BackupCreatorService) ensureBucketExists(bucketName string) error {
	var (
		err    error
		exists bool
	)

	exists, err = c.s3Client.BucketExists(bucketName)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", bucketName, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating backup bucket", "bucketName", bucketName)

	err = c.s3Client.CreateBucket(
		bucketName,
		createbucketoptions.WithRegion(c.awsRegion),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", bucketName, err)
	}

	return nil
}
