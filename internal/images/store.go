package images

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lotkeeper/lotkeeper/internal/config"
)

const thumbnailWidth, thumbnailHeight = 300, 225

// Store persists vehicle photos in an S3-compatible bucket and hands back
// public URLs.
type Store struct {
	client *s3.Client
	cfg    config.MediaConfig
}

// StoredPhoto is the pair of URLs produced by an upload.
type StoredPhoto struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// NewStore builds the S3 client. Returns nil when no bucket is configured so
// callers can treat photo upload as an optional feature.
func NewStore(ctx context.Context, cfg config.MediaConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &Store{client: client, cfg: cfg}, nil
}

// UploadVehiclePhoto transcodes the binary, stores a full-size copy and a
// thumbnail under the vehicle's folder, both publicly readable.
func (s *Store) UploadVehiclePhoto(ctx context.Context, vehicleTitle string, vehicleID int64, filename string, data []byte) (*StoredPhoto, error) {
	full, err := Transcode(data)
	if err != nil {
		return nil, err
	}
	thumb, err := TranscodeBounded(data, thumbnailWidth, thumbnailHeight)
	if err != nil {
		return nil, err
	}

	folder := SanitizeFolder(vehicleTitle, vehicleID)
	base := sanitizeBaseName(filename)

	fullKey := path.Join("vehicles", folder, base+".jpg")
	thumbKey := path.Join("vehicles", folder, "thumbs", base+".jpg")

	if err := s.put(ctx, fullKey, full); err != nil {
		return nil, err
	}
	if err := s.put(ctx, thumbKey, thumb); err != nil {
		return nil, err
	}

	return &StoredPhoto{
		URL:          s.publicURL(fullKey),
		ThumbnailURL: s.publicURL(thumbKey),
	}, nil
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL + "/" + key
	}
	if s.cfg.Endpoint != "" {
		host := strings.TrimPrefix(s.cfg.Endpoint, "https://")
		return fmt.Sprintf("https://%s.%s/%s", s.cfg.Bucket, host, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// SanitizeFolder derives a filesystem-safe per-vehicle grouping from the
// vehicle title and id.
func SanitizeFolder(title string, id int64) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "vehicle"
	}
	return fmt.Sprintf("%s-%d", name, id)
}

func sanitizeBaseName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.ToLower(strings.TrimSpace(base))
	base = unsafeNameChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "photo"
	}
	return base
}
