package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	sc "github.com/dmitrijs2005/userdir/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// MaxUploadBytes caps a single upload body (the boundary gateway cannot carry
// more than this either).
const MaxUploadBytes = 10 * 1024 * 1024

const defaultContentType = "application/octet-stream"

type FileService struct {
	config *sc.Config
	logger logging.Logger
}

func NewFileService(cfg *sc.Config, logger logging.Logger) *FileService {
	return &FileService{config: cfg, logger: logger.With("module", "file_service")}
}

// UploadResult describes a stored object.
type UploadResult struct {
	Filename    string `json:"filename"`
	S3Key       string `json:"s3Key"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

func (s *FileService) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.config.AWSRegion),
	}
	if s.config.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.config.AWSAccessKey, s.config.AWSSecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.AWSBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.AWSBaseEndpoint)
		}
	}), nil
}

// Upload stores the file under uploads/{username}/{filename} with ownership
// metadata. The caller has already passed the authorization gate; identity is
// still required here because it names the key prefix.
func (s *FileService) Upload(ctx context.Context, id *auth.IdentityClaims, filename, contentType string, data []byte) (*UploadResult, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrorInvalidArgument)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file size exceeds maximum limit of %d MB", common.ErrorInvalidArgument, MaxUploadBytes/(1024*1024))
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client error: %w", err)
	}

	key := fmt.Sprintf("uploads/%s/%s", id.Username, filename)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata: map[string]string{
			"uploaded-by":       id.Username,
			"user-role":         id.Role.String(),
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload error: %w", err)
	}

	s.logger.Info(ctx, "file uploaded", "key", key, "size", len(data), "contentType", contentType)
	return &UploadResult{Filename: filename, S3Key: key, Size: len(data), ContentType: contentType}, nil
}

// ValidateFilename rejects names that could escape the caller's key prefix:
// path separators, parent references, control characters, overlong names.
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", common.ErrorInvalidArgument)
	}
	if len(filename) > 255 {
		return fmt.Errorf("%w: filename too long", common.ErrorInvalidArgument)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: filename cannot contain path separators or parent references", common.ErrorInvalidArgument)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: filename cannot contain control characters", common.ErrorInvalidArgument)
		}
	}
	return nil
}
