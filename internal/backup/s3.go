package backup

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"strings"
)

// S3Config holds the parameters for shipping database snapshots to an
// S3-compatible bucket.
type S3Config struct {
	BucketURL    string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UseSSL       bool
	ContentType  string
}

// S3Uploader ships snapshot files with the AWS CLI (`aws s3 cp`), which
// keeps remote backups out of the Go dependency graph. Everything
// derivable from the config is resolved once at construction.
type S3Uploader struct {
	bucket      string
	prefix      string
	region      string
	endpoint    string
	contentType string
	creds       []string
}

// NewS3Uploader validates the config and resolves the upload target.
// BucketURL format: s3://bucket/prefix (prefix optional).
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	bucket, prefix, err := parseS3BucketURL(cfg.BucketURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("s3: access key and secret key are required")
	}
	if _, err := exec.LookPath("aws"); err != nil {
		return nil, fmt.Errorf("s3: aws cli not found in PATH")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	creds := []string{
		"AWS_ACCESS_KEY_ID=" + cfg.AccessKey,
		"AWS_SECRET_ACCESS_KEY=" + cfg.SecretKey,
		"AWS_DEFAULT_REGION=" + region,
	}
	if strings.TrimSpace(cfg.SessionToken) != "" {
		creds = append(creds, "AWS_SESSION_TOKEN="+cfg.SessionToken)
	}

	return &S3Uploader{
		bucket:      bucket,
		prefix:      prefix,
		region:      region,
		endpoint:    normalizeEndpoint(cfg.Endpoint, cfg.UseSSL),
		contentType: strings.TrimSpace(cfg.ContentType),
		creds:       creds,
	}, nil
}

// UploadFile copies localPath into the bucket under the configured
// key prefix, keeping the snapshot's file name as the object name.
func (u *S3Uploader) UploadFile(ctx context.Context, localPath string) error {
	cmd := exec.CommandContext(ctx, "aws", u.copyArgs(localPath)...)
	cmd.Env = append(os.Environ(), u.creds...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("s3 upload command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (u *S3Uploader) copyArgs(localPath string) []string {
	args := []string{"s3", "cp", localPath, u.objectURL(localPath), "--region", u.region, "--only-show-errors"}
	if u.contentType != "" {
		args = append(args, "--content-type", u.contentType)
	}
	if u.endpoint != "" {
		args = append(args, "--endpoint-url", u.endpoint)
	}
	return args
}

func (u *S3Uploader) objectURL(localPath string) string {
	key := path.Base(localPath)
	if u.prefix != "" {
		key = path.Join(u.prefix, key)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key)
}

func normalizeEndpoint(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func parseS3BucketURL(raw string) (bucket string, prefix string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("s3: parse bucket-url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("s3: bucket-url must use s3:// scheme")
	}
	if strings.TrimSpace(u.Host) == "" {
		return "", "", fmt.Errorf("s3: bucket-url missing bucket name")
	}

	prefix = strings.Trim(strings.TrimSpace(u.Path), "/")
	return u.Host, prefix, nil
}
