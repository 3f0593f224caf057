package backup

import (
	"strings"
	"testing"
)

func TestParseS3BucketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr string
		wantBkt string
		wantPre string
	}{
		{name: "bucket only", raw: "s3://marquee-backups", wantBkt: "marquee-backups"},
		{name: "bucket with prefix", raw: "s3://marquee-backups/prod/db", wantBkt: "marquee-backups", wantPre: "prod/db"},
		{name: "trailing slash trimmed", raw: "s3://marquee-backups/prod/", wantBkt: "marquee-backups", wantPre: "prod"},
		{name: "https rejected", raw: "https://marquee-backups/prod", wantErr: "s3:// scheme"},
		{name: "missing bucket", raw: "s3:///prod", wantErr: "missing bucket"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bucket, prefix, err := parseS3BucketURL(tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseS3BucketURL(%q): %v", tt.raw, err)
			}
			if bucket != tt.wantBkt || prefix != tt.wantPre {
				t.Fatalf("parsed %q/%q, want %q/%q", bucket, prefix, tt.wantBkt, tt.wantPre)
			}
		})
	}
}

func TestObjectURLKeepsSnapshotName(t *testing.T) {
	t.Parallel()

	u := &S3Uploader{bucket: "marquee-backups", prefix: "prod/db"}
	got := u.objectURL("/var/backups/marquee/marquee-20260826-120000.db")
	want := "s3://marquee-backups/prod/db/marquee-20260826-120000.db"
	if got != want {
		t.Fatalf("objectURL = %q, want %q", got, want)
	}
}

func TestCopyArgsIncludeContentTypeAndEndpoint(t *testing.T) {
	t.Parallel()

	u := &S3Uploader{
		bucket:      "marquee-backups",
		region:      "eu-west-1",
		endpoint:    "https://minio.internal:9000",
		contentType: "application/octet-stream",
	}
	args := strings.Join(u.copyArgs("/tmp/marquee-20260826-120000.db"), " ")

	for _, want := range []string{
		"s3 cp /tmp/marquee-20260826-120000.db s3://marquee-backups/marquee-20260826-120000.db",
		"--region eu-west-1",
		"--content-type application/octet-stream",
		"--endpoint-url https://minio.internal:9000",
	} {
		if !strings.Contains(args, want) {
			t.Fatalf("copyArgs = %q, missing %q", args, want)
		}
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", true, ""},
		{"minio.internal:9000", false, "http://minio.internal:9000"},
		{"minio.internal:9000", true, "https://minio.internal:9000"},
		{"http://minio.internal:9000", true, "http://minio.internal:9000"},
	}
	for _, tt := range tests {
		if got := normalizeEndpoint(tt.endpoint, tt.useSSL); got != tt.want {
			t.Fatalf("normalizeEndpoint(%q, %v) = %q, want %q", tt.endpoint, tt.useSSL, got, tt.want)
		}
	}
}

func TestNewS3UploaderRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewS3Uploader(S3Config{BucketURL: "s3://marquee-backups/prod"})
	if err == nil || !strings.Contains(err.Error(), "access key") {
		t.Fatalf("err = %v, want credentials error", err)
	}
}
