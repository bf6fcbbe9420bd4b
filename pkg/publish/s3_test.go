package publish

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/matzehuels/chartwire/pkg/cache"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

func TestNewS3PublisherValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
	}{
		{"no endpoint", S3Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{"no credentials", S3Config{Endpoint: "localhost:9000", Bucket: "b"}},
		{"no bucket", S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Publisher(tt.cfg, nil)
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestObjectKeyAndURL(t *testing.T) {
	p, err := NewS3Publisher(S3Config{
		Endpoint:  "s3.example.com",
		AccessKey: "a",
		SecretKey: "s",
		Bucket:    "charts",
		Prefix:    "/reports/",
		UseSSL:    true,
	}, nil)
	if err != nil {
		t.Fatalf("NewS3Publisher: %v", err)
	}
	key := p.ObjectKey("q1", "index.html")
	if key != "reports/q1/index.html" {
		t.Errorf("ObjectKey = %q", key)
	}
	if got := p.ObjectURL(key); got != "https://s3.example.com/charts/reports/q1/index.html" {
		t.Errorf("ObjectURL = %q", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"index.html":  "text/html; charset=utf-8",
		"sales.js":    "text/javascript; charset=utf-8",
		"charts.json": "application/json",
		"blob":        "application/octet-stream",
	}
	for file, want := range tests {
		if got := ContentType(file); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", file, got, want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if retryable(nil) != nil {
		t.Error("nil should stay nil")
	}
	denied := minio.ErrorResponse{StatusCode: 403, Code: "AccessDenied"}
	if cache.IsRetryable(retryable(denied)) {
		t.Error("client errors should not be retried")
	}
	err := retryable(errors.New("connection reset"))
	if !cache.IsRetryable(err) || !errors.Is(err, cache.ErrNetwork) {
		t.Errorf("transport errors should be retryable network errors: %v", err)
	}
}

func TestPublishRejectsBadName(t *testing.T) {
	p, err := NewS3Publisher(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Publish(context.Background(), "../up", map[string][]byte{"index.html": nil})
	if !errs.Is(err, errs.ErrCodeInvalidChartID) {
		t.Errorf("expected INVALID_CHART_ID, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	endpoint := os.Getenv("CHARTWIRE_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("CHARTWIRE_TEST_S3_ENDPOINT not set")
	}
	p, err := NewS3Publisher(S3Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("CHARTWIRE_TEST_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("CHARTWIRE_TEST_S3_SECRET_KEY"),
		Bucket:    "chartwire-test",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	uploads, err := p.Publish(ctx, "report", map[string][]byte{
		"index.html": []byte("<!DOCTYPE html>"),
		"charts.js":  []byte("void 0;"),
	})
	if err != nil {
		t.Skipf("s3 unavailable: %v", err)
	}
	if len(uploads) != 2 || !strings.HasSuffix(uploads[0].Key, "charts.js") {
		t.Errorf("unexpected uploads: %+v", uploads)
	}
}
