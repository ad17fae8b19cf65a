package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, bucket: "broker-records"}, server
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func s3Error(code, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, message)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), Options{
		Endpoint:  "https://objects.example.com",
		Region:    "us-east-1",
		Bucket:    "broker-records",
		AccessKey: "ak",
		SecretKey: "sk",
		PathStyle: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Bucket() != "broker-records" {
		t.Errorf("expected bucket broker-records, got %s", client.Bucket())
	}

	if _, err := NewClient(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestCreateBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"created", 200, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`, false},
		{"already owned", 409, s3Error("BucketAlreadyOwnedByYou", "you already own it"), false},
		{"owned by someone else", 409, s3Error("BucketAlreadyExists", "taken"), true},
		{"access denied", 403, s3Error("AccessDenied", "Access Denied"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				xmlResponse(w, tt.status, tt.body)
			}))
			defer server.Close()

			err := client.CreateBucket(context.Background())
			if tt.wantErr && err == nil {
				t.Fatal("expected error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBucketExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"exists", 200, true, false},
		{"missing", 404, false, false},
		{"forbidden", 403, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("expected HEAD, got %s", r.Method)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			exists, err := client.BucketExists(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tt.want {
				t.Errorf("expected exists=%v, got %v", tt.want, exists)
			}
		})
	}
}

func TestPutObject_Success(t *testing.T) {
	t.Parallel()

	var capturedBody []byte
	var capturedPath string
	var mu sync.Mutex

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "PUT" {
			mu.Lock()
			body, _ := io.ReadAll(r.Body)
			capturedBody = body
			capturedPath = r.URL.Path
			mu.Unlock()
			w.WriteHeader(200)
			return
		}
		w.WriteHeader(404)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	data := []byte(`{"masters":"gp-master:3000"}`)
	err := client.PutObject(context.Background(), "additionalData/svc1", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !bytes.Equal(capturedBody, data) {
		t.Errorf("expected body %q, got %q", data, capturedBody)
	}
	if capturedPath != "/broker-records/additionalData/svc1" {
		t.Errorf("unexpected object path %q", capturedPath)
	}
}

func TestPutObject_Error(t *testing.T) {
	t.Parallel()

	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 500, s3Error("InternalError", "Internal Error"))
	}))
	defer server.Close()

	err := client.PutObject(context.Background(), "test-key", []byte("data"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to put object test-key in bucket broker-records") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestPutObjectIfAbsent(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	stored := map[string]bool{}
	var conditions []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		conditions = append(conditions, r.Header.Get("If-None-Match"))
		if stored[r.URL.Path] {
			xmlResponse(w, 412, s3Error("PreconditionFailed", "At least one of the pre-conditions you specified did not hold"))
			return
		}
		stored[r.URL.Path] = true
		w.WriteHeader(200)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	if err := client.PutObjectIfAbsent(context.Background(), "locks/svc1", []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := client.PutObjectIfAbsent(context.Background(), "locks/svc1", []byte(`{}`))
	if !errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, c := range conditions {
		if c != "*" {
			t.Errorf("expected If-None-Match: *, got %q", c)
		}
	}
}

func TestPutObjectIfAbsent_Error(t *testing.T) {
	t.Parallel()

	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 403, s3Error("AccessDenied", "Access Denied"))
	}))
	defer server.Close()

	err := client.PutObjectIfAbsent(context.Background(), "locks/svc1", []byte(`{}`))
	if err == nil || errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected a plain put failure, got %v", err)
	}
}

func TestGetObject_Success(t *testing.T) {
	t.Parallel()

	expectedData := []byte("object content here")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(expectedData)))
			w.WriteHeader(200)
			_, _ = w.Write(expectedData)
			return
		}
		w.WriteHeader(404)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	data, err := client.GetObject(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, expectedData) {
		t.Errorf("expected %q, got %q", expectedData, data)
	}
}

func TestGetObject_NoSuchKey(t *testing.T) {
	t.Parallel()

	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 404, s3Error("NoSuchKey", "The specified key does not exist."))
	}))
	defer server.Close()

	_, err := client.GetObject(context.Background(), "missing-key")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !IsNotFound(err) {
		t.Errorf("expected not-found error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "failed to get object missing-key from bucket broker-records") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDeleteObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"deleted", 204, "", false},
		{"missing key", 404, s3Error("NoSuchKey", "gone"), false},
		{"access denied", 403, s3Error("AccessDenied", "Access Denied"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE, got %s", r.Method)
				}
				if tt.body == "" {
					w.WriteHeader(tt.status)
					return
				}
				xmlResponse(w, tt.status, tt.body)
			}))
			defer server.Close()

			err := client.DeleteObject(context.Background(), "additionalData/svc1")
			if tt.wantErr && err == nil {
				t.Fatal("expected error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsNotFound_WrappedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"wrapped NoSuchKey", fmt.Errorf("outer: %w", &s3types.NoSuchKey{}), true},
		{"wrapped NoSuchBucket", fmt.Errorf("outer: %w", &s3types.NoSuchBucket{}), true},
		{"wrapped NotFound", fmt.Errorf("outer: %w", &s3types.NotFound{}), true},
		{"wrapped generic error", fmt.Errorf("outer: %w", fmt.Errorf("inner error")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBucketAlreadyOwnedByYou(t *testing.T) {
	t.Parallel()

	if isBucketAlreadyOwnedByYou(nil) {
		t.Error("nil error should not match")
	}
	if !isBucketAlreadyOwnedByYou(fmt.Errorf("outer: %w", &s3types.BucketAlreadyOwnedByYou{})) {
		t.Error("wrapped BucketAlreadyOwnedByYou should match")
	}
	if isBucketAlreadyOwnedByYou(fmt.Errorf("outer: %w", &s3types.BucketAlreadyExists{})) {
		t.Error("BucketAlreadyExists belongs to another account and should not match")
	}
}
