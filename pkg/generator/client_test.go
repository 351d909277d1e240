package generator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/klangwerk/musegen/internal/testutil"
)

// newTestClient creates a client pointed at the mock backend with
// retries tuned for fast tests.
func newTestClient(t *testing.T, backend *testutil.MockBackend) *Client {
	t.Helper()

	client, err := New(Config{
		Mode:     ModeAPIKey,
		APIKey:   "test-key",
		Endpoint: backend.URL(),
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	client.retry = RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        50 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
	return client
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Mode: ModeAPIKey})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New error = %v, want ErrInvalidConfig", err)
	}
}

func TestClient_Generate(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)

	clips, err := client.Generate(context.Background(), Request{Prompt: "ambient, 70 bpm"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(clips) != 1 {
		t.Fatalf("got %d clips, want 1", len(clips))
	}
	if string(clips[0].Audio) != "mock audio" {
		t.Errorf("Audio = %q, want %q", clips[0].Audio, "mock audio")
	}
	if clips[0].MimeType != "audio/wav" {
		t.Errorf("MimeType = %q, want audio/wav", clips[0].MimeType)
	}
}

func TestClient_Generate_EmptyPrompt(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)

	if _, err := client.Generate(context.Background(), Request{}); err == nil {
		t.Error("Generate with empty prompt should fail")
	}
	if backend.GetRequestCount() != 0 {
		t.Error("empty prompt should be rejected before hitting the backend")
	}
}

func TestClient_Generate_SendsAPIKey(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)

	if _, err := client.Generate(context.Background(), Request{Prompt: "jazz"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	backend.Reset()
	if _, err := client.Generate(context.Background(), Request{Prompt: "jazz"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got := backend.LastHeader.Get("X-API-Key"); got != "test-key" {
		t.Errorf("X-API-Key header = %q, want test-key", got)
	}
}

func TestClient_Generate_ClientErrorNotRetried(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)
	backend.SetResponse("/models/muse-2.0:generate", testutil.NewClientErrorResponse())

	_, err := client.Generate(context.Background(), Request{Prompt: "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate error = %v, want *APIError", err)
	}
	if apiErr.ErrorClass != ErrorClassClient {
		t.Errorf("ErrorClass = %q, want client", apiErr.ErrorClass)
	}
	if backend.GetRequestCount() != 1 {
		t.Errorf("backend got %d requests, want 1 (no retry on 4xx)", backend.GetRequestCount())
	}
}

func TestClient_Generate_ServerErrorRetried(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)

	// Fail twice, then succeed.
	failures := 0
	backend.SetHandler("/models/muse-2.0:generate", func(w http.ResponseWriter, r *http.Request) {
		if failures < 2 {
			failures++
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(testutil.ClipsBody("recovered")))
	})

	clips, err := client.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate failed after retries: %v", err)
	}
	if string(clips[0].Audio) != "recovered" {
		t.Errorf("Audio = %q, want recovered", clips[0].Audio)
	}
	if backend.GetRequestCount() != 3 {
		t.Errorf("backend got %d requests, want 3", backend.GetRequestCount())
	}
}

func TestClient_Generate_RetryExhausted(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)
	backend.SetResponse("/models/muse-2.0:generate", testutil.NewServerErrorResponse())

	_, err := client.Generate(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Generate error = %v, want ErrRetryExhausted", err)
	}
	if backend.GetRequestCount() != 3 {
		t.Errorf("backend got %d requests, want 3", backend.GetRequestCount())
	}
}

func TestClient_Generate_ContextCancellation(t *testing.T) {
	backend := testutil.NewMockBackend()
	defer backend.Close()

	client := newTestClient(t, backend)
	backend.SetResponse("/models/muse-2.0:generate", testutil.NewServerErrorResponse())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, Request{Prompt: "x"})
	if err == nil {
		t.Error("Generate with cancelled context should fail")
	}
}

func TestClient_GenerateURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "apikey mode",
			cfg: Config{
				Mode:     ModeAPIKey,
				APIKey:   "k",
				Endpoint: "https://muse.klangwerk.dev/v1",
				Model:    "muse-2.0",
			},
			want: "https://muse.klangwerk.dev/v1/models/muse-2.0:generate",
		},
		{
			name: "project mode",
			cfg: Config{
				Mode:      ModeProject,
				ProjectID: "studio-prod",
				Location:  "europe-west4",
				Endpoint:  "https://muse.klangwerk.dev/v1",
				Model:     "muse-2.0",
			},
			want: "https://muse.klangwerk.dev/v1/projects/studio-prod/locations/europe-west4/models/muse-2.0:generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := client.generateURL(); got != tt.want {
				t.Errorf("generateURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
