package releaseapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"airlift/internal/release"
	"airlift/internal/services"
	"airlift/internal/services/releaseapi"
)

func newTestClient(t *testing.T, handler http.Handler) *releaseapi.HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return releaseapi.NewHTTPClient(server.URL, "tok-123", 5*time.Second)
}

func TestGetAppSendsAuthAndRequestID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/apps/app-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing request id")
		}
		json.NewEncoder(w).Encode(release.App{ID: "app-1", DisplayName: "Demo"})
	}))

	app, err := client.GetApp(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("GetApp: %v", err)
	}
	if app.DisplayName != "Demo" {
		t.Errorf("display name = %q", app.DisplayName)
	}
}

func TestGetReleaseAbsentReturnsNil(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	rel, err := client.GetRelease(context.Background(), "app-1", "1.0.0")
	if err != nil {
		t.Fatalf("GetRelease: %v", err)
	}
	if rel != nil {
		t.Fatalf("expected nil release, got %+v", rel)
	}
}

func TestGetAppNotFoundSurfacesMarker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"app app-1 does not exist"}`)
	}))

	_, err := client.GetApp(context.Background(), "app-1")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateReleasePostsPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		var req releaseapi.CreateReleaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Version != "1.0.0" || req.Platform != release.PlatformAndroid || req.FlutterRevision != "abc123" {
			t.Errorf("unexpected request %+v", req)
		}
		json.NewEncoder(w).Encode(release.Release{
			ID: 7, AppID: "app-1", Version: req.Version, FlutterRevision: req.FlutterRevision,
			PlatformStatus: map[release.Platform]release.Status{release.PlatformAndroid: release.StatusDraft},
		})
	}))

	rel, err := client.CreateRelease(context.Background(), "app-1", releaseapi.CreateReleaseRequest{
		Version:         "1.0.0",
		FlutterRevision: "abc123",
		Platform:        release.PlatformAndroid,
	})
	if err != nil {
		t.Fatalf("CreateRelease: %v", err)
	}
	if rel.ID != 7 {
		t.Errorf("release id = %d", rel.ID)
	}
}

func TestUploadArtifactStreamsMultipartWithProgress(t *testing.T) {
	t.Parallel()

	artifact := filepath.Join(t.TempDir(), "app.aar")
	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := os.WriteFile(artifact, payload, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	var received []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/releases/7/artifacts/android" {
			t.Errorf("path = %q", r.URL.Path)
		}
		file, header, err := r.FormFile("artifact")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "app.aar" {
			t.Errorf("filename = %q", header.Filename)
		}
		received, err = io.ReadAll(file)
		if err != nil {
			t.Fatalf("read upload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	var last releaseapi.UploadProgress
	err := client.UploadArtifact(context.Background(), 7, release.PlatformAndroid, artifact, func(p releaseapi.UploadProgress) {
		last = p
	})
	if err != nil {
		t.Fatalf("UploadArtifact: %v", err)
	}
	if len(received) != len(payload) {
		t.Errorf("received %d bytes, want %d", len(received), len(payload))
	}
	if last.SentBytes != int64(len(payload)) || last.TotalBytes != int64(len(payload)) {
		t.Errorf("final progress = %+v", last)
	}
}

func TestUploadArtifactMissingFile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be reached")
	}))

	err := client.UploadArtifact(context.Background(), 7, release.PlatformAndroid, filepath.Join(t.TempDir(), "nope.aar"), nil)
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestUpdateReleaseStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/api/v1/apps/app-1/releases/7/platforms/android/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"status":"active"}` {
			t.Errorf("body = %q", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.UpdateReleaseStatus(context.Background(), "app-1", 7, release.PlatformAndroid, release.StatusActive)
	if err != nil {
		t.Fatalf("UpdateReleaseStatus: %v", err)
	}
}

func TestAuthFailureClassifiedAsPrecondition(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ValidateToken(context.Background())
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestServerErrorClassifiedAsTransient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error":"upstream flake"}`)
	}))

	_, err := client.ListReleases(context.Background(), "app-1")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}
