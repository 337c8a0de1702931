package releaseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"airlift/internal/release"
	"airlift/internal/services"
)

// HTTPDoer describes the HTTP client used by the release API service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UploadProgress reports artifact upload advancement.
type UploadProgress struct {
	SentBytes  int64
	TotalBytes int64
}

// Account describes the authenticated user, returned by token validation.
type Account struct {
	Email string `json:"email"`
}

// Client defines the remote release-tracking operations the workflow needs.
// Each call maps to a single atomic remote operation; retry policy, if any,
// lives behind the HTTPDoer, never here.
type Client interface {
	GetApp(ctx context.Context, appID string) (*release.App, error)
	// GetRelease returns (nil, nil) when no release exists for the version.
	GetRelease(ctx context.Context, appID, version string) (*release.Release, error)
	ListReleases(ctx context.Context, appID string) ([]release.Release, error)
	CreateRelease(ctx context.Context, appID string, req CreateReleaseRequest) (*release.Release, error)
	UploadArtifact(ctx context.Context, releaseID int64, platform release.Platform, artifactPath string, progress func(UploadProgress)) error
	UpdateReleaseStatus(ctx context.Context, appID string, releaseID int64, platform release.Platform, status release.Status) error
	ValidateToken(ctx context.Context) (*Account, error)
}

// CreateReleaseRequest carries the fields recorded at release creation.
type CreateReleaseRequest struct {
	Version         string           `json:"version"`
	FlutterRevision string           `json:"flutter_revision"`
	Platform        release.Platform `json:"platform"`
}

// Option configures the HTTP client.
type Option func(*HTTPClient)

// WithHTTPDoer overrides the HTTP transport for all calls (used in tests).
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *HTTPClient) {
		if doer != nil {
			c.client = doer
			c.uploader = doer
		}
	}
}

// HTTPClient talks to the release-tracking service over its REST API.
type HTTPClient struct {
	baseURL  string
	token    string
	client   HTTPDoer
	uploader HTTPDoer
}

// NewHTTPClient constructs a release API client. The timeout bounds every call
// except artifact uploads, which run until completion or context cancellation.
func NewHTTPClient(baseURL, token string, timeout time.Duration, opts ...Option) *HTTPClient {
	client := &HTTPClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:    strings.TrimSpace(token),
		client:   &http.Client{Timeout: timeout},
		uploader: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *HTTPClient) GetApp(ctx context.Context, appID string) (*release.App, error) {
	var app release.App
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/apps/%s", appID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) GetRelease(ctx context.Context, appID, version string) (*release.Release, error) {
	var rel release.Release
	err := c.getJSON(ctx, fmt.Sprintf("/api/v1/apps/%s/releases/%s", appID, version), &rel)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

func (c *HTTPClient) ListReleases(ctx context.Context, appID string) ([]release.Release, error) {
	var payload struct {
		Releases []release.Release `json:"releases"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/apps/%s/releases", appID), &payload); err != nil {
		return nil, err
	}
	return payload.Releases, nil
}

func (c *HTTPClient) CreateRelease(ctx context.Context, appID string, req CreateReleaseRequest) (*release.Release, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode create release request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/apps/%s/releases", appID), strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var rel release.Release
	if err := c.doJSON(httpReq, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

func (c *HTTPClient) UploadArtifact(ctx context.Context, releaseID int64, platform release.Platform, artifactPath string, progress func(UploadProgress)) error {
	file, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", artifactPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat artifact %s: %w", artifactPath, err)
	}

	counting := &countingReader{
		reader: file,
		total:  info.Size(),
		report: progress,
	}

	pipeReader, pipeWriter := io.Pipe()
	form := multipart.NewWriter(pipeWriter)
	go func() {
		part, err := form.CreateFormFile("artifact", filepath.Base(artifactPath))
		if err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, counting); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		if err := form.Close(); err != nil {
			pipeWriter.CloseWithError(err)
			return
		}
		pipeWriter.Close()
	}()

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/releases/%d/artifacts/%s", releaseID, platform), pipeReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.uploader.Do(req)
	if err != nil {
		return fmt.Errorf("upload artifact: %w", err)
	}
	defer resp.Body.Close()
	return responseError(resp)
}

func (c *HTTPClient) UpdateReleaseStatus(ctx context.Context, appID string, releaseID int64, platform release.Platform, status release.Status) error {
	body := fmt.Sprintf(`{"status":%q}`, status)
	path := fmt.Sprintf("/api/v1/apps/%s/releases/%d/platforms/%s/status", appID, releaseID, platform)
	req, err := c.newRequest(ctx, http.MethodPatch, path, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("update release status: %w", err)
	}
	defer resp.Body.Close()
	return responseError(resp)
}

func (c *HTTPClient) ValidateToken(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.getJSON(ctx, "/api/v1/account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		requestID = rid
	}
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *HTTPClient) doJSON(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := responseError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	detail := remoteErrorDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", services.ErrNotFound, detail)
		}
		return services.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return services.Wrap(services.ErrPrecondition, "", "", fmt.Sprintf("authentication rejected (%d)", resp.StatusCode), nil)
	default:
		message := fmt.Sprintf("remote service returned %d", resp.StatusCode)
		if detail != "" {
			message = fmt.Sprintf("%s: %s", message, detail)
		}
		return services.Wrap(services.ErrTransient, "", "", message, nil)
	}
}

func remoteErrorDetail(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

type countingReader struct {
	reader io.Reader
	total  int64
	sent   int64
	report func(UploadProgress)
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.sent += int64(n)
		if r.report != nil {
			r.report(UploadProgress{SentBytes: r.sent, TotalBytes: r.total})
		}
	}
	return n, err
}

var _ Client = (*HTTPClient)(nil)
