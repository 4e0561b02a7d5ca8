// Package face talks to the external face recognition service that enrolls
// reference photos and scores probe photos against them.
package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
)

var (
	ErrNoFaceDetected         = errors.New("no face detected in photo")
	ErrMultipleFaces          = errors.New("multiple faces detected in photo")
	ErrLowQualityPhoto        = errors.New("photo quality is too low for face recognition")
	ErrFaceServiceUnavailable = errors.New("face recognition service unavailable")
)

// Recognizer is the contract the attendance and employee services depend on.
type Recognizer interface {
	// Enroll registers a reference photo and returns the opaque face token.
	Enroll(ctx context.Context, employeeID string, p photo.Photo) (string, error)
	// Verify compares a probe photo with an enrolled token and returns a
	// similarity score in [0, 1].
	Verify(ctx context.Context, faceToken string, p photo.Photo) (float64, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(baseURL, apiKey string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

type enrollRequest struct {
	ExternalID string `json:"external_id"`
	Image      string `json:"image"`
}

type enrollResponse struct {
	FaceToken string `json:"face_token"`
}

type verifyRequest struct {
	FaceToken string `json:"face_token"`
	Image     string `json:"image"`
}

type verifyResponse struct {
	Similarity float64 `json:"similarity"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Enroll(ctx context.Context, employeeID string, p photo.Photo) (string, error) {
	var out enrollResponse
	if err := c.post(ctx, "enroll", "/v1/faces/enroll", enrollRequest{ExternalID: employeeID, Image: p.Base64()}, &out); err != nil {
		return "", err
	}
	if out.FaceToken == "" {
		return "", fmt.Errorf("%w: empty face token in enroll response", ErrFaceServiceUnavailable)
	}
	return out.FaceToken, nil
}

func (c *Client) Verify(ctx context.Context, faceToken string, p photo.Photo) (float64, error) {
	var out verifyResponse
	if err := c.post(ctx, "verify", "/v1/faces/verify", verifyRequest{FaceToken: faceToken, Image: p.Base64()}, &out); err != nil {
		return 0, err
	}
	if out.Similarity < 0 || out.Similarity > 1 {
		return 0, fmt.Errorf("%w: similarity %v out of range", ErrFaceServiceUnavailable, out.Similarity)
	}
	return out.Similarity, nil
}

func (c *Client) post(ctx context.Context, operation, path string, payload, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveFaceCall(operation, err == nil, time.Since(start))
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "face service request failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: %v", ErrFaceServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrFaceServiceUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", ErrFaceServiceUnavailable, operation, err)
		}
		return nil
	}

	return mapErrorResponse(resp.StatusCode, raw)
}

// mapErrorResponse turns a photo rejection into its sentinel; anything else
// is treated as the dependency being unavailable.
func mapErrorResponse(status int, raw []byte) error {
	var er errorResponse
	_ = json.Unmarshal(raw, &er)

	if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
		switch er.Error.Code {
		case "NO_FACE_DETECTED":
			return ErrNoFaceDetected
		case "MULTIPLE_FACES":
			return ErrMultipleFaces
		case "LOW_QUALITY":
			return ErrLowQualityPhoto
		}
	}

	return fmt.Errorf("%w: status %d %s", ErrFaceServiceUnavailable, status, er.Error.Code)
}
