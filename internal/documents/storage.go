package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage is the document-storage collaborator. The ledger only persists the
// opaque path it returns; storage mechanics stay behind this interface.
type Storage interface {
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)
	Delete(ctx context.Context, path string) error
}

// HTTPStorage talks to the storage service over its HTTP object API.
type HTTPStorage struct {
	BaseURL   string
	SecretKey string
	Bucket    string
	Client    *http.Client
}

type storeResponse struct {
	Path string `json:"path"`
	Key  string `json:"Key"`
}

func (s *HTTPStorage) httpClient() *http.Client {
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return s.Client
}

func (s *HTTPStorage) bucket() string {
	if s.Bucket == "" {
		return "documents"
	}
	return s.Bucket
}

// Store uploads the bytes under a collision-free name derived from
// suggestedName and returns the object path.
func (s *HTTPStorage) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if s.SecretKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SECRET_KEY is not set")
	}
	name := uuid.New().String() + "-" + sanitizeName(suggestedName)
	base := strings.TrimRight(s.BaseURL, "/")
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, s.bucket(), name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	var out storeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	if out.Path != "" {
		return out.Path, nil
	}
	if out.Key != "" {
		return out.Key, nil
	}
	return s.bucket() + "/" + name, nil
}

// Delete removes a stored object by path.
func (s *HTTPStorage) Delete(ctx context.Context, path string) error {
	if s.BaseURL == "" {
		return fmt.Errorf("storage: STORAGE_URL is not set")
	}
	base := strings.TrimRight(s.BaseURL, "/")
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", base, url.PathEscape(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
