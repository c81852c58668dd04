package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fraudgate/internal/feature"
	"fraudgate/pkg/platform/sentinel"
)

// RemoteScorer calls a model serving endpoint over HTTP. The endpoint accepts
// the feature vector as JSON and answers {"score": <float>}. The caller's
// context bounds the call; the engine supplies the timeout.
type RemoteScorer struct {
	url    string
	client *http.Client
}

// NewRemoteScorer constructs a scorer client for the given endpoint. A nil
// httpClient falls back to http.DefaultClient.
func NewRemoteScorer(url string, httpClient *http.Client) *RemoteScorer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoteScorer{url: url, client: httpClient}
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// Score implements Scorer.
func (s *RemoteScorer) Score(ctx context.Context, v feature.Vector) (float64, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal feature vector: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build scorer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("scorer call: %w", sentinel.ErrTimeout)
		}
		return 0, fmt.Errorf("scorer call: %w: %v", sentinel.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scorer returned status %d: %w", resp.StatusCode, sentinel.ErrScorerUnavailable)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode scorer response: %w", sentinel.ErrScorerContract)
	}
	return out.Score, nil
}
