package upstream

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"

	"github.com/runwaylens/runwaylens-server/internal/folder"

	domainerrors "github.com/runwaylens/runwaylens-server/internal/errors"
)

// lambdaProxy is the API-Gateway proxy wrapper some deployments serve:
// the mapping arrives JSON-encoded inside a string body.
type lambdaProxy struct {
	Body string `json:"body"`
}

// FetchFolderMap retrieves the brand/season -> storage folder mapping. The
// endpoint serves either the mapping object directly or the lambda proxy
// wrapper {body: "<json>"}; both are accepted. An unconfigured endpoint
// yields an empty mapping, leaving resolution to the synthesized rule.
func (c *Client) FetchFolderMap(ctx context.Context) (folder.Mapping, error) {
	if c.folderMapURL == "" {
		return folder.Mapping{}, nil
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.folderMapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Upstream("folder map fetch failed").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Upstream(fmt.Sprintf("folder map fetch failed: status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.Upstream("folder map read failed").Wrap(err)
	}

	raw, err := decodeFolderMap(body)
	if err != nil {
		return nil, domainerrors.Upstream("folder map parse failed").Wrap(err)
	}

	mapping := folder.NewMapping(raw)
	c.logger.Debug("folder map fetched", "brands", len(mapping))
	return mapping, nil
}

func decodeFolderMap(body []byte) (map[string]map[string]string, error) {
	// The proxy wrapper parses as an object with a string "body" field;
	// the direct mapping has object values, so the wrapper probe either
	// yields the inner payload or leaves Body empty.
	var wrapper lambdaProxy
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Body != "" {
		body = []byte(wrapper.Body)
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
