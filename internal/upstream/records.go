package upstream

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runwaylens/runwaylens-server/internal/domain"
	domainerrors "github.com/runwaylens/runwaylens-server/internal/errors"
)

// wireRecord is the loose boundary shape of one analysis record. Field
// spellings vary between deployments (brand vs designer, materials as a
// string or an array); everything is coerced into domain.GarmentRecord
// here and nowhere else.
type wireRecord struct {
	ID                string `json:"id"`
	RecordID          string `json:"record_id"`
	ItemName          string `json:"item_name"`
	ColorName         string `json:"color_name"`
	ColorHex          string `json:"color_hex"`
	Materials         any    `json:"materials"`
	Designer          string `json:"designer"`
	Brand             string `json:"brand"`
	Season            string `json:"season"`
	Collection        string `json:"collection"`
	OriginalImageName string `json:"original_image_name"`
	Timestamp         string `json:"timestamp"`
}

// recordEnvelope is the paginated lambda response shape.
type recordEnvelope struct {
	Items     []wireRecord `json:"items"`
	NextToken string       `json:"next_token"`
	Count     int          `json:"count"`
}

// FetchRecords retrieves the full garment record set from the analysis
// endpoint, following next_token pagination until exhausted. The endpoint
// may serve either a bare JSON array or the {items, next_token, count}
// envelope. Malformed records are dropped and counted, never propagated.
func (c *Client) FetchRecords(ctx context.Context) ([]domain.GarmentRecord, error) {
	var records []domain.GarmentRecord
	dropped := 0
	token := ""

	for page := 0; page < maxPages; page++ {
		wire, nextToken, err := c.fetchRecordPage(ctx, token)
		if err != nil {
			return nil, err
		}

		for _, w := range wire {
			r, ok := coerceRecord(w)
			if !ok {
				dropped++
				continue
			}
			if err := c.validator.Validate(r); err != nil {
				c.logger.Debug("dropping invalid record", "id", r.ID, "error", err)
				dropped++
				continue
			}
			records = append(records, r)
		}

		if nextToken == "" {
			break
		}
		token = nextToken
	}

	if dropped > 0 {
		c.logger.Warn("dropped malformed records", "dropped", dropped, "kept", len(records))
	}
	return records, nil
}

func (c *Client) fetchRecordPage(ctx context.Context, token string) ([]wireRecord, string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.analysisURL
	if token != "" {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + "next_token=" + url.QueryEscape(token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", domainerrors.Upstream("analysis fetch failed").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", domainerrors.Upstream(fmt.Sprintf("analysis fetch failed: status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", domainerrors.Upstream("analysis read failed").Wrap(err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var wire []wireRecord
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, "", domainerrors.Upstream("analysis parse failed").Wrap(err)
		}
		return wire, "", nil
	}

	var envelope recordEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, "", domainerrors.Upstream("analysis parse failed").Wrap(err)
	}
	return envelope.Items, envelope.NextToken, nil
}

// coerceRecord maps a wire record onto the strict domain shape. Records
// carrying neither an item name nor a color are useless to every grouping
// and are rejected outright.
func coerceRecord(w wireRecord) (domain.GarmentRecord, bool) {
	r := domain.GarmentRecord{
		ID:                w.ID,
		ItemName:          strings.TrimSpace(w.ItemName),
		ColorName:         strings.TrimSpace(w.ColorName),
		ColorHex:          strings.TrimSpace(w.ColorHex),
		Materials:         coerceMaterials(w.Materials),
		Designer:          strings.TrimSpace(w.Designer),
		Season:            strings.TrimSpace(w.Season),
		Collection:        strings.TrimSpace(w.Collection),
		OriginalImageName: strings.TrimSpace(w.OriginalImageName),
	}

	if r.ID == "" {
		r.ID = w.RecordID
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	// Older deployments call the designer field "brand".
	if r.Designer == "" {
		r.Designer = strings.TrimSpace(w.Brand)
	}

	if w.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, w.Timestamp); err == nil {
			r.CapturedAt = ts
		}
	}

	if r.ItemName == "" && r.ColorName == "" {
		return domain.GarmentRecord{}, false
	}
	return r, true
}

func coerceMaterials(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(m)
	case []any:
		parts := make([]string, 0, len(m))
		for _, item := range m {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
