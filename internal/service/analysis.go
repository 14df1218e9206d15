// Package service contains the business logic orchestrating the analysis pipeline.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/runwaylens/runwaylens-server/internal/aggregate"
	"github.com/runwaylens/runwaylens-server/internal/chart"
	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/filter"
	"github.com/runwaylens/runwaylens-server/internal/folder"
	"github.com/runwaylens/runwaylens-server/internal/normalize"

	domainerrors "github.com/runwaylens/runwaylens-server/internal/errors"
)

// DefaultChartSize is the rendered chart edge in pixels when the caller
// does not ask for a specific size.
const DefaultChartSize = 300

// Source fetches the two upstream inputs of the pipeline.
type Source interface {
	FetchRecords(ctx context.Context) ([]domain.GarmentRecord, error)
	FetchFolderMap(ctx context.Context) (folder.Mapping, error)
}

// RecordView is a garment record joined with its resolved image URL.
type RecordView struct {
	domain.GarmentRecord
	ImageURL string `json:"image_url,omitempty"`
}

// AnalysisService owns the fetched snapshot (records + folder mapping) and
// derives every rendered view from it. Derived state is recomputed from
// scratch on each call; only the fetch completion handler writes the
// snapshot, so readers never observe a partial update.
type AnalysisService struct {
	source Source
	assets config.AssetsConfig
	logger *slog.Logger

	mu      sync.RWMutex
	state   domain.SnapshotState
	lastErr error
	records []domain.GarmentRecord
	mapping folder.Mapping
	// refreshSeq tags each Refresh; a completion whose tag is no longer
	// current is stale and must not overwrite fresher state.
	refreshSeq uint64
}

// NewAnalysisService creates the pipeline service. The snapshot starts in
// the Loading state until the first Refresh completes.
func NewAnalysisService(source Source, assets config.AssetsConfig, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		source:  source,
		assets:  assets,
		logger:  logger,
		state:   domain.StateLoading,
		mapping: folder.Mapping{},
	}
}

// Refresh fetches records and folder mapping concurrently and installs the
// results. The two fetches are independent and may race: a folder map
// failure is tolerated (resolution falls back to the synthesized rule), a
// record failure moves the snapshot to the Error state. If a newer Refresh
// was issued while this one was in flight, its results are discarded.
func (s *AnalysisService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshSeq++
	gen := s.refreshSeq
	if s.state != domain.StateSuccess {
		s.state = domain.StateLoading
	}
	s.mu.Unlock()

	var (
		wg      sync.WaitGroup
		records []domain.GarmentRecord
		recErr  error
		mapping folder.Mapping
		mapErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		records, recErr = s.source.FetchRecords(ctx)
	}()
	go func() {
		defer wg.Done()
		mapping, mapErr = s.source.FetchFolderMap(ctx)
	}()
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.refreshSeq {
		s.logger.Debug("discarding stale refresh result", "generation", gen, "current", s.refreshSeq)
		return nil
	}

	if mapErr != nil {
		// Not fatal: folder resolution keeps working on the fallback rule
		// and any previously fetched mapping.
		s.logger.Warn("folder map fetch failed, keeping previous mapping", "error", mapErr)
	} else {
		s.mapping = mapping
	}

	if recErr != nil {
		s.state = domain.StateError
		s.lastErr = recErr
		s.logger.Error("record fetch failed", "error", recErr)
		return domainerrors.Upstream("record fetch failed").Wrap(recErr)
	}

	s.records = records
	s.state = domain.StateSuccess
	s.lastErr = nil
	s.logger.Info("snapshot refreshed", "records", len(records), "mapped_brands", len(s.mapping))
	return nil
}

// State reports the snapshot lifecycle state and the size of the current
// record set.
func (s *AnalysisService) State() (domain.SnapshotState, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, len(s.records), s.lastErr
}

// snapshot returns the current records and mapping, or an error when the
// snapshot is not servable. The returned slices are shared read-only data;
// callers derive, they never mutate.
func (s *AnalysisService) snapshot() ([]domain.GarmentRecord, folder.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case domain.StateLoading:
		return nil, nil, domainerrors.Unavailable("record snapshot is still loading")
	case domain.StateError:
		return nil, nil, domainerrors.Upstream("record snapshot unavailable").Wrap(s.lastErr)
	}
	return s.records, s.mapping, nil
}

// Records returns the filtered record set with resolved image URLs.
func (s *AnalysisService) Records(preds filter.Predicates) ([]RecordView, error) {
	records, mapping, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(records, preds)
	views := make([]RecordView, 0, len(matched))
	for _, r := range matched {
		v := RecordView{GarmentRecord: r}
		if r.OriginalImageName != "" {
			fold := folder.Resolve(r.Designer, r.Season, mapping)
			v.ImageURL = folder.ImageURL(s.assets.Bucket, s.assets.Region, fold, r.OriginalImageName)
		}
		views = append(views, v)
	}
	return views, nil
}

// AvailableFilters returns the still-available values for every filterable
// field, computed over the currently filtered subset (cascading behavior).
func (s *AnalysisService) AvailableFilters(preds filter.Predicates) (map[domain.Field][]string, error) {
	records, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(records, preds)
	out := make(map[domain.Field][]string, len(domain.FilterFields))
	for _, f := range domain.FilterFields {
		out[f] = filter.AvailableValues(matched, f)
	}
	return out, nil
}

// Distribution aggregates the filtered record set over field and returns
// the ranked buckets with their legend rows.
func (s *AnalysisService) Distribution(field domain.Field, preds filter.Predicates) ([]domain.DistributionBucket, []chart.LegendRow, error) {
	if !field.Groupable() {
		return nil, nil, domainerrors.Validation("field must be one of: color, item, material")
	}

	records, _, err := s.snapshot()
	if err != nil {
		return nil, nil, err
	}

	buckets := aggregate.Aggregate(filter.Apply(records, preds), field)
	return buckets, chart.Legend(buckets), nil
}

// ChartSVG renders the radial distribution chart for field as an SVG
// document. An empty filtered set renders the "No data" state, not an error.
func (s *AnalysisService) ChartSVG(field domain.Field, preds filter.Predicates, size float64) ([]byte, error) {
	if size <= 0 {
		size = DefaultChartSize
	}

	buckets, _, err := s.Distribution(field, preds)
	if err != nil {
		return nil, err
	}
	return chart.RenderSVG(chart.Layout(buckets, size), size), nil
}

// Datasets groups the record set by normalized (designer, season) pair, in
// first-encountered order.
func (s *AnalysisService) Datasets() ([]domain.Dataset, error) {
	records, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	datasets := make([]domain.Dataset, 0)
	for _, r := range records {
		key := normalize.Key(r.Designer) + "\x00" + normalize.Key(r.Season)
		if i, ok := index[key]; ok {
			datasets[i].RecordCount++
			continue
		}
		designer := normalize.Display(r.Designer)
		season := normalize.SeasonDisplay(r.Season)
		index[key] = len(datasets)
		datasets = append(datasets, domain.Dataset{
			ID:          normalize.Slug(r.Designer) + "-" + normalize.Slug(r.Season),
			Name:        designer + " — " + season,
			Designer:    designer,
			Season:      season,
			RecordCount: 1,
		})
	}
	return datasets, nil
}

// ImageCards groups the filtered records by source image and unions their
// clothing, color and material tags per card. Each card resolves to one
// externally stored photo URL.
func (s *AnalysisService) ImageCards(preds filter.Predicates) ([]domain.ImageCard, error) {
	records, mapping, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(records, preds)
	index := make(map[string]int)
	cards := make([]domain.ImageCard, 0)

	for _, r := range matched {
		if r.OriginalImageName == "" {
			continue
		}
		i, ok := index[r.OriginalImageName]
		if !ok {
			fold := folder.Resolve(r.Designer, r.Season, mapping)
			i = len(cards)
			index[r.OriginalImageName] = i
			cards = append(cards, domain.ImageCard{
				ImageName: r.OriginalImageName,
				URL:       folder.ImageURL(s.assets.Bucket, s.assets.Region, fold, r.OriginalImageName),
				Designer:  normalize.Display(r.Designer),
				Season:    normalize.SeasonDisplay(r.Season),
			})
		}
		cards[i].Items = appendTag(cards[i].Items, r.ItemName)
		cards[i].Colors = appendTag(cards[i].Colors, r.ColorName)
		cards[i].Materials = appendTag(cards[i].Materials, r.Materials)
	}
	return cards, nil
}

// appendTag adds the display form of raw to tags unless an equivalent
// value (by normalized key) is already present.
func appendTag(tags []string, raw string) []string {
	key := normalize.Key(raw)
	if key == "" {
		return tags
	}
	for _, t := range tags {
		if normalize.Key(t) == key {
			return tags
		}
	}
	return append(tags, normalize.Display(raw))
}
