// Package recommendation picks the outfit of the day and keeps track of what
// was recommended and worn.
package recommendation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wardrobe/backend/internal/domain/recommendation"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
)

const (
	DefaultRecentDays   = 7
	DefaultRecentLimit  = 100
	DefaultHistoryDays  = 30
	DefaultHistoryLimit = 30
	// HistoryItemName is shown when the first item of a record no longer exists
	HistoryItemName = "Recommandation"
	// MaxWornAtSkew is how far ahead of the server clock a client worn_at may be
	MaxWornAtSkew = 5 * time.Minute
)

// Config tunes the recommendation service
type Config struct {
	RecentWindow    time.Duration
	MaxResults      int
	StylistTimeout  time.Duration
	CheckWindowDays int
	DefaultCity     string
	DefaultCountry  string
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() Config {
	return Config{
		RecentWindow:    24 * time.Hour,
		MaxResults:      1,
		StylistTimeout:  30 * time.Second,
		CheckWindowDays: 3,
		DefaultCity:     "Paris",
		DefaultCountry:  "FR",
	}
}

// Service handles outfit recommendations
type Service struct {
	records recommendation.Repository
	items   wardrobe.ClothingItemReader
	stylist recommendation.Stylist
	weather recommendation.WeatherProvider
	wear    recommendation.WearHistoryStore
	events  shared.EventPublisher
	metrics *telemetry.WardrobeMetrics
	logger  *zap.Logger
	cfg     Config
	now     func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithConfig overrides the default settings. Zero fields keep their default.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.RecentWindow > 0 {
			s.cfg.RecentWindow = cfg.RecentWindow
		}
		if cfg.MaxResults > 0 {
			s.cfg.MaxResults = cfg.MaxResults
		}
		if cfg.StylistTimeout > 0 {
			s.cfg.StylistTimeout = cfg.StylistTimeout
		}
		if cfg.CheckWindowDays > 0 {
			s.cfg.CheckWindowDays = cfg.CheckWindowDays
		}
		if cfg.DefaultCity != "" {
			s.cfg.DefaultCity = cfg.DefaultCity
		}
		if cfg.DefaultCountry != "" {
			s.cfg.DefaultCountry = cfg.DefaultCountry
		}
	}
}

// WithEventPublisher publishes recommendation events through publisher
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithMetrics records recommendation metrics
func WithMetrics(m *telemetry.WardrobeMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new recommendation Service. stylist and weather may be
// nil; recommendations then use the fallback outfit and weather.
func NewService(
	records recommendation.Repository,
	items wardrobe.ClothingItemReader,
	stylist recommendation.Stylist,
	weather recommendation.WeatherProvider,
	wear recommendation.WearHistoryStore,
	opts ...Option,
) *Service {
	s := &Service{
		records: records,
		items:   items,
		stylist: stylist,
		weather: weather,
		wear:    wear,
		logger:  zap.NewNop(),
		cfg:     DefaultConfig(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// dailyInputs is what the parallel loading step gathers
type dailyInputs struct {
	weather  recommendation.Weather
	wardrobe []recommendation.Piece
	worn     []string
	tracked  []recommendation.Record
}

// DailyRecommendations picks today's outfit for the weather of the city.
// Weather, stored wardrobe, wear history and recent tracking are loaded in
// parallel. The stylist proposes outfits which are then ordered fresh first,
// mapped back to the wardrobe, checked against the temperature and limited.
// Every returned outfit is tracked for known users.
func (s *Service) DailyRecommendations(ctx context.Context, req DailyRequest) (*DailyResponse, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		city = s.cfg.DefaultCity
	}
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if country == "" {
		country = s.cfg.DefaultCountry
	}
	var userID uuid.UUID
	if req.UserID != nil {
		userID = *req.UserID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "recommendation", "daily",
		attribute.String(telemetry.SpanAttrUserID, userID.String()),
		attribute.String(telemetry.SpanAttrCity, city),
	)
	defer span.End()

	now := s.now()
	season := recommendation.ResolveSeason(req.CurrentSeason, now)
	log := logger.WithLogger(ctx, s.logger)

	in, err := s.loadDailyInputs(ctx, userID, city, country, req.Pieces(), now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &DailyResponse{
		Weather:         in.weather,
		Season:          string(season),
		Recommendations: []RecommendationResponse{},
	}
	span.SetAttributes(attribute.Int(telemetry.SpanAttrItemCount, len(in.wardrobe)))
	if len(in.wardrobe) == 0 {
		log.Info("Empty wardrobe, no recommendation")
		return resp, nil
	}

	ex := req.Exclusions().
		Merge(recommendation.Exclusions{RecentlyWornIDs: in.worn}).
		Merge(recommendation.ExclusionsFromRecords(in.tracked))

	recs, fallback := s.recommend(ctx, recommendation.StylistRequest{
		City:       city,
		Weather:    in.weather,
		Season:     season,
		UserNeeds:  strings.TrimSpace(req.UserNeeds),
		Exclusions: ex,
		Wardrobe:   in.wardrobe,
	}, in.wardrobe)
	span.SetAttributes(attribute.Bool(telemetry.SpanAttrFallback, fallback))

	source := telemetry.SourceStylist
	if fallback {
		source = telemetry.SourceFallback
	}
	for _, rec := range recs {
		s.metrics.RecordRecommendation(ctx, string(rec.Type), source)
		if rec.WasRecentlyRecommended {
			s.metrics.RecordStaleRecommendation(ctx, "recently_recommended")
		}
		if rec.WasRecentlyWorn {
			s.metrics.RecordStaleRecommendation(ctx, "recently_worn")
		}
		resp.Recommendations = append(resp.Recommendations, ToRecommendationResponse(rec))
	}
	resp.Fallback = fallback

	if userID != uuid.Nil {
		s.trackAll(ctx, userID, recs, in.weather)
		s.publish(ctx, recommendation.NewRecommendationsServedEvent(userID, len(recs), fallback))
	}

	log.Info("Daily recommendations served",
		zap.String("city", city),
		zap.String("season", string(season)),
		zap.Int("wardrobe_size", len(in.wardrobe)),
		zap.Int("count", len(recs)),
		zap.Bool("fallback", fallback),
	)
	return resp, nil
}

func (s *Service) loadDailyInputs(ctx context.Context, userID uuid.UUID, city, country string, pieces []recommendation.Piece, now time.Time) (*dailyInputs, error) {
	in := &dailyInputs{wardrobe: pieces}
	log := logger.WithLogger(ctx, s.logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		in.weather = s.currentWeather(gctx, city, country)
		return nil
	})

	if userID != uuid.Nil {
		if len(pieces) == 0 {
			g.Go(func() error {
				items, err := s.items.FindActiveByUser(gctx, userID, wardrobe.ItemFilter{})
				if err != nil {
					return fmt.Errorf("load wardrobe: %w", err)
				}
				loaded := make([]recommendation.Piece, len(items))
				for i := range items {
					loaded[i] = recommendation.PieceFromItem(&items[i])
				}
				in.wardrobe = loaded
				return nil
			})
		}

		if s.wear != nil {
			g.Go(func() error {
				entries, err := s.wear.List(gctx, userID.String(), now.Add(-recommendation.WearHistoryRetention))
				if err != nil {
					log.Warn("Wear history unavailable", zap.Error(err))
					return nil
				}
				in.worn = recommendation.NewWearHistory(entries, now).RecentlyWornIDs(now)
				return nil
			})
		}

		g.Go(func() error {
			records, err := s.records.FindSince(gctx, userID, now.Add(-s.cfg.RecentWindow), 0)
			if err != nil {
				log.Warn("Recent recommendations unavailable", zap.Error(err))
				return nil
			}
			in.tracked = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// currentWeather never fails; the fallback snapshot replaces a missing forecast
func (s *Service) currentWeather(ctx context.Context, city, country string) recommendation.Weather {
	if s.weather != nil {
		w, err := s.weather.Current(ctx, city, country)
		if err == nil && w != nil {
			s.metrics.RecordWeatherLookup(ctx, telemetry.WeatherResultLive)
			out := *w
			if out.City == "" {
				out.City = city
			}
			return out
		}
		logger.WithLogger(ctx, s.logger).Warn("Weather unavailable, using fallback",
			zap.String("city", city),
			zap.Error(err),
		)
	}
	s.metrics.RecordWeatherLookup(ctx, telemetry.WeatherResultFallback)
	w := recommendation.FallbackWeather()
	w.City = city
	return w
}

// recommend asks the stylist and resolves its answer. The second result
// reports whether the fallback outfit was used.
func (s *Service) recommend(ctx context.Context, req recommendation.StylistRequest, pieces []recommendation.Piece) ([]recommendation.Recommendation, bool) {
	log := logger.WithLogger(ctx, s.logger)
	if s.stylist == nil {
		log.Warn("No stylist configured, using fallback")
		return recommendation.Fallback(pieces), true
	}

	sctx, cancel := context.WithTimeout(ctx, s.cfg.StylistTimeout)
	defer cancel()

	suggestions, err := s.stylist.Recommend(sctx, req)
	if err != nil {
		log.Warn("Stylist failed, using fallback", zap.Error(err))
		return recommendation.Fallback(pieces), true
	}

	candidates := recommendation.Prioritize(suggestions, req.Exclusions)
	resolved := recommendation.Resolve(candidates, pieces, req.Weather.Temp, func(id string, reason recommendation.DropReason) {
		log.Warn("Recommendation dropped",
			zap.String("recommendation_id", id),
			zap.String("reason", string(reason)),
		)
	})
	return recommendation.Limit(resolved, s.cfg.MaxResults), false
}

func (s *Service) trackAll(ctx context.Context, userID uuid.UUID, recs []recommendation.Recommendation, weather recommendation.Weather) {
	log := logger.WithLogger(ctx, s.logger)
	for _, rec := range recs {
		w := weather
		record, err := recommendation.RecordFor(userID, rec, &w)
		if err == nil {
			record.RecommendedAt = s.now()
			err = s.records.Save(ctx, record)
		}
		if err != nil {
			log.Warn("Failed to track recommendation",
				zap.String("recommendation_id", rec.ID),
				zap.Error(err),
			)
		}
	}
}

// MatchOutfit asks the stylist which wardrobe items go with item
func (s *Service) MatchOutfit(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if s.stylist == nil {
		return nil, shared.ErrUpstreamUnavailable
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "recommendation", "match_outfit")
	defer span.End()

	pieces := req.Wardrobe
	if pieces == nil {
		pieces = []map[string]any{}
	}
	text, err := s.stylist.MatchOutfit(ctx, req.Item, pieces)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, upstreamError(err)
	}
	return &MatchResponse{Matches: text}, nil
}

// GenerateSuggestions asks the stylist for outfits matching free-form preferences
func (s *Service) GenerateSuggestions(ctx context.Context, preferences map[string]any) (*SuggestionsResponse, error) {
	if s.stylist == nil {
		return nil, shared.ErrUpstreamUnavailable
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "recommendation", "generate_suggestions")
	defer span.End()

	if preferences == nil {
		preferences = map[string]any{}
	}
	text, err := s.stylist.Suggest(ctx, preferences)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, upstreamError(err)
	}
	return &SuggestionsResponse{Suggestions: text}, nil
}

// Track stores a recommendation shown to a user
func (s *Service) Track(ctx context.Context, req TrackRequest) (*RecordResponse, error) {
	id := recommendation.CanonicalID(req.RecommendationID)
	record, err := recommendation.NewRecord(req.UserID, id, recommendation.Type(req.Type), req.ItemIDs, req.Weather, req.Score, req.Reason)
	if err != nil {
		return nil, err
	}
	record.RecommendedAt = s.now()
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}

// Recent lists the recommendations of the last days, newest first
func (s *Service) Recent(ctx context.Context, userID uuid.UUID, filter WindowFilter) ([]RecordResponse, error) {
	days, limit := orDefault(filter.Days, DefaultRecentDays), orDefault(filter.Limit, DefaultRecentLimit)
	records, err := s.records.FindSince(ctx, userID, s.now().AddDate(0, 0, -days), limit)
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

// History lists recent recommendations with the name, category and image of
// their first item
func (s *Service) History(ctx context.Context, userID uuid.UUID, filter WindowFilter) ([]HistoryEntry, error) {
	days, limit := orDefault(filter.Days, DefaultHistoryDays), orDefault(filter.Limit, DefaultHistoryLimit)
	records, err := s.records.FindSince(ctx, userID, s.now().AddDate(0, 0, -days), limit)
	if err != nil {
		return nil, err
	}

	firstIDs := make([]string, 0, len(records))
	for _, r := range records {
		if len(r.ItemIDs) > 0 {
			firstIDs = append(firstIDs, r.ItemIDs[0])
		}
	}
	byID := make(map[string]*wardrobe.ClothingItem)
	if ids := recommendation.ParseItemUUIDs(firstIDs); len(ids) > 0 {
		items, err := s.items.FindByIDs(ctx, ids)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Cannot enrich recommendation history", zap.Error(err))
		}
		for i := range items {
			byID[items[i].ID.String()] = &items[i]
		}
	}

	out := make([]HistoryEntry, len(records))
	for i := range records {
		r := &records[i]
		entry := HistoryEntry{
			RecordResponse: ToRecordResponse(r),
			ItemName:       HistoryItemName,
			Category:       string(r.Type),
		}
		if len(r.ItemIDs) > 0 {
			if item, ok := byID[strings.ToLower(r.ItemIDs[0])]; ok {
				entry.ItemName = item.Name
				entry.Category = string(item.Category())
				entry.ImageURL = item.ImageURL
			}
		}
		out[i] = entry
	}
	return out, nil
}

// CheckRecentlyRecommended returns the subset of item ids recommended within
// the last days
func (s *Service) CheckRecentlyRecommended(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	days := orDefault(req.Days, s.cfg.CheckWindowDays)
	records, err := s.records.FindSince(ctx, req.UserID, s.now().AddDate(0, 0, -days), 0)
	if err != nil {
		return nil, err
	}
	return &CheckResponse{RecentlyRecommended: recommendation.RecentlyRecommended(records, req.ItemIDs)}, nil
}

// Stats summarizes every recommendation made to a user
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	records, err := s.records.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToStatsResponse(recommendation.ComputeStats(records))
	return &resp, nil
}

// FindByRecommendationID returns the latest record of a user for a recommendation id
func (s *Service) FindByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*RecordResponse, error) {
	record, err := s.records.FindLatestByRecommendationID(ctx, userID, recommendation.CanonicalID(recommendationID))
	if err != nil {
		return nil, err
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}

// MarkRecordWorn flags a tracked recommendation as worn. When requester is
// set the record must belong to it.
func (s *Service) MarkRecordWorn(ctx context.Context, requester, recordID uuid.UUID) (*RecordResponse, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if requester != uuid.Nil && record.UserID != requester {
		return nil, shared.ErrNotFound
	}
	record.MarkWorn(s.now())
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}

// MarkWorn logs that the user wore an item or a combination. A combination
// is logged together with each of its items. The outfit.worn event then
// updates wear counters and tracking.
func (s *Service) MarkWorn(ctx context.Context, req MarkWornRequest) (*WearHistoryResponse, error) {
	id := recommendation.CanonicalID(req.ID)
	if id == "" || req.UserID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if s.wear == nil {
		return nil, shared.ErrUpstreamUnavailable
	}
	now := s.now()
	at := now
	if req.WornAt != nil && !req.WornAt.IsZero() {
		if req.WornAt.After(now.Add(MaxWornAtSkew)) {
			return nil, shared.ErrInvalidInput.WithMessage("worn_at cannot be in the future")
		}
		at = *req.WornAt
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "recommendation", "mark_worn",
		attribute.String(telemetry.SpanAttrUserID, req.UserID.String()),
		attribute.String(telemetry.SpanAttrRecommendationID, id),
	)
	defer span.End()

	if err := s.wear.Append(ctx, req.UserID.String(), recommendation.WornEntries(id, at)...); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}

	s.metrics.RecordWear(ctx, string(recommendation.InferType(id, nil)))
	s.publish(ctx, recommendation.NewOutfitWornEvent(req.UserID, id, at))

	logger.WithLogger(ctx, s.logger).Info("Outfit marked as worn",
		zap.String("recommendation_id", id),
		zap.Time("worn_at", at),
	)
	return s.WearHistory(ctx, req.UserID)
}

// WearHistory returns the wear log of the retention period and the ids worn
// recently
func (s *Service) WearHistory(ctx context.Context, userID uuid.UUID) (*WearHistoryResponse, error) {
	if s.wear == nil {
		return &WearHistoryResponse{Entries: []recommendation.WearEntry{}, RecentlyWornIDs: []string{}}, nil
	}
	now := s.now()
	entries, err := s.wear.List(ctx, userID.String(), now.Add(-recommendation.WearHistoryRetention))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	h := recommendation.NewWearHistory(entries, now)
	resp := &WearHistoryResponse{Entries: h.Entries, RecentlyWornIDs: h.RecentlyWornIDs(now)}
	if resp.Entries == nil {
		resp.Entries = []recommendation.WearEntry{}
	}
	return resp, nil
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish recommendation events", zap.Error(err))
	}
}

// upstreamError keeps domain errors and reports anything else as an
// unavailable upstream
func upstreamError(err error) error {
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
}

func orDefault(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}
