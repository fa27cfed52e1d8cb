package trend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"forwarddesk/internal/cache"
	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/config"
	"forwarddesk/internal/features/dataset"
	"forwarddesk/internal/features/organization"
	"forwarddesk/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultTimeRange     = "30d"
	defaultBreakdownSize = 5
	forecastWindowDays   = 7
	forecastHorizonDays  = 7
)

var windowDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

type TrendService interface {
	Analyze(ctx context.Context, organizationID primitive.ObjectID, q *Query) (*TrendReport, error)
}

type TrendServiceImpl struct {
	Datasets dataset.Repository
	Orgs     organization.OrganizationRepository
	Cache    *cache.TTLCache
	Config   *config.Config
	Logger   *zap.Logger
	Notifier report.Notifier
}

func NewTrendService(datasets dataset.Repository, orgs organization.OrganizationRepository, ttlCache *cache.TTLCache, cfg *config.Config, logger *zap.Logger, notifier report.Notifier) TrendService {
	return &TrendServiceImpl{
		Datasets: datasets,
		Orgs:     orgs,
		Cache:    ttlCache,
		Config:   cfg,
		Logger:   logger,
		Notifier: notifier,
	}
}

// Normalize applies the type-specific defaults and rejects values the
// analytics pipeline cannot serve.
func (q *Query) Normalize() error {
	if q.TrendType == "" {
		q.TrendType = TrendTypeConversations
	}
	if !q.TrendType.Valid() {
		return fmt.Errorf("%w: unknown trend type %q", report.ErrConfiguration, q.TrendType)
	}

	if q.TimeRange == "" {
		q.TimeRange = defaultTimeRange
	}
	if _, ok := windowDays[q.TimeRange]; !ok {
		return fmt.Errorf("%w: unknown time range %q", report.ErrConfiguration, q.TimeRange)
	}

	if q.Limit <= 0 {
		q.Limit = defaultBreakdownSize
	}

	source := trendSources[q.TrendType]
	if q.Category == "" {
		q.Category = source.defaultCategory
	}
	if q.DataType == "" || q.DataType == "count" {
		q.DataType = source.valueField
		if q.DataType == "" {
			q.DataType = "count"
		}
	}
	return nil
}

func (s *TrendServiceImpl) Analyze(ctx context.Context, organizationID primitive.ObjectID, q *Query) (*TrendReport, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	if _, err := s.Orgs.FindByID(ctx, organizationID.Hex()); err != nil {
		return nil, fmt.Errorf("unknown organization %s: %w", organizationID.Hex(), err)
	}

	key := cache.Key("trend", organizationID.Hex(), string(q.TrendType),
		q.TimeRange, q.Category, q.DataType, strconv.Itoa(q.Limit))

	start := time.Now()
	result, err := s.Cache.GetOrCompute(key, s.Config.TrendCacheTTL, func() (interface{}, error) {
		data, err := s.analyze(ctx, organizationID, q)
		if err != nil {
			return nil, err
		}
		s.Logger.Info("trend computed",
			zap.String("trend_type", string(q.TrendType)),
			zap.String("time_range", q.TimeRange),
			zap.Duration("took", time.Since(start)))
		if s.Notifier != nil {
			s.Notifier.Broadcast("trend_refresh", map[string]interface{}{
				"trendType": q.TrendType,
				"timeRange": q.TimeRange,
			})
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*TrendReport), nil
}

// analyze fetches both the queried window and the one before it in a
// single range query, then splits the rows for the delta.
func (s *TrendServiceImpl) analyze(ctx context.Context, organizationID primitive.ObjectID, q *Query) (*TrendReport, error) {
	source := trendSources[q.TrendType]
	days := windowDays[q.TimeRange]

	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	windowStart := end.AddDate(0, 0, -days)
	previousStart := windowStart.AddDate(0, 0, -days)

	rows, err := s.Datasets.Query(ctx, source.reportType, organizationID, nil,
		common_models.TimeRange{Start: &previousStart, End: &end})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrFetch, err)
	}

	valueField := q.DataType
	if valueField == "count" {
		valueField = ""
	}

	var current, previous []dataset.Row
	for _, row := range rows {
		ts, ok := row.Field("created_at").(time.Time)
		if !ok {
			continue
		}
		if ts.Before(windowStart) {
			previous = append(previous, row)
		} else {
			current = append(current, row)
		}
	}

	series := BuildDailySeries(current, windowStart, end, valueField)
	previousSeries := BuildDailySeries(previous, previousStart, windowStart, valueField)

	summary := SeriesSummary(series)

	return &TrendReport{
		TrendType:   q.TrendType,
		TimeRange:   q.TimeRange,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Series:      series,
		Delta:       PeriodDelta(summary.Total, SeriesSummary(previousSeries).Total),
		Forecast:    Forecast(series, forecastWindowDays, forecastHorizonDays),
		Anomalies:   DetectAnomalies(series),
		Breakdown:   Breakdown(current, q.Category, valueField, q.Limit),
	}, nil
}
