package report

import (
	"context"
	"encoding/json"
	"time"

	"forwarddesk/internal/cache"
	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/config"
	"forwarddesk/internal/features/dataset"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier pushes refresh events to connected dashboards. Satisfied by
// the live feature's hub; wired in main to avoid a package cycle.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

type ReportService interface {
	RunAdhoc(ctx context.Context, organizationID primitive.ObjectID, req *RunRequest) (*ReportData, error)
	RunSaved(ctx context.Context, organizationID primitive.ObjectID, id string) (*ReportData, error)
	ExportAdhoc(ctx context.Context, organizationID primitive.ObjectID, req *RunRequest, format string) ([]byte, string, string, error)
	ExportSaved(ctx context.Context, organizationID primitive.ObjectID, id, format string) ([]byte, string, string, error)

	CreateSavedReport(ctx context.Context, report *SavedReport) error
	GetSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string) (*SavedReport, error)
	ListSavedReports(ctx context.Context, organizationID primitive.ObjectID) ([]SavedReport, error)
	UpdateSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string, report *SavedReport) error
	DeleteSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string) error
	SetFavorite(ctx context.Context, organizationID primitive.ObjectID, id string, favorite bool) error
}

type ReportServiceImpl struct {
	SavedRepo SavedReportRepository
	Datasets  dataset.Repository
	Cache     *cache.TTLCache
	Config    *config.Config
	Logger    *zap.Logger
	Notifier  Notifier
}

func NewReportService(savedRepo SavedReportRepository, datasets dataset.Repository, ttlCache *cache.TTLCache, cfg *config.Config, logger *zap.Logger, notifier Notifier) ReportService {
	return &ReportServiceImpl{
		SavedRepo: savedRepo,
		Datasets:  datasets,
		Cache:     ttlCache,
		Config:    cfg,
		Logger:    logger,
		Notifier:  notifier,
	}
}

func (s *ReportServiceImpl) RunAdhoc(ctx context.Context, organizationID primitive.ObjectID, req *RunRequest) (*ReportData, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	return s.runCached(ctx, organizationID, "adhoc", req.Type, &req.Config)
}

func (s *ReportServiceImpl) RunSaved(ctx context.Context, organizationID primitive.ObjectID, id string) (*ReportData, error) {
	saved, err := s.SavedRepo.Get(ctx, organizationID, id)
	if err != nil {
		return nil, fetchError(err)
	}

	if err := s.SavedRepo.TouchLastViewed(ctx, organizationID, id); err != nil {
		s.Logger.Warn("failed to touch last_viewed_at", zap.String("report_id", id), zap.Error(err))
	}

	if err := saved.Config.Validate(); err != nil {
		return nil, err
	}
	return s.runCached(ctx, organizationID, saved.ID.Hex(), saved.Type, &saved.Config)
}

// runCached memoizes report runs by request signature. Writes to the
// underlying data do not purge entries; staleness is bounded by the TTL
// tier only.
func (s *ReportServiceImpl) runCached(ctx context.Context, organizationID primitive.ObjectID, reportID string, reportType dataset.ReportType, cfg *ReportConfig) (*ReportData, error) {
	serialized, err := json.Marshal(cfg)
	if err != nil {
		return nil, configErrorf("config not serializable: %v", err)
	}
	key := cache.Key(organizationID.Hex(), reportID, string(reportType), string(serialized))

	ttl := s.Config.ReportCacheTTL
	if reportType == dataset.ReportTypeUsage {
		ttl = s.Config.UsageCacheTTL
	}

	start := time.Now()
	result, err := s.Cache.GetOrCompute(key, ttl, func() (interface{}, error) {
		data, err := s.fetch(ctx, organizationID, reportType, cfg)
		if err != nil {
			return nil, err
		}
		s.Logger.Info("report computed",
			zap.String("report_id", reportID),
			zap.String("type", string(reportType)),
			zap.Int("rows", len(data.Rows)),
			zap.Duration("took", time.Since(start)))
		if s.Notifier != nil {
			s.Notifier.Broadcast("report_run", map[string]interface{}{
				"reportId": reportID,
				"type":     reportType,
			})
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ReportData), nil
}

// fetch is one run end to end: query storage with predicates, apply
// computed fields, group, summarize, attach column metadata.
func (s *ReportServiceImpl) fetch(ctx context.Context, organizationID primitive.ObjectID, reportType dataset.ReportType, cfg *ReportConfig) (*ReportData, error) {
	var timeRange common_models.TimeRange
	if cfg.TimeRange != nil {
		timeRange = *cfg.TimeRange
	}

	rows, err := s.Datasets.Query(ctx, reportType, organizationID, storageFilters(cfg), timeRange)
	if err != nil {
		return nil, fetchError(err)
	}

	sourceColumns := dataset.Columns(reportType)
	rows, err = ApplyComputedFields(rows, cfg.ComputedFields, sourceColumns)
	if err != nil {
		return nil, err
	}

	// Filters on computed fields cannot run storage-side; apply them
	// in memory after derivation.
	if computed := computedFilters(cfg); len(computed) > 0 {
		var kept []dataset.Row
		for _, row := range rows {
			if MatchAll(row, computed) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	data := &ReportData{}

	if cfg.GroupBy != "" {
		data.Rows = Aggregate(rows, cfg.GroupBy, cfg.Metrics, cfg.ExcludeMissing)
		data.Columns = groupedColumns(reportType, cfg)
	} else {
		data.Rows = projectRows(rows, cfg, sourceColumns)
		data.Columns = flatColumns(reportType, cfg, sourceColumns)
	}

	// Summary always runs over the raw filtered set, not the groups.
	data.Summary = Summarize(rows, cfg.Metrics, cfg.ExcludeMissing)

	return data, nil
}

// storageFilters returns the filters the row source can evaluate;
// filters naming computed fields stay behind for the in-memory pass.
func storageFilters(cfg *ReportConfig) []common_models.Filter {
	computed := make(map[string]bool, len(cfg.ComputedFields))
	for _, cf := range cfg.ComputedFields {
		computed[cf.Name] = true
	}

	var filters []common_models.Filter
	for _, f := range cfg.Filters {
		if !computed[f.Field] {
			filters = append(filters, f)
		}
	}
	return filters
}

func computedFilters(cfg *ReportConfig) map[string]common_models.Filter {
	computed := make(map[string]bool, len(cfg.ComputedFields))
	for _, cf := range cfg.ComputedFields {
		computed[cf.Name] = true
	}

	out := make(map[string]common_models.Filter)
	for name, f := range cfg.Filters {
		if computed[f.Field] {
			out[name] = f
		}
	}
	return out
}

func projectRows(rows []dataset.Row, cfg *ReportConfig, columns []dataset.Column) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]interface{}, len(columns)+len(cfg.ComputedFields))
		for _, col := range columns {
			rec[col.Field] = row.Field(col.Field)
		}
		for _, cf := range cfg.ComputedFields {
			rec[cf.Name] = row.Field(cf.Name)
		}
		out = append(out, rec)
	}
	return out
}

// groupedColumns synthesizes metadata for the shaped rows of a grouped
// run: the group key column plus one numeric column per metric.
func groupedColumns(reportType dataset.ReportType, cfg *ReportConfig) []dataset.Column {
	columns := make([]dataset.Column, 0, len(cfg.Metrics)+1)

	groupCol := dataset.Column{Field: cfg.GroupBy, Header: cfg.GroupBy, Type: dataset.ColumnTypeText}
	if col, ok := dataset.ColumnFor(reportType, cfg.GroupBy); ok {
		groupCol = col
	}
	columns = append(columns, groupCol)

	for _, m := range cfg.Metrics {
		columns = append(columns, dataset.Column{
			Field:  m.Name,
			Header: m.Name,
			Type:   dataset.ColumnTypeNumber,
		})
	}
	return columns
}

func flatColumns(reportType dataset.ReportType, cfg *ReportConfig, sourceColumns []dataset.Column) []dataset.Column {
	columns := make([]dataset.Column, 0, len(sourceColumns)+len(cfg.ComputedFields))
	columns = append(columns, sourceColumns...)
	for _, cf := range cfg.ComputedFields {
		columns = append(columns, dataset.Column{Field: cf.Name, Header: cf.Name, Type: dataset.ColumnTypeText})
	}
	return columns
}

func (s *ReportServiceImpl) ExportAdhoc(ctx context.Context, organizationID primitive.ObjectID, req *RunRequest, format string) ([]byte, string, string, error) {
	data, err := s.RunAdhoc(ctx, organizationID, req)
	if err != nil {
		return nil, "", "", err
	}
	return Export(data, format, string(req.Type))
}

func (s *ReportServiceImpl) ExportSaved(ctx context.Context, organizationID primitive.ObjectID, id, format string) ([]byte, string, string, error) {
	saved, err := s.SavedRepo.Get(ctx, organizationID, id)
	if err != nil {
		return nil, "", "", fetchError(err)
	}
	data, err := s.RunSaved(ctx, organizationID, id)
	if err != nil {
		return nil, "", "", err
	}
	return Export(data, format, saved.Name)
}

func (s *ReportServiceImpl) CreateSavedReport(ctx context.Context, report *SavedReport) error {
	if !report.Type.Valid() {
		return configErrorf("unknown report type %q", report.Type)
	}
	if err := report.Config.Validate(); err != nil {
		return err
	}
	return s.SavedRepo.Create(ctx, report)
}

func (s *ReportServiceImpl) GetSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string) (*SavedReport, error) {
	return s.SavedRepo.Get(ctx, organizationID, id)
}

func (s *ReportServiceImpl) ListSavedReports(ctx context.Context, organizationID primitive.ObjectID) ([]SavedReport, error) {
	return s.SavedRepo.List(ctx, organizationID)
}

func (s *ReportServiceImpl) UpdateSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string, report *SavedReport) error {
	if !report.Type.Valid() {
		return configErrorf("unknown report type %q", report.Type)
	}
	if err := report.Config.Validate(); err != nil {
		return err
	}
	return s.SavedRepo.Update(ctx, organizationID, id, report)
}

func (s *ReportServiceImpl) DeleteSavedReport(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	return s.SavedRepo.Delete(ctx, organizationID, id)
}

func (s *ReportServiceImpl) SetFavorite(ctx context.Context, organizationID primitive.ObjectID, id string, favorite bool) error {
	return s.SavedRepo.SetFavorite(ctx, organizationID, id, favorite)
}
