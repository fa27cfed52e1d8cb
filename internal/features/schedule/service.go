package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"forwarddesk/internal/features/report"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var validFormats = map[string]bool{
	"csv":  true,
	"json": true,
	"xlsx": true,
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, scheduled *ScheduledReport) error
	GetSchedule(ctx context.Context, organizationID primitive.ObjectID, id string) (*ScheduledReport, error)
	ListSchedules(ctx context.Context, organizationID primitive.ObjectID) ([]ScheduledReport, error)
	UpdateSchedule(ctx context.Context, scheduled *ScheduledReport) error
	DeleteSchedule(ctx context.Context, organizationID primitive.ObjectID, id string) error
	RunNow(ctx context.Context, organizationID primitive.ObjectID, id string) error
	GetRunLogs(ctx context.Context, scheduledReportID string, limit int) ([]RunLog, error)

	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RegisterJob(scheduled *ScheduledReport) error
	UnregisterJob(id string) error
}

type ScheduleServiceImpl struct {
	repo    ScheduleRepository
	reports report.ReportService
	logger  *zap.Logger

	scheduler  *cron.Cron
	jobEntries map[string]cron.EntryID
	mu         sync.RWMutex
}

func NewScheduleService(repo ScheduleRepository, reports report.ReportService, logger *zap.Logger) ScheduleService {
	return &ScheduleServiceImpl{
		repo:       repo,
		reports:    reports,
		logger:     logger,
		jobEntries: make(map[string]cron.EntryID),
	}
}

func validateSchedule(scheduled *ScheduledReport) error {
	if _, err := cron.ParseStandard(scheduled.Schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	if !validFormats[scheduled.Format] {
		return fmt.Errorf("unsupported export format %q", scheduled.Format)
	}
	if scheduled.SavedReportID.IsZero() {
		return fmt.Errorf("saved_report_id is required")
	}
	return nil
}

func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, scheduled *ScheduledReport) error {
	if err := validateSchedule(scheduled); err != nil {
		return err
	}

	// validateSchedule already proved the expression parses
	spec, _ := cron.ParseStandard(scheduled.Schedule)
	nextRun := spec.Next(time.Now())
	scheduled.NextRun = &nextRun

	if err := s.repo.Create(ctx, scheduled); err != nil {
		return err
	}

	if scheduled.Active && s.scheduler != nil {
		if err := s.RegisterJob(scheduled); err != nil {
			s.logger.Error("failed to register schedule", zap.String("id", scheduled.ID.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, organizationID primitive.ObjectID, id string) (*ScheduledReport, error) {
	scheduled, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduled == nil || scheduled.OrganizationID != organizationID {
		return nil, nil
	}
	return scheduled, nil
}

func (s *ScheduleServiceImpl) ListSchedules(ctx context.Context, organizationID primitive.ObjectID) ([]ScheduledReport, error) {
	return s.repo.List(ctx, organizationID)
}

func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, scheduled *ScheduledReport) error {
	if err := validateSchedule(scheduled); err != nil {
		return err
	}

	spec, _ := cron.ParseStandard(scheduled.Schedule)
	nextRun := spec.Next(time.Now())
	scheduled.NextRun = &nextRun

	if err := s.repo.Update(ctx, scheduled); err != nil {
		return err
	}

	s.UnregisterJob(scheduled.ID.Hex())
	if scheduled.Active && s.scheduler != nil {
		if err := s.RegisterJob(scheduled); err != nil {
			s.logger.Error("failed to register updated schedule", zap.String("id", scheduled.ID.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	s.UnregisterJob(id)
	return s.repo.Delete(ctx, organizationID, id)
}

func (s *ScheduleServiceImpl) RunNow(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	scheduled, err := s.GetSchedule(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if scheduled == nil {
		return fmt.Errorf("scheduled report not found")
	}
	return s.execute(ctx, scheduled)
}

// execute runs the saved report, exports it and records the run.
func (s *ScheduleServiceImpl) execute(ctx context.Context, scheduled *ScheduledReport) error {
	startTime := time.Now()

	logEntry := &RunLog{
		ScheduledReportID: scheduled.ID,
		ScheduleName:      scheduled.Name,
		StartTime:         startTime,
		Status:            "running",
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		s.logger.Error("failed to create run log", zap.String("schedule", scheduled.ID.Hex()), zap.Error(err))
	}

	data, err := s.reports.RunSaved(ctx, scheduled.OrganizationID, scheduled.SavedReportID.Hex())
	var out []byte
	var fileName string
	if err == nil {
		out, fileName, _, err = report.Export(data, scheduled.Format, scheduled.Name)
	}

	endTime := time.Now()
	logEntry.EndTime = &endTime
	if err != nil {
		logEntry.Status = "failed"
		logEntry.Error = err.Error()
	} else {
		logEntry.Status = "success"
		logEntry.Rows = len(data.Rows)
		logEntry.FileName = fileName
		logEntry.FileSize = len(out)
	}
	if updateErr := s.repo.UpdateLog(ctx, logEntry); updateErr != nil {
		s.logger.Error("failed to update run log", zap.String("schedule", scheduled.ID.Hex()), zap.Error(updateErr))
	}

	spec, specErr := cron.ParseStandard(scheduled.Schedule)
	var nextRun *time.Time
	if specErr == nil {
		next := spec.Next(time.Now())
		nextRun = &next
	}
	if lastRunErr := s.repo.UpdateLastRun(ctx, scheduled.ID.Hex(), startTime, nextRun); lastRunErr != nil {
		s.logger.Error("failed to update last run", zap.String("schedule", scheduled.ID.Hex()), zap.Error(lastRunErr))
	}

	return err
}

func (s *ScheduleServiceImpl) GetRunLogs(ctx context.Context, scheduledReportID string, limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, scheduledReportID, limit)
}

func (s *ScheduleServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("initializing report scheduler")
	s.scheduler = cron.New()

	active, err := s.repo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active schedules: %w", err)
	}
	for i := range active {
		if err := s.RegisterJob(&active[i]); err != nil {
			s.logger.Error("failed to register schedule", zap.String("id", active[i].ID.Hex()), zap.Error(err))
		}
	}

	s.scheduler.Start()
	return nil
}

func (s *ScheduleServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *ScheduleServiceImpl) RegisterJob(scheduled *ScheduledReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return fmt.Errorf("scheduler not initialized")
	}

	id := scheduled.ID.Hex()
	jobFunc := func() {
		ctx := context.Background()
		// Re-read so edits and deactivation between ticks take effect
		latest, err := s.repo.GetByID(ctx, id)
		if err != nil || latest == nil || !latest.Active {
			return
		}
		if err := s.execute(ctx, latest); err != nil {
			s.logger.Error("scheduled run failed", zap.String("schedule", id), zap.Error(err))
		}
	}

	entryID, err := s.scheduler.AddFunc(scheduled.Schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}

	s.jobEntries[id] = entryID
	return nil
}

func (s *ScheduleServiceImpl) UnregisterJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobEntries[id]; exists {
		s.scheduler.Remove(entryID)
		delete(s.jobEntries, id)
	}
	return nil
}
