package schedule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduledReport runs a saved report on a cron schedule and keeps the
// produced export as a run log row.
type ScheduledReport struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	SavedReportID  primitive.ObjectID `json:"saved_report_id" bson:"saved_report_id"`
	Name           string             `json:"name" bson:"name"`
	Schedule       string             `json:"schedule" bson:"schedule"` // standard 5-field cron expression
	Format         string             `json:"format" bson:"format"`     // csv, json, xlsx
	Active         bool               `json:"active" bson:"active"`
	LastRun        *time.Time         `json:"last_run,omitempty" bson:"last_run,omitempty"`
	NextRun        *time.Time         `json:"next_run,omitempty" bson:"next_run,omitempty"`
	CreatedBy      primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// RunLog is a single execution of a scheduled report.
type RunLog struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduledReportID primitive.ObjectID `json:"scheduled_report_id" bson:"scheduled_report_id"`
	ScheduleName      string             `json:"schedule_name" bson:"schedule_name"`
	StartTime         time.Time          `json:"start_time" bson:"start_time"`
	EndTime           *time.Time         `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status            string             `json:"status" bson:"status"` // running, success, failed
	Rows              int                `json:"rows" bson:"rows"`
	FileName          string             `json:"file_name,omitempty" bson:"file_name,omitempty"`
	FileSize          int                `json:"file_size" bson:"file_size"`
	Error             string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
}
