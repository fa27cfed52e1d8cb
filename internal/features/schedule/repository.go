package schedule

import (
	"context"
	"time"

	"forwarddesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleRepository interface {
	Create(ctx context.Context, scheduled *ScheduledReport) error
	GetByID(ctx context.Context, id string) (*ScheduledReport, error)
	List(ctx context.Context, organizationID primitive.ObjectID) ([]ScheduledReport, error)
	Update(ctx context.Context, scheduled *ScheduledReport) error
	Delete(ctx context.Context, organizationID primitive.ObjectID, id string) error
	GetActive(ctx context.Context) ([]ScheduledReport, error)
	UpdateLastRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error

	CreateLog(ctx context.Context, log *RunLog) error
	UpdateLog(ctx context.Context, log *RunLog) error
	GetLogs(ctx context.Context, scheduledReportID string, limit int) ([]RunLog, error)
}

type ScheduleRepositoryImpl struct {
	collection    *mongo.Collection
	logCollection *mongo.Collection
}

func NewScheduleRepository(db *database.MongodbDB) ScheduleRepository {
	return &ScheduleRepositoryImpl{
		collection:    db.DB.Collection("scheduled_reports"),
		logCollection: db.DB.Collection("scheduled_report_logs"),
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, scheduled *ScheduledReport) error {
	scheduled.ID = primitive.NewObjectID()
	scheduled.CreatedAt = time.Now()
	scheduled.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, scheduled)
	return err
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*ScheduledReport, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var scheduled ScheduledReport
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&scheduled)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &scheduled, nil
}

func (r *ScheduleRepositoryImpl) List(ctx context.Context, organizationID primitive.ObjectID) ([]ScheduledReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"organization_id": organizationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scheduled []ScheduledReport
	if err = cursor.All(ctx, &scheduled); err != nil {
		return nil, err
	}
	if scheduled == nil {
		scheduled = []ScheduledReport{}
	}
	return scheduled, nil
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, scheduled *ScheduledReport) error {
	scheduled.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": scheduled.ID, "organization_id": scheduled.OrganizationID},
		bson.M{"$set": scheduled})
	return err
}

func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "organization_id": organizationID})
	return err
}

func (r *ScheduleRepositoryImpl) GetActive(ctx context.Context) ([]ScheduledReport, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scheduled []ScheduledReport
	if err = cursor.All(ctx, &scheduled); err != nil {
		return nil, err
	}
	return scheduled, nil
}

func (r *ScheduleRepositoryImpl) UpdateLastRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{
		"last_run":   lastRun,
		"next_run":   nextRun,
		"updated_at": time.Now(),
	}})
	return err
}

func (r *ScheduleRepositoryImpl) CreateLog(ctx context.Context, log *RunLog) error {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now()

	_, err := r.logCollection.InsertOne(ctx, log)
	return err
}

func (r *ScheduleRepositoryImpl) UpdateLog(ctx context.Context, log *RunLog) error {
	_, err := r.logCollection.UpdateOne(ctx, bson.M{"_id": log.ID}, bson.M{"$set": log})
	return err
}

func (r *ScheduleRepositoryImpl) GetLogs(ctx context.Context, scheduledReportID string, limit int) ([]RunLog, error) {
	objectID, err := primitive.ObjectIDFromHex(scheduledReportID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.logCollection.Find(ctx, bson.M{"scheduled_report_id": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []RunLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []RunLog{}
	}
	return logs, nil
}
