package dataset

import (
	"context"
	"fmt"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository resolves a report type to its backing row source and runs
// filtered queries against it. This is the storage collaborator the
// report fetcher depends on.
type Repository interface {
	Query(ctx context.Context, reportType ReportType, organizationID primitive.ObjectID, filters []common_models.Filter, timeRange common_models.TimeRange) ([]Row, error)
}

type RepositoryImpl struct {
	db      *mongo.Database
	billing *BillingSource
}

func NewRepository(db *database.MongodbDB, pg *database.PostgresDB) Repository {
	return &RepositoryImpl{
		db:      db.DB,
		billing: NewBillingSource(pg),
	}
}

var collectionByType = map[ReportType]string{
	ReportTypeConversations: "conversations",
	ReportTypeCustomers:     "customers",
	ReportTypeErrors:        "error_logs",
	ReportTypeSentiment:     "sentiment_scores",
	ReportTypeUsage:         "usage_records",
}

func (r *RepositoryImpl) Query(ctx context.Context, reportType ReportType, organizationID primitive.ObjectID, filters []common_models.Filter, timeRange common_models.TimeRange) ([]Row, error) {
	if reportType == ReportTypeBilling {
		return r.billing.Query(ctx, organizationID, filters, timeRange)
	}

	collName, ok := collectionByType[reportType]
	if !ok {
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	query, err := buildMongoQuery(organizationID, filters, timeRange)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(collName).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeRows(ctx, cursor, reportType)
}

// buildMongoQuery translates declarative filters plus the optional time
// range into a bson predicate applied storage-side.
func buildMongoQuery(organizationID primitive.ObjectID, filters []common_models.Filter, timeRange common_models.TimeRange) (bson.M, error) {
	query := bson.M{"organization_id": organizationID}

	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		switch f.Operator {
		case common_models.OpEq:
			query[f.Field] = f.Value
		case common_models.OpNeq:
			query[f.Field] = bson.M{"$ne": f.Value}
		case common_models.OpGt:
			query[f.Field] = bson.M{"$gt": f.Value}
		case common_models.OpGte:
			query[f.Field] = bson.M{"$gte": f.Value}
		case common_models.OpLt:
			query[f.Field] = bson.M{"$lt": f.Value}
		case common_models.OpLte:
			query[f.Field] = bson.M{"$lte": f.Value}
		case common_models.OpIn:
			query[f.Field] = bson.M{"$in": f.Values()}
		case common_models.OpBetween:
			bounds := f.Values()
			query[f.Field] = bson.M{"$gte": bounds[0], "$lte": bounds[1]}
		}
	}

	if timeRange.Start != nil || timeRange.End != nil {
		created := bson.M{}
		if timeRange.Start != nil {
			created["$gte"] = *timeRange.Start
		}
		if timeRange.End != nil {
			created["$lte"] = *timeRange.End
		}
		query["created_at"] = created
	}

	return query, nil
}

func decodeRows(ctx context.Context, cursor *mongo.Cursor, reportType ReportType) ([]Row, error) {
	var rows []Row

	switch reportType {
	case ReportTypeConversations:
		var records []Conversation
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, rec := range records {
			rows = append(rows, rec)
		}
	case ReportTypeCustomers:
		var records []Customer
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, rec := range records {
			rows = append(rows, rec)
		}
	case ReportTypeErrors:
		var records []ErrorLog
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, rec := range records {
			rows = append(rows, rec)
		}
	case ReportTypeSentiment:
		var records []SentimentScore
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, rec := range records {
			rows = append(rows, rec)
		}
	case ReportTypeUsage:
		var records []UsageRecord
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, rec := range records {
			rows = append(rows, rec)
		}
	}

	return rows, nil
}
