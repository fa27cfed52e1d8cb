package report

import (
	"context"
	"time"

	"forwarddesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SavedReportRepository interface {
	Create(ctx context.Context, report *SavedReport) error
	Get(ctx context.Context, organizationID primitive.ObjectID, id string) (*SavedReport, error)
	List(ctx context.Context, organizationID primitive.ObjectID) ([]SavedReport, error)
	Update(ctx context.Context, organizationID primitive.ObjectID, id string, report *SavedReport) error
	Delete(ctx context.Context, organizationID primitive.ObjectID, id string) error
	SetFavorite(ctx context.Context, organizationID primitive.ObjectID, id string, favorite bool) error
	TouchLastViewed(ctx context.Context, organizationID primitive.ObjectID, id string) error
}

type SavedReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSavedReportRepository(db *database.MongodbDB) SavedReportRepository {
	return &SavedReportRepositoryImpl{
		Collection: db.DB.Collection("saved_reports"),
	}
}

func (r *SavedReportRepositoryImpl) Create(ctx context.Context, report *SavedReport) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, report)
	return err
}

func (r *SavedReportRepositoryImpl) Get(ctx context.Context, organizationID primitive.ObjectID, id string) (*SavedReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var report SavedReport
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "organization_id": organizationID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *SavedReportRepositoryImpl) List(ctx context.Context, organizationID primitive.ObjectID) ([]SavedReport, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": organizationID},
		options.Find().SetSort(bson.D{{Key: "is_favorite", Value: -1}, {Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []SavedReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *SavedReportRepositoryImpl) Update(ctx context.Context, organizationID primitive.ObjectID, id string, report *SavedReport) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	report.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":               report.Name,
			"type":               report.Type,
			"config":             report.Config,
			"visualization_type": report.VisualizationType,
			"updated_at":         report.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid, "organization_id": organizationID}, update)
	return err
}

func (r *SavedReportRepositoryImpl) Delete(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "organization_id": organizationID})
	return err
}

func (r *SavedReportRepositoryImpl) SetFavorite(ctx context.Context, organizationID primitive.ObjectID, id string, favorite bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "organization_id": organizationID},
		bson.M{"$set": bson.M{"is_favorite": favorite, "updated_at": time.Now()}})
	return err
}

func (r *SavedReportRepositoryImpl) TouchLastViewed(ctx context.Context, organizationID primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "organization_id": organizationID},
		bson.M{"$set": bson.M{"last_viewed_at": time.Now()}})
	return err
}
