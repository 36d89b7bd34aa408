package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/models"
)

// MongoRejectionStore implements RejectionStore on the "rejected_reports"
// collection. Append-only: there are deliberately no update or delete
// methods.
type MongoRejectionStore struct {
	coll *mongo.Collection
}

func NewRejectionStore(db *mongo.Database) *MongoRejectionStore {
	return &MongoRejectionStore{coll: db.Collection("rejected_reports")}
}

func (s *MongoRejectionStore) Append(ctx context.Context, entry *models.RejectedReport) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, entry)
	return err
}

func (s *MongoRejectionStore) ListByTechnician(ctx context.Context, email string) ([]models.RejectedReport, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{"technician": email}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.RejectedReport{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
