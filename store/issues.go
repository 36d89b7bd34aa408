package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/apperr"
	"cityfix-be/models"
)

// MongoIssueStore implements IssueStore on the "issues" collection.
type MongoIssueStore struct {
	coll *mongo.Collection
}

func NewIssueStore(db *mongo.Database) *MongoIssueStore {
	return &MongoIssueStore{coll: db.Collection("issues")}
}

func (s *MongoIssueStore) Create(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, issue)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return issue.ID, nil
}

func (s *MongoIssueStore) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var issue models.Issue
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.NotFound, "issue not found")
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoIssueStore) ListAll(ctx context.Context) ([]models.Issue, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoIssueStore) ListByReporter(ctx context.Context, email string) ([]models.Issue, error) {
	return s.list(ctx, bson.M{"reporter_email": email})
}

func (s *MongoIssueStore) ListByAssignee(ctx context.Context, email string) ([]models.Issue, error) {
	return s.list(ctx, bson.M{"assigned_to": email})
}

func (s *MongoIssueStore) list(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoIssueStore) CountByReporter(ctx context.Context, email string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"reporter_email": email})
}

func (s *MongoIssueStore) UpdateAssignment(ctx context.Context, id, maintenanceEmail string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{
		"maintenance_email": nil,
		"assigned_to":       nil,
		"status":            models.StatusUnassigned,
	}
	if maintenanceEmail != "" {
		set["maintenance_email"] = maintenanceEmail
		set["assigned_to"] = maintenanceEmail
		set["status"] = models.StatusAssigned
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	return nil
}

func (s *MongoIssueStore) SetStatus(ctx context.Context, id string, status models.IssueStatus) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	return nil
}

func (s *MongoIssueStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	return nil
}
