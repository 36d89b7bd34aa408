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

// MongoDoneReportStore implements DoneReportStore on the "done_reports"
// collection. It also holds the issues collection so Create can verify the
// referenced issue exists.
type MongoDoneReportStore struct {
	coll   *mongo.Collection
	issues *mongo.Collection
}

func NewDoneReportStore(db *mongo.Database) *MongoDoneReportStore {
	return &MongoDoneReportStore{
		coll:   db.Collection("done_reports"),
		issues: db.Collection("issues"),
	}
}

func (s *MongoDoneReportStore) Create(ctx context.Context, report *models.DoneReport) error {
	oid, err := parseID(report.OriginalIssueID)
	if err != nil {
		return err
	}

	// Refuse reports against issues that no longer exist.
	count, err := s.issues.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.E(apperr.NotFound, "issue not found")
	}

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	_, err = s.coll.InsertOne(ctx, report)
	return err
}

func (s *MongoDoneReportStore) GetByID(ctx context.Context, id string) (*models.DoneReport, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var report models.DoneReport
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.NotFound, "done report not found")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByIssue returns the completion report referencing issueID, or a
// not-found error when the issue has none.
func (s *MongoDoneReportStore) FindByIssue(ctx context.Context, issueID string) (*models.DoneReport, error) {
	var report models.DoneReport
	err := s.coll.FindOne(ctx, bson.M{"original_issue_id": issueID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.NotFound, "done report not found")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *MongoDoneReportStore) ListAll(ctx context.Context) ([]models.DoneReport, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.DoneReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MongoDoneReportStore) MarkAccepted(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": models.DoneReportAccepted}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.E(apperr.NotFound, "done report not found")
	}
	return nil
}

func (s *MongoDoneReportStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.E(apperr.NotFound, "done report not found")
	}
	return nil
}
