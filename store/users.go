package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"cityfix-be/apperr"
	"cityfix-be/models"
)

// MongoUserStore implements UserStore on the "users" collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Wrap(apperr.Validation, "email already registered", err)
	}
	return err
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.list(ctx, bson.M{"role": role})
}

// ListNonAdmin returns every user or maintenance account, for the admin
// role-management screen.
func (s *MongoUserStore) ListNonAdmin(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, bson.M{"role": bson.M{"$in": []models.Role{models.RoleUser, models.RoleMaintenance}}})
}

func (s *MongoUserStore) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) Update(ctx context.Context, id string, upd UserUpdate) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.E(apperr.NotFound, "user not found")
	}
	return nil
}

func (s *MongoUserStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoUserStore) DeleteByEmail(ctx context.Context, email string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"email": email})
	return err
}
