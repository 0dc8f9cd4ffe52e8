package local

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists identity records in a mongo users collection,
// matching the document layout of the original deployment.
type MongoStore struct {
	users *mongo.Collection
}

type userDoc struct {
	ID             string `bson:"id"`
	Username       string `bson:"username"`
	Avatar         string `bson:"avatar,omitempty"`
	Email          string `bson:"email"`
	PasswordDigest string `bson:"password"`
	Token          string `bson:"token"`
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection("users")}
}

// EnsureIndexes creates the uniqueness indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		unique("id"),
		unique("username"),
		unique("email"),
		unique("token"),
	})
	if err != nil {
		return fmt.Errorf("local: ensure indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, u User) error {
	_, err := s.users.InsertOne(ctx, userDoc{
		ID:             u.ID,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Email:          u.Email,
		PasswordDigest: u.PasswordDigest,
		Token:          u.Token,
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("local: insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("local: query user: %w", err)
	}
	return &User{
		ID:             doc.ID,
		Username:       doc.Username,
		Avatar:         doc.Avatar,
		Email:          doc.Email,
		PasswordDigest: doc.PasswordDigest,
		Token:          doc.Token,
	}, nil
}
