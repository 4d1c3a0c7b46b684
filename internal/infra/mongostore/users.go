package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playfriends/playfriends/internal/domain/auth"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// UserRepository implements auth.Repository on a MongoDB collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository binds the repository to db and ensures the userid
// uniqueness index exists.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	coll := db.Collection(usersCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure userid index: %w", err)
	}
	return &UserRepository{coll: coll}, nil
}

func (r *UserRepository) Create(ctx context.Context, u auth.User) (auth.User, error) {
	u.ID = primitive.NewObjectID().Hex()
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.User{}, auth.ErrUserIDTaken
		}
		return auth.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (auth.User, bool, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByUserID(ctx context.Context, userid string) (auth.User, bool, error) {
	return r.findOne(ctx, bson.M{"userid": userid})
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, food prefs.FoodPreferences, play prefs.PlayVector) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"food_preferences": food,
		"play_preferences": play,
	}})
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update preferences: user %s not found", id)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (auth.User, bool, error) {
	var u auth.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, fmt.Errorf("find user: %w", err)
	}
	return u, true, nil
}
