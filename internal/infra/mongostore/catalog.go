package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playfriends/playfriends/internal/domain/catalog"
)

// ActivityRepository implements catalog.ActivityRepository on MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository binds the repository to db.
func NewActivityRepository(ctx context.Context, db *mongo.Database) (*ActivityRepository, error) {
	coll := db.Collection(activitiesCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category_id", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure category_id index: %w", err)
	}
	return &ActivityRepository{coll: coll}, nil
}

func (r *ActivityRepository) FindByCategory(ctx context.Context, categoryID string) ([]catalog.Activity, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	defer cursor.Close(ctx)

	var out []catalog.Activity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return out, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (catalog.Activity, bool, error) {
	var a catalog.Activity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Activity{}, false, nil
	}
	if err != nil {
		return catalog.Activity{}, false, fmt.Errorf("find activity: %w", err)
	}
	return a, true, nil
}

func (r *ActivityRepository) SetPhotoKey(ctx context.Context, id, key string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"photo_key": key}})
	if err != nil {
		return fmt.Errorf("set photo key: %w", err)
	}
	return nil
}

// Insert stores a new activity. Used by seeding.
func (r *ActivityRepository) Insert(ctx context.Context, a catalog.Activity) (catalog.Activity, error) {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return catalog.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return a, nil
}

// CategoryRepository implements catalog.CategoryRepository on MongoDB.
type CategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository binds the repository to db and ensures category
// names stay unique.
func NewCategoryRepository(ctx context.Context, db *mongo.Database) (*CategoryRepository, error) {
	coll := db.Collection(categoriesCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure category name index: %w", err)
	}
	return &CategoryRepository{coll: coll}, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (catalog.Category, bool, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (catalog.Category, bool, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *CategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var out []catalog.Category
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

// Insert stores a new category. Used by seeding.
func (r *CategoryRepository) Insert(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return catalog.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (catalog.Category, bool, error) {
	var c catalog.Category
	err := r.coll.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Category{}, false, nil
	}
	if err != nil {
		return catalog.Category{}, false, fmt.Errorf("find category: %w", err)
	}
	return c, true, nil
}
