package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playfriends/playfriends/internal/domain/group"
)

// GroupRepository implements group.Repository on MongoDB: one collection
// for groups and one for confirmed schedules.
type GroupRepository struct {
	groups    *mongo.Collection
	schedules *mongo.Collection
}

// NewGroupRepository binds the repository to db and ensures the lookup
// indexes exist.
func NewGroupRepository(ctx context.Context, db *mongo.Database) (*GroupRepository, error) {
	groups := db.Collection(groupsCollection)
	schedules := db.Collection(schedulesCollection)

	_, err := groups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "member_ids", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure member_ids index: %w", err)
	}
	_, err = schedules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "group_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure group_id index: %w", err)
	}
	return &GroupRepository{groups: groups, schedules: schedules}, nil
}

func (r *GroupRepository) Create(ctx context.Context, g group.Group) (group.Group, error) {
	g.ID = primitive.NewObjectID().Hex()
	if _, err := r.groups.InsertOne(ctx, g); err != nil {
		return group.Group{}, fmt.Errorf("insert group: %w", err)
	}
	return g, nil
}

func (r *GroupRepository) Get(ctx context.Context, id string) (group.Group, bool, error) {
	var g group.Group
	err := r.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return group.Group{}, false, nil
	}
	if err != nil {
		return group.Group{}, false, fmt.Errorf("find group: %w", err)
	}
	return g, true, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]group.Group, error) {
	return r.find(ctx, bson.M{})
}

func (r *GroupRepository) ListByMember(ctx context.Context, userID string) ([]group.Group, error) {
	return r.find(ctx, bson.M{"member_ids": userID})
}

func (r *GroupRepository) Update(ctx context.Context, g group.Group) error {
	res, err := r.groups.UpdateOne(ctx, bson.M{"_id": g.ID}, bson.M{"$set": g})
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update group: group %s not found", g.ID)
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.groups.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	_, err := r.schedules.DeleteMany(ctx, bson.M{"group_id": id})
	if err != nil {
		return fmt.Errorf("delete group schedules: %w", err)
	}
	return nil
}

// DeactivateExpired flips is_active on groups whose outing window has
// passed. A group with no end time expires once its start time passes.
func (r *GroupRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"is_active": true,
		"$or": bson.A{
			bson.M{"endtime": bson.M{"$ne": nil, "$lt": now}},
			bson.M{"endtime": nil, "starttime": bson.M{"$lt": now}},
		},
	}
	res, err := r.groups.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return 0, fmt.Errorf("deactivate expired groups: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *GroupRepository) SaveSchedule(ctx context.Context, s group.Schedule) (group.Schedule, error) {
	s.ID = primitive.NewObjectID().Hex()
	if _, err := r.schedules.InsertOne(ctx, s); err != nil {
		return group.Schedule{}, fmt.Errorf("insert schedule: %w", err)
	}
	return s, nil
}

func (r *GroupRepository) GetSchedule(ctx context.Context, groupID string) (group.Schedule, bool, error) {
	var s group.Schedule
	err := r.schedules.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return group.Schedule{}, false, nil
	}
	if err != nil {
		return group.Schedule{}, false, fmt.Errorf("find schedule: %w", err)
	}
	return s, true, nil
}

func (r *GroupRepository) find(ctx context.Context, filter bson.M) ([]group.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.groups.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer cursor.Close(ctx)

	var out []group.Group
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	return out, nil
}
