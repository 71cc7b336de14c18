package profile

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound indicates no profile exists for the given user id.
var ErrNotFound = errors.New("profile not found")

// Repository defines persistence operations for user profiles
type Repository interface {
	Upsert(ctx context.Context, p *UserProfile) (*UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	// FindByAnyTag returns profiles whose tag set contains at least one of the
	// given tags (store-level any-of query; callers re-check the intersection).
	FindByAnyTag(ctx context.Context, tags []string) ([]*UserProfile, error)
	// FindMahjongRecruitTargets returns profiles with the mahjong recruiting
	// opt-in flag set.
	FindMahjongRecruitTargets(ctx context.Context) ([]*UserProfile, error)
}

// MongoRepository implements Repository using MongoDB, one document per user
// keyed by the LINE user id.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Upsert(ctx context.Context, p *UserProfile) (*UserProfile, error) {
	p.UpdatedAt = time.Now().UTC()

	filter := bson.M{"userId": p.UserID}
	set := bson.M{"$set": bson.M{
		"userId":               p.UserID,
		"displayName":          p.DisplayName,
		"pictureUrl":           p.PictureURL,
		"statusMessage":        p.StatusMessage,
		"companyName":          p.CompanyName,
		"averageScore":         p.AverageScore,
		"playStyle":            p.PlayStyle,
		"profileCheckboxes":    p.ProfileCheckboxes,
		"mahjongRecruitNotify": p.MahjongRecruitNotify,
		"updatedAt":            p.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated UserProfile
	if err := r.col.FindOneAndUpdate(ctx, filter, set, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return p, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) GetByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	var p UserProfile
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) FindByAnyTag(ctx context.Context, tags []string) ([]*UserProfile, error) {
	return r.find(ctx, bson.M{"profileCheckboxes": bson.M{"$in": tags}})
}

func (r *MongoRepository) FindMahjongRecruitTargets(ctx context.Context) ([]*UserProfile, error) {
	return r.find(ctx, bson.M{"mahjongRecruitNotify": true})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*UserProfile, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*UserProfile{}
	for cur.Next(ctx) {
		var p UserProfile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}
