package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository on one MongoDB collection. The same
// implementation backs both the golf and mahjong collections.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	// documents carry a string "id" field so handler routes and tests don't
	// depend on ObjectID formatting; keep lookups fast and ids unique
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "monthKey", Value: 1}, {Key: "dateStr", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	col.Indexes().CreateMany(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, s *Schedule) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (r *MongoRepository) FindByMonth(ctx context.Context, monthKey string) ([]*Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateStr", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"monthKey": monthKey}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Schedule{}
	for cur.Next(ctx) {
		var s Schedule
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Schedule, error) {
	var s Schedule
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) UpdateRecruit(ctx context.Context, id string, upd *RecruitUpdate) error {
	set := bson.M{
		"dateStr":          upd.DateStr,
		"startTime":        upd.StartTime,
		"playTimeSlot":     upd.PlayTimeSlot,
		"expectedPlayTime": upd.ExpectedPlayTime,
		"dateTime":         upd.dateTime,
		"venueName":        upd.VenueName,
		"playFee":          upd.PlayFee,
		"recruitCount":     upd.RecruitCount,
		"participants":     upd.Participants,
		"isCompetition":    upd.IsCompetition,
		"competitionName":  upd.CompetitionName,
		"monthKey":         upd.monthKey,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	// idempotent at this layer: deleting a missing id is not an error
	_, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// SwapParticipants is the CAS write behind joins: the filter matches only
// when the participant array is still exactly what the caller read, so a
// racing join makes MatchedCount zero instead of corrupting the count.
func (r *MongoRepository) SwapParticipants(ctx context.Context, id string, expected []string, participants []string, recruitCount int) error {
	if expected == nil {
		expected = []string{}
	}
	filter := bson.M{"id": id, "participants": expected}
	set := bson.M{"$set": bson.M{"participants": participants, "recruitCount": recruitCount}}
	res, err := r.col.UpdateOne(ctx, filter, set)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
