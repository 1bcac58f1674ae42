package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triviabattle/internal/model"
)

// MatchRepo stores finished match history
type MatchRepo interface {
	Create(ctx context.Context, match *model.MatchRecord) error
	GetByID(ctx context.Context, id string) (*model.MatchRecord, error)
	GetByPlayerID(ctx context.Context, playerID string, limit int64) ([]*model.MatchRecord, error)
}

type matchRepo struct {
	collection *mongo.Collection
}

func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection("matches"),
	}
}

// Create upserts by match id so a retried write never duplicates history
func (r *matchRepo) Create(ctx context.Context, match *model.MatchRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": match.ID}, match, opts)
	return err
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*model.MatchRecord, error) {
	var match model.MatchRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepo) GetByPlayerID(ctx context.Context, playerID string, limit int64) ([]*model.MatchRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"playerIds": playerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []*model.MatchRecord
	if err = cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
