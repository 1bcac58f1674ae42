package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"triviabattle/internal/model"
)

type AttackRepo interface {
	Create(ctx context.Context, attack *model.AttackRecord) error
	GetByMatchID(ctx context.Context, matchID string) ([]*model.AttackRecord, error)
}

type attackRepo struct {
	collection *mongo.Collection
}

func NewAttackRepo(db *mongo.Database) AttackRepo {
	return &attackRepo{
		collection: db.Collection("attacks"),
	}
}

func (r *attackRepo) Create(ctx context.Context, attack *model.AttackRecord) error {
	if attack.UsedAt.IsZero() {
		attack.UsedAt = time.Now()
	}
	if attack.ID == "" {
		attack.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, attack)
	if mongo.IsDuplicateKeyError(err) {
		// a retried insert that already landed
		return nil
	}
	return err
}

func (r *attackRepo) GetByMatchID(ctx context.Context, matchID string) ([]*model.AttackRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"matchId": matchID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attacks []*model.AttackRecord
	if err = cursor.All(ctx, &attacks); err != nil {
		return nil, err
	}
	return attacks, nil
}
