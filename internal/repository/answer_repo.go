package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triviabattle/internal/model"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.AnswerRecord) error
	GetByMatchID(ctx context.Context, matchID string) ([]*model.AnswerRecord, error)
	GetByPlayerID(ctx context.Context, playerID string) ([]*model.AnswerRecord, error)
}

type answerRepository struct {
	collection *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) AnswerRepository {
	return &answerRepository{
		collection: db.Collection("answers"),
	}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.AnswerRecord) error {
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}
	if answer.ID == "" {
		answer.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, answer)
	if mongo.IsDuplicateKeyError(err) {
		// a retried insert that already landed
		return nil
	}
	return err
}

func (r *answerRepository) GetByMatchID(ctx context.Context, matchID string) ([]*model.AnswerRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "questionIndex", Value: 1}, {Key: "answeredAt", Value: 1}})
	return r.find(ctx, bson.M{"matchId": matchID}, opts)
}

func (r *answerRepository) GetByPlayerID(ctx context.Context, playerID string) ([]*model.AnswerRecord, error) {
	return r.find(ctx, bson.M{"playerId": playerID})
}

func (r *answerRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*model.AnswerRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []*model.AnswerRecord
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
