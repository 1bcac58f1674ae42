package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"triviabattle/internal/model"
)

// QuestionRepo is the question bank. It serves as the coordinator's
// question provider.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	InsertMany(ctx context.Context, questions []*model.Question) (int, error)
	Count(ctx context.Context) (int64, error)
	GetByCategory(ctx context.Context, category string) ([]*model.Question, error)
	NextQuestion(ctx context.Context, category string, exclude []string) (*model.Question, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	prepareQuestion(question)
	_, err := r.collection.InsertOne(ctx, question)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *questionRepo) InsertMany(ctx context.Context, questions []*model.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		prepareQuestion(q)
		docs[i] = q
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

func prepareQuestion(q *model.Question) {
	if q.ID == "" {
		q.ID = primitive.NewObjectID().Hex()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *questionRepo) GetByCategory(ctx context.Context, category string) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// NextQuestion samples one question from category ("" for any) that is not
// in exclude. Once the pool is exhausted it samples from the whole category.
func (r *questionRepo) NextQuestion(ctx context.Context, category string, exclude []string) (*model.Question, error) {
	q, err := r.sample(ctx, questionFilter(category, exclude))
	if err == ErrNotFound && len(exclude) > 0 {
		return r.sample(ctx, questionFilter(category, nil))
	}
	return q, err
}

func questionFilter(category string, exclude []string) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
	return filter
}

func (r *questionRepo) sample(ctx context.Context, filter bson.M) (*model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}
	return questions[0], nil
}
