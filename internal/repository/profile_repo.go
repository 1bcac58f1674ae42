package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triviabattle/internal/model"
)

// ProfileRepo is the durable player store. Mongo and Postgres both
// implement it; PROFILE_BACKEND picks one.
type ProfileRepo interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	// ApplyDelta folds delta into the profile once per delta.MatchID and
	// reports whether this call applied it
	ApplyDelta(ctx context.Context, id string, delta model.ProfileDelta) (*model.Profile, bool, error)
}

type profileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		collection: db.Collection("profiles"),
	}
}

// EnsureProfileIndexes creates the unique username index
func EnsureProfileIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.Level == 0 {
		profile.Level = model.LevelFor(profile.XP)
	}
	_, err := r.collection.InsertOne(ctx, profile)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *profileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *profileRepo) findOne(ctx context.Context, filter bson.M) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ApplyDelta reads the profile, folds the delta in and writes it back
// guarded by the previous updatedAt, retrying on a concurrent write. The
// settled match id travels in the same document write.
func (r *profileRepo) ApplyDelta(ctx context.Context, id string, delta model.ProfileDelta) (*model.Profile, bool, error) {
	for attempt := 0; attempt < 3; attempt++ {
		profile, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		prev := profile.UpdatedAt
		if !profile.Apply(delta, time.Now()) {
			return profile, false, nil
		}

		res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id, "updatedAt": prev}, profile)
		if err != nil {
			return nil, false, err
		}
		if res.MatchedCount == 1 {
			return profile, true, nil
		}
	}
	return nil, false, ErrConflict
}
