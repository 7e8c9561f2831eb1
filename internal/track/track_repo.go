package track

import (
	"context"

	mongoClient "github.com/lostact/osdlyrics/internal/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const historyCollection = "track_history"

type trackRepository interface {
	Save(ctx context.Context, d *trackDocument) error
	GetAll(ctx context.Context, player *string) ([]*trackDocument, error)
}

type repo struct{}

func (r *repo) getCollection() (*mongo.Collection, error) {
	return mongoClient.NewCollection(historyCollection)
}

func (r *repo) Save(ctx context.Context, d *trackDocument) error {
	collection, err := r.getCollection()
	if err != nil {
		return err
	}

	_, err = collection.InsertOne(ctx, d)

	return err
}

// GetAll returns the history newest first, optionally restricted to one player.
func (r *repo) GetAll(ctx context.Context, player *string) ([]*trackDocument, error) {
	collection, err := r.getCollection()
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if player != nil {
		filter["player"] = *player
	}

	cur, err := collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "played_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	result := make([]*trackDocument, 0)

	err = cur.All(ctx, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func newTrackRepository(ctx context.Context) (trackRepository, error) {
	return &repo{}, nil
}
