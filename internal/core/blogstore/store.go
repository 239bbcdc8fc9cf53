// Package blogstore hosts the MongoDB collection the blog mirror writes to.
package blogstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/maker5587/chatbot/internal/models"
)

const (
	defaultCollection = "blogs"
	defaultOpTimeout  = 5 * time.Second
)

// collection is the slice of *mongo.Collection the store uses, narrowed so
// tests can substitute a fake.
type collection interface {
	InsertOne(ctx context.Context, document any) (*mongo.InsertOneResult, error)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (m mongoCollection) InsertOne(ctx context.Context, document any) (*mongo.InsertOneResult, error) {
	return m.coll.InsertOne(ctx, document)
}

// MongoStore persists scraped posts. The unique index on link makes
// re-running the scraper idempotent: a post already mirrored is reported
// as a duplicate, not an error.
type MongoStore struct {
	client  *mongo.Client
	posts   collection
	timeout time.Duration
}

// Options configures the Mongo blog store.
type Options struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// New connects, pings and ensures the link uniqueness index.
func New(ctx context.Context, opts Options) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	if opts.Database == "" {
		return nil, errors.New("database name is required")
	}
	collName := opts.Collection
	if collName == "" {
		collName = defaultCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}

	connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(collName)
	_, err = coll.Indexes().CreateOne(connCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "link", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure link index: %w", err)
	}

	return newStoreWithCollection(client, mongoCollection{coll: coll}, timeout), nil
}

func newStoreWithCollection(client *mongo.Client, coll collection, timeout time.Duration) *MongoStore {
	return &MongoStore{client: client, posts: coll, timeout: timeout}
}

// InsertPost writes one post. inserted=false means the link already
// exists; the caller treats that as a benign duplicate.
func (s *MongoStore) InsertPost(ctx context.Context, post *models.BlogPost) (bool, error) {
	if post == nil {
		return false, errors.New("nil post")
	}
	if post.Link == "" {
		return false, errors.New("post link is required")
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.posts.InsertOne(opCtx, post)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert post %d: %w", post.Num, err)
	}
	return true, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
