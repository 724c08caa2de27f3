package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// MongoConfig holds the connection settings of the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// mongoLayout is the stored form of one layout.
type mongoLayout struct {
	ID        string            `bson:"_id"`
	Filename  string            `bson:"filename"`
	CreatedAt time.Time         `bson:"created_at"`
	Elements  []layoutio.Record `bson:"elements,omitempty"`
}

func (m mongoLayout) metadata() layoutio.Metadata {
	return layoutio.Metadata{ID: m.ID, CreatedAt: m.CreatedAt.UTC(), Filename: m.Filename}
}

func (m mongoLayout) document() *layoutio.Document {
	meta := m.metadata()
	elements := m.Elements
	if elements == nil {
		elements = []layoutio.Record{}
	}
	return &layoutio.Document{Elements: elements, Metadata: &meta}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// MongoStore keeps one document per layout in a mongo collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	opts   settings
}

// NewMongoStore connects to mongo, verifies the connection and ensures the
// collection indexes exist.
func NewMongoStore(ctx context.Context, cfg MongoConfig, opts ...Option) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	db, name := cfg.Database, cfg.Collection
	if db == "" {
		db = "einkplacer"
	}
	if name == "" {
		name = "layouts"
	}
	coll := client.Database(db).Collection(name)

	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: newestFirst},
		{Keys: bson.D{{Key: "filename", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create mongo indexes")
	}

	return &MongoStore{client: client, coll: coll, opts: buildOptions(opts)}, nil
}

func (s *MongoStore) Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error) {
	meta := s.opts.newMetadata()
	m := mongoLayout{ID: meta.ID, Filename: meta.Filename, CreatedAt: meta.CreatedAt, Elements: records}
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "insert layout")
	}

	s.opts.logger.Debug("saved layout", "backend", BackendMongo, "id", meta.ID, "elements", len(records))
	return summarize(meta, s.path(meta.ID)), nil
}

func (s *MongoStore) Latest(ctx context.Context) (*layoutio.Document, error) {
	return s.findOne(ctx, bson.D{}, "latest")
}

func (s *MongoStore) Get(ctx context.Context, name string) (*layoutio.Document, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if IsLatest(name) {
		return s.Latest(ctx)
	}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "filename", Value: name}},
		bson.D{{Key: "_id", Value: name}},
	}}}
	return s.findOne(ctx, filter, name)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D, name string) (*layoutio.Document, error) {
	var m mongoLayout
	err := s.coll.FindOne(ctx, filter, options.FindOne().SetSort(newestFirst)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		if name == "latest" {
			return nil, ErrNotFound
		}
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find layout %s", name)
	}
	return m.document(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]layoutio.Summary, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetProjection(bson.D{{Key: "elements", Value: 0}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list layouts")
	}

	var ms []mongoLayout
	if err := cur.All(ctx, &ms); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode layouts")
	}

	out := make([]layoutio.Summary, len(ms))
	for i, m := range ms {
		out[i] = summarize(m.metadata(), s.path(m.ID))
	}
	sortSummaries(out)
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) path(id string) string {
	return "mongodb://" + s.coll.Database().Name() + "/" + s.coll.Name() + "/" + id
}

var _ Store = (*MongoStore)(nil)
