// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBOptions locates the collection that keeps run documents
type MongoDBOptions struct {
	ConnectionString string        `yaml:"connection_string" json:"connection_string"`
	Database         string        `yaml:"database" json:"database"`
	Collection       string        `yaml:"collection" json:"collection"`
	Timeout          time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Validate checks the options before connecting.
func (o MongoDBOptions) Validate() error {
	if o.ConnectionString == "" {
		return fmt.Errorf("MongoDB connection string is required")
	}
	if !strings.HasPrefix(o.ConnectionString, "mongodb://") && !strings.HasPrefix(o.ConnectionString, "mongodb+srv://") {
		return fmt.Errorf("MongoDB connection string must start with mongodb:// or mongodb+srv://")
	}
	if o.Database == "" {
		return fmt.Errorf("MongoDB database name is required")
	}
	if o.Collection == "" {
		return fmt.Errorf("MongoDB collection name is required")
	}
	if strings.ContainsAny(o.Collection, "$\x00") || strings.HasPrefix(o.Collection, "system.") {
		return fmt.Errorf("invalid MongoDB collection name: %s", o.Collection)
	}
	return nil
}

// MongoDBWriter stores one document per run, with its cases embedded
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoDBWriter connects and pings the server.
func NewMongoDBWriter(ctx context.Context, opts MongoDBOptions) (*MongoDBWriter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.ConnectionString).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDBWriter{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
		timeout:    opts.Timeout,
	}, nil
}

func (w *MongoDBWriter) Name() string { return SinkMongoDB }

// runDocument builds the stored document. The run id is the _id, so
// writing the same run twice fails instead of duplicating it.
func runDocument(r *Report) bson.D {
	cases := make(bson.A, 0, len(r.Cases))
	for _, c := range r.Cases {
		cases = append(cases, bson.D{
			{Key: "module", Value: c.Module},
			{Key: "name", Value: c.Name},
			{Key: "status", Value: string(c.Status)},
			{Key: "tags", Value: c.Tags},
			{Key: "start", Value: c.Start},
			{Key: "duration_ms", Value: c.Duration.Milliseconds()},
			{Key: "failures", Value: c.Failures},
			{Key: "error", Value: c.Error},
			{Key: "screenshot", Value: c.Screenshot},
			{Key: "steps", Value: c.Steps},
			{Key: "click_attempts", Value: c.ClickAttempts},
			{Key: "forced_clicks", Value: c.ForcedClicks},
		})
	}
	meta := make(bson.D, 0, len(r.Metadata))
	for _, f := range r.Metadata {
		meta = append(meta, bson.E{Key: f.Key, Value: f.Value})
	}
	counts := make(bson.D, 0, len(r.Counts))
	for _, st := range []string{"passed", "failed", "errored", "skipped"} {
		counts = append(counts, bson.E{Key: st, Value: r.Counts[st]})
	}
	return bson.D{
		{Key: "_id", Value: r.RunID},
		{Key: "title", Value: r.Title},
		{Key: "start", Value: r.Start},
		{Key: "end", Value: r.End},
		{Key: "duration_ms", Value: r.Duration().Milliseconds()},
		{Key: "passed", Value: r.Passed()},
		{Key: "metadata", Value: meta},
		{Key: "environment", Value: bson.D{
			{Key: "browser", Value: r.Environment.Browser},
			{Key: "headless", Value: r.Environment.Headless},
			{Key: "base_url", Value: r.Environment.BaseURL},
			{Key: "go_version", Value: r.Environment.GoVersion},
			{Key: "os", Value: r.Environment.OS},
		}},
		{Key: "counts", Value: counts},
		{Key: "cases", Value: cases},
	}
}

func (w *MongoDBWriter) Write(ctx context.Context, r *Report) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if _, err := w.collection.InsertOne(ctx, runDocument(r)); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.RunID, err)
	}
	return nil
}

func (w *MongoDBWriter) Close() error {
	if w.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	err := w.client.Disconnect(ctx)
	w.client = nil
	return err
}
