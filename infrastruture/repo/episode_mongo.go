package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-chase/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// episodeDocument is the BSON shape of an EpisodeResult.
type episodeDocument struct {
	ID          string    `bson:"_id"`
	SessionID   string    `bson:"sessionId"`
	MapSeed     int64     `bson:"mapSeed"`
	Outcome     string    `bson:"outcome"`
	SurvivalMs  int64     `bson:"survivalMs"`
	AvgDistance float64   `bson:"avgDistance"`
	Ticks       int       `bson:"ticks"`
	FinishedAt  time.Time `bson:"finishedAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toDocument(r *dmn.EpisodeResult) episodeDocument {
	return episodeDocument{
		ID:          r.ID.String(),
		SessionID:   r.SessionID.String(),
		MapSeed:     r.MapSeed,
		Outcome:     string(r.Outcome),
		SurvivalMs:  r.SurvivalTime.Milliseconds(),
		AvgDistance: r.AvgDistance,
		Ticks:       r.Ticks,
		FinishedAt:  r.FinishedAt,
	}
}

func (d episodeDocument) result() (dmn.EpisodeResult, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return dmn.EpisodeResult{}, err
	}
	sessionID, err := uuid.Parse(d.SessionID)
	if err != nil {
		return dmn.EpisodeResult{}, err
	}
	return dmn.EpisodeResult{
		ID:           id,
		SessionID:    sessionID,
		MapSeed:      d.MapSeed,
		Outcome:      dmn.Outcome(d.Outcome),
		SurvivalTime: time.Duration(d.SurvivalMs) * time.Millisecond,
		AvgDistance:  d.AvgDistance,
		Ticks:        d.Ticks,
		FinishedAt:   d.FinishedAt,
	}, nil
}

// MongoEpisodeRepo handles the persistence of episode results in MongoDB.
type MongoEpisodeRepo struct {
	collection *mongo.Collection
}

// NewMongoEpisodeRepo creates a repo on the given client, database name, and collection name.
func NewMongoEpisodeRepo(client *mongo.Client, dbName, collectionName string) *MongoEpisodeRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoEpisodeRepo{
		collection: collection,
	}
}

// Save inserts or replaces the result with the same ID.
func (m *MongoEpisodeRepo) Save(ctx context.Context, result *dmn.EpisodeResult) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	doc := toDocument(result)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{
		"$set": bson.M{
			"sessionId":   doc.SessionID,
			"mapSeed":     doc.MapSeed,
			"outcome":     doc.Outcome,
			"survivalMs":  doc.SurvivalMs,
			"avgDistance": doc.AvgDistance,
			"ticks":       doc.Ticks,
			"finishedAt":  doc.FinishedAt,
			"updatedAt":   time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.Join(ErrUnexpected, err)
	}
	return nil
}

// BySession returns the results of one session ordered by finish time.
func (m *MongoEpisodeRepo) BySession(ctx context.Context, sessionID uuid.UUID) ([]dmn.EpisodeResult, error) {
	return m.find(ctx, bson.M{"sessionId": sessionID.String()})
}

// All returns every result ordered by finish time.
func (m *MongoEpisodeRepo) All(ctx context.Context) ([]dmn.EpisodeResult, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoEpisodeRepo) find(ctx context.Context, filter bson.M) ([]dmn.EpisodeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: 1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Join(ErrUnexpected, err)
	}
	defer cursor.Close(ctx)

	var docs []episodeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrUnexpected, err)
	}

	results := make([]dmn.EpisodeResult, 0, len(docs))
	for _, d := range docs {
		r, err := d.result()
		if err != nil {
			return nil, errors.Join(ErrUnexpected, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Close disconnects the underlying client.
func (m *MongoEpisodeRepo) Close(ctx context.Context) error {
	return m.collection.Database().Client().Disconnect(ctx)
}
