// Package qdrant provides a VectorStore adapter backed by a Qdrant
// collection reached over gRPC.
package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultAddr       = "localhost:6334"
	DefaultCollection = "recall_observations"
)

// Config holds configuration for the Qdrant vector store.
type Config struct {
	// Addr is the Qdrant gRPC address (default: localhost:6334).
	Addr string

	// Collection is the collection name (default: recall_observations).
	Collection string

	// Dimensions is the vector size; must match the embedding model.
	Dimensions int
}

// Store persists observation vectors in a Qdrant collection.
// Point ids are observation ids, so upserts are idempotent per observation.
type Store struct {
	conn        *grpc.ClientConn
	collections pb.CollectionsClient
	points      pb.PointsClient
	qdrant      pb.QdrantClient
	collection  string
	dimensions  int
}

// NewStore connects to Qdrant and returns a store for the configured
// collection. The connection is lazy; use Ping to verify reachability
// and EnsureCollection to create the collection before first use.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive, got %d", cfg.Dimensions)
	}

	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect to %s: %w", cfg.Addr, err)
	}

	return &Store{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
		qdrant:      pb.NewQdrantClient(conn),
		collection:  cfg.Collection,
		dimensions:  cfg.Dimensions,
	}, nil
}

// EnsureCollection creates the collection if it does not exist yet.
func (s *Store) EnsureCollection(ctx context.Context) error {
	existing, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	for _, col := range existing.GetCollections() {
		if col.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(s.dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert inserts or replaces points keyed by observation id.
func (s *Store) Upsert(ctx context.Context, points []driven.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		structs[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(p.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: p.Vector},
				},
			},
			Payload: toPayload(p.Payload),
		}
	}

	// Wait for the write to be applied so a reported sync is durable.
	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search finds the limit nearest neighbours to the query vector.
func (s *Store) Search(ctx context.Context, query []float32, limit int) ([]driven.VectorHit, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         query,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hits = append(hits, driven.VectorHit{
			ID:      int64(point.GetId().GetNum()),
			Score:   float64(point.GetScore()),
			Payload: fromPayload(point.GetPayload()),
		})
	}
	return hits, nil
}

// Delete removes points by observation id.
func (s *Store) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*pb.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = &pb.PointId{
			PointIdOptions: &pb.PointId_Num{Num: uint64(id)},
		}
	}

	wait := true
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete %d points: %w", len(ids), err)
	}
	return nil
}

// Ping validates the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.qdrant.HealthCheck(ctx, &pb.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

// Collection returns the collection name.
func (s *Store) Collection() string {
	return s.collection
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// toPayload converts a string map to the Qdrant payload format.
func toPayload(m map[string]string) map[string]*pb.Value {
	if len(m) == 0 {
		return nil
	}
	payload := make(map[string]*pb.Value, len(m))
	for k, v := range m {
		payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
	}
	return payload
}

// fromPayload converts a Qdrant payload back to a string map.
// Non-string values are dropped; the store only writes strings.
func fromPayload(payload map[string]*pb.Value) map[string]string {
	if len(payload) == 0 {
		return nil
	}
	m := make(map[string]string, len(payload))
	for k, v := range payload {
		if s := v.GetStringValue(); s != "" {
			m[k] = s
		}
	}
	return m
}
