package rag

import (
	"context"
	"fmt"
	"log"

	"github.com/qdrant/go-client/qdrant"
)

var _ VectorStore = &QdrantStore{}

type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

func NewQdrantStore(host string, port int, collection string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, err
	}
	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

func (s *QdrantStore) Init(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if !exists {
		if err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: &qdrant.VectorsConfig{
				Config: &qdrant.VectorsConfig_Params{
					Params: &qdrant.VectorParams{
						Size:     uint64(vectorSize),
						Distance: qdrant.Distance_Cosine,
					},
				},
			},
		}); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}
	return nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) Add(ctx context.Context, doc VectorDoc) error {
	existing, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(doc.ID)},
	})
	if err == nil && len(existing) > 0 {
		log.Printf("♻️ Vector id %s already present in %s, overwriting", doc.ID, s.collection)
	}

	payload := map[string]any{
		"text": doc.Content,
	}
	for k, v := range doc.Metadata {
		payload[k] = v
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}},
	})

	return err
}

func (s *QdrantStore) Query(ctx context.Context, vector []float32, k int) ([]VectorDoc, error) {
	limit := uint64(k)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	var out []VectorDoc

	for _, r := range resp {
		md := make(map[string]any)
		for key, v := range r.Payload {
			md[key] = convertQdrantValue(v)
		}

		content := ""
		if val, ok := md["text"]; ok {
			content = fmt.Sprintf("%v", val)
		}

		var id string
		if r.Id != nil {
			switch x := r.Id.PointIdOptions.(type) {
			case *qdrant.PointId_Uuid:
				id = x.Uuid
			case *qdrant.PointId_Num:
				id = fmt.Sprintf("%d", x.Num)
			}
		}

		out = append(out, VectorDoc{
			ID:       id,
			Content:  content,
			Metadata: md,
			Score:    r.Score,
		})
	}

	return out, nil
}

func (s *QdrantStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDUUID(id)),
	})
	return err
}

func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	return s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
}

func convertQdrantValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {

	case *qdrant.Value_BoolValue:
		return val.BoolValue

	case *qdrant.Value_IntegerValue:
		return val.IntegerValue

	case *qdrant.Value_DoubleValue:
		return val.DoubleValue

	case *qdrant.Value_StringValue:
		return val.StringValue

	case *qdrant.Value_NullValue:
		return nil

	case *qdrant.Value_ListValue:
		out := make([]any, len(val.ListValue.Values))
		for i, lv := range val.ListValue.Values {
			out[i] = convertQdrantValue(lv)
		}
		return out

	case *qdrant.Value_StructValue:
		out := make(map[string]any)
		for k, nv := range val.StructValue.Fields {
			out[k] = convertQdrantValue(nv)
		}
		return out
	}

	return nil
}
