package pgvec

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docuchat-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentChunk is the storage model for one embedded chunk.
type DocumentChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Collection string          `gorm:"type:text;not null;index"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex int             `gorm:"default:0"`
	Content    string          `gorm:"type:text"`
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// Store implements vectorstore.VectorStore on Postgres + pgvector.
type Store struct {
	db *gorm.DB
}

var _ vectorstore.VectorStore = &Store{}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&DocumentChunk{}); err != nil {
		return nil, fmt.Errorf("migrate document_chunks: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, chunks []vectorstore.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks/embeddings length mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		metaJson, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return err
		}
		models = append(models, &DocumentChunk{
			Id:         uuid.New(),
			Collection: collection,
			DocumentId: chunk.DocumentId,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Text,
			Metadata:   datatypes.JSON(metaJson),
			Embedding:  pgvector.NewVector(embeddings[i]),
		})
	}

	return s.db.WithContext(ctx).Create(models).Error
}

func (s *Store) Search(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]vectorstore.Passage, error) {
	if topK <= 0 {
		topK = 5
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&DocumentChunk{}).
		Where("collection = ?", collection).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, vectorstore.ErrCollectionNotFound
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so the score
	// reported back is 1 - (embedding <=> query).
	type result struct {
		DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(queryEmbedding)
	err := s.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("collection = ?", collection).
		Order("similarity DESC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	passages := make([]vectorstore.Passage, 0, len(results))
	for _, res := range results {
		var metadata map[string]interface{}
		if len(res.Metadata) > 0 {
			// Metadata is best effort on the way out; a corrupt blob
			// should not sink the whole search.
			_ = json.Unmarshal(res.Metadata, &metadata)
		}
		passages = append(passages, vectorstore.Passage{
			Text:     res.Content,
			Metadata: metadata,
			Score:    res.Similarity,
		})
	}
	return passages, nil
}

func (s *Store) DeleteByDocument(ctx context.Context, collection string, documentId uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, documentId).
		Delete(&DocumentChunk{}).Error
}

func (s *Store) DropCollection(ctx context.Context, collection string) error {
	return s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Delete(&DocumentChunk{}).Error
}
