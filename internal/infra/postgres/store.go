// Package postgres 提供基于 pgvector 的相似度索引实现，
// 用于数据量超出单机内存索引承载能力的部署。
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/bytebites/caigentan/internal/core/catalog"
	"github.com/bytebites/caigentan/internal/core/index"
)

// Store 把餐厅向量保存在 PostgreSQL 的 pgvector 列中。
// 向量已做 L2 归一化，用内积距离实现余弦相似度检索；
// 相似度相同的记录按入库顺序返回。
type Store struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewStore 创建一个新的 Store
func NewStore(pool *pgxpool.Pool, dimension int) *Store {
	return &Store{pool: pool, dimension: dimension}
}

// EnsureSchema 创建扩展和数据表（如不存在）
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS restaurant_vectors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			tag TEXT NOT NULL DEFAULT '',
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			canonical_text TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d) NOT NULL,
			position BIGSERIAL
		)`, s.dimension),
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// Add 批量写入索引条目，同一记录标识后写覆盖
func (s *Store) Add(ctx context.Context, entries []index.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		if len(entry.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(entry.Vector), s.dimension)
		}

		metadata, err := json.Marshal(entry.Record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode record metadata: %w", err)
		}

		batch.Queue(`
			INSERT INTO restaurant_vectors (id, name, address, type, tag, cost, rating, canonical_text, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				type = EXCLUDED.type,
				tag = EXCLUDED.tag,
				cost = EXCLUDED.cost,
				rating = EXCLUDED.rating,
				canonical_text = EXCLUDED.canonical_text,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding`,
			entry.Record.ID,
			entry.Record.Name,
			entry.Record.Address,
			entry.Record.Type,
			entry.Record.Tag,
			entry.Record.Cost,
			entry.Record.Rating,
			entry.Record.CanonicalText,
			metadata,
			pgvector.NewVector(entry.Vector),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert index entry: %w", err)
		}
	}
	return nil
}

// Search 返回与查询向量相似度最高的 k 条记录（降序）
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]index.Scored, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: got %d, want %d", len(vector), s.dimension)
	}
	if k <= 0 {
		return []index.Scored{}, nil
	}

	// <#> 是负内积距离，取负还原为内积相似度
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, address, type, tag, cost, rating, canonical_text, metadata,
		       -(embedding <#> $1) AS score
		FROM restaurant_vectors
		ORDER BY embedding <#> $1 ASC, position ASC
		LIMIT $2`,
		pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	var results []index.Scored
	for rows.Next() {
		var (
			record   catalog.RestaurantRecord
			metadata []byte
			score    float64
		)
		if err := rows.Scan(
			&record.ID, &record.Name, &record.Address, &record.Type, &record.Tag,
			&record.Cost, &record.Rating, &record.CanonicalText, &metadata, &score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode record metadata: %w", err)
			}
		}
		results = append(results, index.Scored{Record: &record, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}

	if results == nil {
		results = []index.Scored{}
	}
	return results, nil
}

// Count 返回索引中的记录数
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurant_vectors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return count, nil
}

// 接口实现检查
var _ index.Store = (*Store)(nil)
