package index

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bytebites/caigentan/internal/core/catalog"
)

// FormatVersion 是索引文件的磁盘格式版本。
// 版本不一致时 Load 必须失败，绝不静默加载部分索引。
const FormatVersion = 1

// Store 是相似度索引的存储接口。
// 实现必须支持并发只读检索；写入只发生在离线入库流程中。
type Store interface {
	// Add 按入库顺序追加一批记录。向量维度必须与已有记录一致。
	Add(ctx context.Context, entries []Entry) error

	// Search 返回与查询向量相似度最高的 k 条记录（降序）。
	// 相似度相同的记录按原始入库顺序稳定排序。k=0 返回空切片。
	Search(ctx context.Context, vector []float32, k int) ([]Scored, error)

	// Count 返回索引中的记录总数
	Count(ctx context.Context) (int, error)
}

// MemoryStore 是内存态的余弦相似度索引，支持持久化到本地文件并在启动时重新加载。
// 向量已归一化，检索用暴力点积实现，对几千条餐厅记录足够快。
type MemoryStore struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	records []*catalog.RestaurantRecord
}

// NewMemoryStore 创建一个空的内存索引
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add 追加一批记录。合并满足结合律：入库顺序不影响检索结果集，
// 只影响相同相似度时的排序先后。
func (s *MemoryStore) Add(_ context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.Record == nil {
			return fmt.Errorf("entry record is nil")
		}
		if s.dim == 0 {
			s.dim = len(e.Vector)
		}
		if len(e.Vector) != s.dim {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(e.Vector), s.dim)
		}
	}

	for _, e := range entries {
		s.records = append(s.records, e.Record)
		s.vectors = append(s.vectors, e.Vector)
	}
	return nil
}

// Search 暴力计算点积并返回 top-k
func (s *MemoryStore) Search(_ context.Context, vector []float32, k int) ([]Scored, error) {
	if k < 0 {
		return nil, fmt.Errorf("k must be non-negative, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k == 0 || len(s.vectors) == 0 {
		return []Scored{}, nil
	}
	if s.dim != len(vector) {
		return nil, fmt.Errorf("query vector dimension mismatch: got %d, want %d", len(vector), s.dim)
	}

	type scoredIdx struct {
		idx   int
		score float64
	}
	scored := make([]scoredIdx, len(s.vectors))
	for i, v := range s.vectors {
		scored[i] = scoredIdx{idx: i, score: dot(v, vector)}
	}

	// 得分降序，得分相同按入库顺序
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	if k > len(scored) {
		k = len(scored)
	}
	results := make([]Scored, 0, k)
	for _, sc := range scored[:k] {
		results = append(results, Scored{Record: s.records[sc.idx], Score: sc.score})
	}
	return results, nil
}

// Count 返回索引中的记录总数
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// persistedVectors 是向量文件的磁盘格式
type persistedVectors struct {
	Version   int
	Dimension int
	Vectors   [][]float32
}

// persistedRecords 是记录元数据文件的磁盘格式
type persistedRecords struct {
	Version int                         `json:"version"`
	Records []*catalog.RestaurantRecord `json:"records"`
}

// vectorFile / metaFile 拼出 路径/名称 对应的两个索引文件
func vectorFile(dir, name string) string { return filepath.Join(dir, name+".vec") }
func metaFile(dir, name string) string   { return filepath.Join(dir, name+".meta.json") }

// Persist 把索引写入 dir 目录下名为 name 的文件对
// （<name>.vec 保存向量，<name>.meta.json 保存记录元数据）。
func (s *MemoryStore) Persist(dir, name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	vf, err := os.Create(vectorFile(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create vector file: %w", err)
	}
	defer vf.Close()

	if err := gob.NewEncoder(vf).Encode(persistedVectors{
		Version:   FormatVersion,
		Dimension: s.dim,
		Vectors:   s.vectors,
	}); err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}

	mf, err := os.Create(metaFile(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer mf.Close()

	if err := json.NewEncoder(mf).Encode(persistedRecords{
		Version: FormatVersion,
		Records: s.records,
	}); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	return nil
}

// LoadMemoryStore 从磁盘重新加载索引。文件缺失、版本不匹配、
// 或向量数与记录数不一致时返回 IndexLoadError。
func LoadMemoryStore(dir, name string) (*MemoryStore, error) {
	vf, err := os.Open(vectorFile(dir, name))
	if err != nil {
		return nil, &IndexLoadError{Path: vectorFile(dir, name), Err: err}
	}
	defer vf.Close()

	var vectors persistedVectors
	if err := gob.NewDecoder(vf).Decode(&vectors); err != nil {
		return nil, &IndexLoadError{Path: vectorFile(dir, name), Err: err}
	}
	if vectors.Version != FormatVersion {
		return nil, &IndexLoadError{
			Path: vectorFile(dir, name),
			Err:  fmt.Errorf("format version mismatch: got %d, want %d", vectors.Version, FormatVersion),
		}
	}

	mf, err := os.Open(metaFile(dir, name))
	if err != nil {
		return nil, &IndexLoadError{Path: metaFile(dir, name), Err: err}
	}
	defer mf.Close()

	var records persistedRecords
	if err := json.NewDecoder(mf).Decode(&records); err != nil {
		return nil, &IndexLoadError{Path: metaFile(dir, name), Err: err}
	}
	if records.Version != FormatVersion {
		return nil, &IndexLoadError{
			Path: metaFile(dir, name),
			Err:  fmt.Errorf("format version mismatch: got %d, want %d", records.Version, FormatVersion),
		}
	}

	if len(records.Records) != len(vectors.Vectors) {
		return nil, &IndexLoadError{
			Path: metaFile(dir, name),
			Err:  fmt.Errorf("record count %d does not match vector count %d", len(records.Records), len(vectors.Vectors)),
		}
	}

	return &MemoryStore{
		dim:     vectors.Dimension,
		vectors: vectors.Vectors,
		records: records.Records,
	}, nil
}

// 接口实现确认
var _ Store = (*MemoryStore)(nil)
