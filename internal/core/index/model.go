package index

import (
	"github.com/bytebites/caigentan/internal/core/catalog"
)

// Entry 是相似度索引中的一条记录：规范化餐厅记录与其 Embedding 向量一一对应。
// 向量已做 L2 归一化，余弦相似度退化为点积。
type Entry struct {
	Record *catalog.RestaurantRecord
	Vector []float32
}

// Scored 是检索返回的带相似度得分的记录
type Scored struct {
	Record *catalog.RestaurantRecord
	Score  float64
}

// IngestResult 是一次批量入库的结果。
// 失败的批次被跳过并记录在 FailedBatches 中，不影响已合并的索引状态。
type IngestResult struct {
	Indexed       int
	FailedBatches []*EmbeddingBatchError
}
