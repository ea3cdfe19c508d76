package index

import "fmt"

// EmbeddingBatchError 表示某个 Embedding 批次处理失败。
// 该批次被跳过，入库流程继续处理剩余批次；操作者需要对失败批次重新执行入库。
type EmbeddingBatchError struct {
	Batch int // 批次序号（从 0 开始）
	Size  int // 批次包含的记录数
	Err   error
}

func (e *EmbeddingBatchError) Error() string {
	return fmt.Sprintf("embedding batch %d (%d records) failed: %v", e.Batch, e.Size, e.Err)
}

func (e *EmbeddingBatchError) Unwrap() error {
	return e.Err
}

// IndexLoadError 表示磁盘上的索引文件不可读或格式版本不匹配。
// 该错误在启动时是致命的，服务绝不允许带着不完整的索引对外提供检索。
type IndexLoadError struct {
	Path string
	Err  error
}

func (e *IndexLoadError) Error() string {
	return fmt.Sprintf("failed to load index from %s: %v", e.Path, e.Err)
}

func (e *IndexLoadError) Unwrap() error {
	return e.Err
}
