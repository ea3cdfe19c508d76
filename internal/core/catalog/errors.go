package catalog

import "fmt"

// ValidationError 表示原始记录缺失必要字段或字段格式非法。
// 该类错误只导致单条记录被丢弃，规范化流程继续处理后续记录。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: field %q %s", e.Field, e.Reason)
}
