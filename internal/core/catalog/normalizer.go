package catalog

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// NormalizeStats 是一次规范化运行的统计信息
type NormalizeStats struct {
	Total      int // 输入行数
	Normalized int // 成功规范化的记录数
	Dropped    int // 因校验失败被丢弃的行数
	Duplicates int // 因标识重复被丢弃的行数
	MedianCost float64
}

// Normalizer 将原始餐厅数据行转换为规范化的 RestaurantRecord
type Normalizer struct {
	logger *slog.Logger
}

type normalizerOptions struct {
	logger *slog.Logger
}

// NormalizerOption 是 Normalizer 的选项设置
type NormalizerOption func(*normalizerOptions)

// WithNormalizerLogger 设置 Normalizer 使用的日志器
func WithNormalizerLogger(logger *slog.Logger) NormalizerOption {
	return func(o *normalizerOptions) {
		o.logger = logger
	}
}

// NewNormalizer 创建一个新的 Normalizer
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	options := normalizerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	return &Normalizer{logger: options.logger}
}

// NormalizeAll 规范化整个数据集：先计算人均消费的数据集中位数，
// 再逐行规范化并按标识去重（保留首次出现的记录）。
// 校验失败的行记录警告日志后丢弃，不会中断整体流程。
func (n *Normalizer) NormalizeAll(rows []RawRow) ([]*RestaurantRecord, NormalizeStats) {
	stats := NormalizeStats{Total: len(rows)}
	stats.MedianCost = medianCost(rows)

	seen := make(map[string]struct{}, len(rows))
	records := make([]*RestaurantRecord, 0, len(rows))

	for i, row := range rows {
		record, err := n.Normalize(row, stats.MedianCost)
		if err != nil {
			stats.Dropped++
			n.logger.Warn("丢弃无效的餐厅记录", "row", i, "error", err)
			continue
		}
		if _, ok := seen[record.ID]; ok {
			stats.Duplicates++
			continue
		}
		seen[record.ID] = struct{}{}
		records = append(records, record)
		stats.Normalized++
	}

	return records, stats
}

// Normalize 规范化单行数据。名称为空的行返回 ValidationError。
// medianCost 用于填充缺失的人均消费字段。
func (n *Normalizer) Normalize(row RawRow, medianCost float64) (*RestaurantRecord, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is empty"}
	}

	cost := medianCost
	if v, err := strconv.ParseFloat(strings.TrimSpace(row.Cost), 64); err == nil {
		cost = v
	}
	rating := 0.0
	if v, err := strconv.ParseFloat(strings.TrimSpace(row.Rating), 64); err == nil {
		rating = v
	}

	return &RestaurantRecord{
		ID:            RecordID(name, row.Address),
		Name:          name,
		Address:       strings.TrimSpace(row.Address),
		Type:          strings.TrimSpace(row.Type),
		Tag:           strings.TrimSpace(row.Tag),
		Cost:          cost,
		Rating:        rating,
		CanonicalText: buildCanonicalText(row),
		Metadata:      buildMetadata(row),
	}, nil
}

// buildCanonicalText 按固定字段顺序将非空字段拼接为 "field=value" 形式的描述文本，
// 之后追加评分信息、推荐菜、评论关键词和精选评论段落。
// 精选评论原始数据以竖线分隔，拆分为独立行。
func buildCanonicalText(row RawRow) string {
	contentFields := []struct{ key, value string }{
		{"name", row.Name},
		{"address", row.Address},
		{"type", row.Type},
		{"tag", row.Tag},
		{"cost", row.Cost},
		{"rating", row.Rating},
		{"opentime_today", row.OpenTimeToday},
		{"opentime_week", row.OpenTimeWeek},
	}
	ratingFields := []struct{ key, value string }{
		{"dp_rating", row.DPRating},
		{"dp_taste_rating", row.DPTasteRating},
		{"dp_env_rating", row.DPEnvRating},
		{"dp_service_rating", row.DPServiceRating},
		{"dp_comment_num", row.DPCommentNum},
	}

	var parts []string
	for _, f := range contentFields {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, f.key+"="+v)
		}
	}

	var ratingInfo []string
	for _, f := range ratingFields {
		if v := strings.TrimSpace(f.value); v != "" {
			ratingInfo = append(ratingInfo, f.key+"="+v)
		}
	}
	if len(ratingInfo) > 0 {
		parts = append(parts, "评分信息:\n"+strings.Join(ratingInfo, "\n"))
	}

	if v := strings.TrimSpace(row.DPRecommendationDish); v != "" {
		parts = append(parts, "推荐菜: "+v)
	}
	if v := strings.TrimSpace(row.DPCommentKeywords); v != "" {
		parts = append(parts, "评论关键词: "+v)
	}
	if v := strings.TrimSpace(row.DPTop3Comments); v != "" {
		parts = append(parts, "精选评论:\n"+strings.ReplaceAll(v, "|", "\n"))
	}

	return strings.Join(parts, "\n")
}

// buildMetadata 抽取检索结果展示所需的附加字段，空值不落入 metadata
func buildMetadata(row RawRow) map[string]string {
	fields := map[string]string{
		"location":          row.Location,
		"tel":               row.Tel,
		"opentime_week":     row.OpenTimeWeek,
		"dp_cost":           row.DPCost,
		"dp_rating":         row.DPRating,
		"dp_taste_rating":   row.DPTasteRating,
		"dp_env_rating":     row.DPEnvRating,
		"dp_service_rating": row.DPServiceRating,
		"dp_comment_num":    row.DPCommentNum,
	}
	metadata := make(map[string]string, len(fields))
	for k, v := range fields {
		if v := strings.TrimSpace(v); v != "" {
			metadata[k] = v
		}
	}
	return metadata
}

// medianCost 计算数据集中可解析的 cost 字段的中位数。
// 没有任何可解析值时返回 0。
func medianCost(rows []RawRow) float64 {
	var costs []float64
	for _, row := range rows {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.Cost), 64); err == nil {
			costs = append(costs, v)
		}
	}
	if len(costs) == 0 {
		return 0
	}
	sort.Float64s(costs)
	mid := len(costs) / 2
	if len(costs)%2 == 0 {
		return (costs[mid-1] + costs[mid]) / 2
	}
	return costs[mid]
}
