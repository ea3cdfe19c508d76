package catalog

import (
	"strings"
)

// RawRow 表示从原始数据集（CSV 抓取结果）中读入的一行餐厅数据。
// 除 Name 外的字段都可能缺失，缺失值以空字符串表示，数值解析由 Normalizer 负责。
type RawRow struct {
	Name          string
	Address       string
	Type          string
	Tag           string
	Cost          string
	Rating        string
	OpenTimeToday string
	OpenTimeWeek  string
	Tel           string
	Location      string

	DPCost               string
	DPRating             string
	DPTasteRating        string
	DPEnvRating          string
	DPServiceRating      string
	DPCommentNum         string
	DPRecommendationDish string
	DPCommentKeywords    string
	DPTop3Comments       string
}

// RestaurantRecord 表示规范化后的餐厅记录。规范化完成后不可变。
type RestaurantRecord struct {
	ID      string // name+address 复合标识，用于去重
	Name    string
	Address string
	Type    string
	Tag     string
	Cost    float64 // 人均消费，缺失时以数据集中位数填充
	Rating  float64

	// CanonicalText 是由全部非空字段拼接成的描述文本，作为 Embedding 的输入
	CanonicalText string

	// Metadata 保存检索结果展示用的附加字段（位置、营业时间、各项子评分等）
	Metadata map[string]string
}

// RecordID 根据名称和地址生成记录标识。
// 同名同址的记录视为重复记录，只保留首次出现的一条。
func RecordID(name, address string) string {
	return strings.TrimSpace(name) + "|" + strings.TrimSpace(address)
}
