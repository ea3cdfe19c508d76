package preference

import (
	"github.com/samber/mo"
)

// Dimension 是偏好评分维度的英文规范键。
// Web 端表单采集的英文键 schema 是规范 schema；
// CLI 采集的 8 维中文画像在采集/加载时映射到这里（见 migrate.go）。
type Dimension string

const (
	DimValueForMoney Dimension = "valueForMoney"
	DimHygiene       Dimension = "hygiene"
	DimEnvironment   Dimension = "environment"
	DimDistance      Dimension = "distance"
	DimWaitTime      Dimension = "waitTime"
	DimService       Dimension = "service"
	DimTaste         Dimension = "taste"
	DimHealth        Dimension = "health"
	DimNutrition     Dimension = "nutrition"
	DimSpiciness     Dimension = "spiciness"
)

// Dimensions 按渲染顺序列出全部评分维度
var Dimensions = []Dimension{
	DimValueForMoney,
	DimHygiene,
	DimEnvironment,
	DimDistance,
	DimWaitTime,
	DimService,
	DimTaste,
	DimHealth,
	DimNutrition,
	DimSpiciness,
}

// dimensionLabels 是各维度的中文展示名
var dimensionLabels = map[Dimension]string{
	DimValueForMoney: "性价比",
	DimHygiene:       "卫生",
	DimEnvironment:   "环境",
	DimDistance:      "距离",
	DimWaitTime:      "排队时间",
	DimService:       "服务",
	DimTaste:         "口味",
	DimHealth:        "健康",
	DimNutrition:     "营养",
	DimSpiciness:     "辣度",
}

// Label 返回维度的中文展示名
func (d Dimension) Label() string {
	if label, ok := dimensionLabels[d]; ok {
		return label
	}
	return string(d)
}

// BudgetRange 是人均预算区间（单位：元）
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PreferenceProfile 是单个用户会话的偏好画像。
// 评分维度缺失表示"没有意见"，与"主动打低分"是不同的状态，
// 因此评分只在用户明确设置后才写入 Ratings。
type PreferenceProfile struct {
	UserID string `json:"userID"`

	// Ratings 保存已设置的维度评分（0-5 分），未设置的维度不出现在 map 中
	Ratings map[Dimension]int `json:"ratings"`

	// Budget 是可选的预算区间
	Budget mo.Option[BudgetRange] `json:"budget"`

	Allergies string `json:"allergies"`
	Likes     string `json:"likes"`
	Dislikes  string `json:"dislikes"`

	PreferredCuisines   []string `json:"preferredCuisines"`
	DislikedCuisines    []string `json:"dislikedCuisines"`
	SpecialRequirements string   `json:"specialRequirements"`
}

// NewProfile 创建一个空的偏好画像
func NewProfile(userID string) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:  userID,
		Ratings: make(map[Dimension]int),
	}
}

// Score 返回某个维度的评分；未设置时返回 None 而不是 0
func (p *PreferenceProfile) Score(d Dimension) mo.Option[int] {
	if p.Ratings == nil {
		return mo.None[int]()
	}
	if score, ok := p.Ratings[d]; ok {
		return mo.Some(score)
	}
	return mo.None[int]()
}

// SetScore 设置某个维度的评分
func (p *PreferenceProfile) SetScore(d Dimension, score int) {
	if p.Ratings == nil {
		p.Ratings = make(map[Dimension]int)
	}
	p.Ratings[d] = score
}

// IsEmpty 判断画像是否没有任何有效内容
func (p *PreferenceProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.Ratings) == 0 &&
		p.Budget.IsAbsent() &&
		p.Allergies == "" &&
		p.Likes == "" &&
		p.Dislikes == "" &&
		len(p.PreferredCuisines) == 0 &&
		len(p.DislikedCuisines) == 0 &&
		p.SpecialRequirements == ""
}
