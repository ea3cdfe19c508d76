package preference

import (
	"github.com/samber/mo"
)

// LegacyProfile 是 CLI 流程采集的 8 维中文键画像（历史 schema）。
// 规范 schema 是 Web 端的英文键 schema；本类型只用于加载旧数据并迁移。
type LegacyProfile struct {
	Environment     int `json:"环境"`
	Taste           int `json:"口味"`
	Service         int `json:"服务"`
	CostPerformance int `json:"性价比"`
	Hygiene         int `json:"卫生"`
	Health          int `json:"营养健康"`
	WaitingTime     int `json:"排队时间"`
	Distance        int `json:"距离"`

	PreferredCuisines   []string  `json:"偏好菜系"`
	DislikedCuisines    []string  `json:"不喜欢的菜系"`
	BudgetRange         []float64 `json:"预算范围"`
	SpecialRequirements string    `json:"特殊要求"`
}

// legacyDimensions 定义中文键维度到规范维度的映射。
// 旧 schema 的"营养健康"对应规范 schema 的 nutrition；
// health 与 spiciness 是 Web 表单新增维度，旧画像中不存在。
var legacyDimensions = []struct {
	score func(*LegacyProfile) int
	dim   Dimension
}{
	{func(l *LegacyProfile) int { return l.CostPerformance }, DimValueForMoney},
	{func(l *LegacyProfile) int { return l.Hygiene }, DimHygiene},
	{func(l *LegacyProfile) int { return l.Environment }, DimEnvironment},
	{func(l *LegacyProfile) int { return l.Distance }, DimDistance},
	{func(l *LegacyProfile) int { return l.WaitingTime }, DimWaitTime},
	{func(l *LegacyProfile) int { return l.Service }, DimService},
	{func(l *LegacyProfile) int { return l.Taste }, DimTaste},
	{func(l *LegacyProfile) int { return l.Health }, DimNutrition},
}

// Migrate 把历史画像转换为规范画像。
// 旧 CLI 的评分范围是 1-5 分，0 表示该维度未设置，迁移时保持"未设置"状态。
func (l *LegacyProfile) Migrate(userID string) *PreferenceProfile {
	p := NewProfile(userID)

	for _, m := range legacyDimensions {
		if score := m.score(l); score > 0 {
			p.SetScore(m.dim, score)
		}
	}

	if len(l.BudgetRange) >= 2 {
		p.Budget = mo.Some(BudgetRange{Min: l.BudgetRange[0], Max: l.BudgetRange[1]})
	}

	p.PreferredCuisines = l.PreferredCuisines
	p.DislikedCuisines = l.DislikedCuisines
	if l.SpecialRequirements != "" && l.SpecialRequirements != "无" {
		p.SpecialRequirements = l.SpecialRequirements
	}

	return p
}
