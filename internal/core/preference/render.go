package preference

import (
	"fmt"
	"strings"
)

const (
	// EmptyProfileText 是画像为空时的固定回退文本
	EmptyProfileText = "未设置用户偏好"

	// unsetText 是单项缺失时的占位文本
	unsetText = "未设置"

	noneText = "无"
)

// Render 把偏好画像渲染为确定性的中文自然语言摘要。
// 渲染结果会拼进 AI 请求，因此必须是纯函数：
// 相同的画像永远产生逐字节相同的文本。
func Render(p *PreferenceProfile) string {
	if p.IsEmpty() {
		return EmptyProfileText
	}

	var sb strings.Builder

	sb.WriteString("用户偏好评分:\n")
	sb.WriteString(RenderScores(p))
	sb.WriteString("\n\n")

	sb.WriteString("预算范围: ")
	sb.WriteString(BudgetText(p))
	sb.WriteString("\n")

	sb.WriteString("过敏和忌口: ")
	sb.WriteString(orNone(p.Allergies))
	sb.WriteString("\n")
	sb.WriteString("喜欢的食物: ")
	sb.WriteString(orNone(p.Likes))
	sb.WriteString("\n")
	sb.WriteString("不喜欢的食物: ")
	sb.WriteString(orNone(p.Dislikes))
	sb.WriteString("\n")

	sb.WriteString("偏好菜系: ")
	sb.WriteString(orNone(strings.Join(p.PreferredCuisines, ", ")))
	sb.WriteString("\n")
	sb.WriteString("不喜欢的菜系: ")
	sb.WriteString(orNone(strings.Join(p.DislikedCuisines, ", ")))
	sb.WriteString("\n")

	sb.WriteString("特殊要求: ")
	sb.WriteString(orNone(p.SpecialRequirements))

	return sb.String()
}

// RenderScores 按固定维度顺序渲染已设置的评分，形如 "性价比: 4分"。
// 没有任何评分时返回 "未设置偏好"。
func RenderScores(p *PreferenceProfile) string {
	var lines []string
	for _, dim := range Dimensions {
		if score, ok := p.Score(dim).Get(); ok {
			lines = append(lines, fmt.Sprintf("%s: %d分", dim.Label(), score))
		}
	}
	if len(lines) == 0 {
		return "未设置偏好"
	}
	return strings.Join(lines, "\n")
}

// BudgetText 渲染预算区间，形如 "0-50元"；未设置时返回 "未设置"
func BudgetText(p *PreferenceProfile) string {
	budget, ok := p.Budget.Get()
	if !ok {
		return unsetText
	}
	return fmt.Sprintf("%s-%s元", formatAmount(budget.Min), formatAmount(budget.Max))
}

// formatAmount 去掉金额的无效小数位（50.0 渲染为 50）
func formatAmount(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noneText
	}
	return s
}
