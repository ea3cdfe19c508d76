package chat

import (
	"fmt"
	"strings"
)

// PromptVersion 是当前指令模板的版本号。
// 模板内容变化时必须提升版本，便于追溯一条回答由哪个版本生成。
const PromptVersion = "2.0"

// systemInstructions 是"菜根探"的角色指令，属于带版本的常量，
// 不包含任何每次请求的数据；数据部分由 SystemPrompt 单独拼接。
const systemInstructions = `# 你的角色
你是"菜根探"——一名智能美食推荐助手。你的工作是根据用户的个性化偏好和实时需求，从数据库中推荐最优餐厅。
# 偏好使用说明
- 偏好指标包括：环境、口味、服务、性价比、卫生、营养、排队时间、距离、健康、辣度等。
- 每项得分为0-5分，数值越高代表用户在挑选餐厅时对该项要求越高。
- 请结合这些分值为餐厅筛选与加权打分分配不同权重，优先满足得分高的指标项。
# 推荐策略
- 优先匹配用户评分高的维度(4-5分)
- 确保推荐餐厅在用户预算范围内
- 避免推荐用户不喜欢的菜系
- 考虑用户特殊要求
- 用户会用自然语言表达本次用餐需求，你需解析这些需求，明确硬性（预算/营业/距离/人数/时段）与软性（口味/氛围/健康/环境）约束。
# 推荐输出要求
每轮推荐请严格输出：
- 按"个人偏好+实时需求"综合得分排序，推荐3~5家最优餐厅。
- 每家餐厅详细输出：
    1. 基础信息：名称、地址、类型/菜系、标签/特色、人均消费、营业时间等
    2. 多维匹配打分：综合得分，并对各主维度单独打分，清晰展示与用户偏好对应分值，并说明原因
    3. 个性化推荐理由：结合用户高权重指标具体展开，并适当引用精选评论、推荐菜、关键词
    4. 最佳交通方式与大致所需时间（如步行10分钟、地铁2站共20分钟等）
    5. 用户补充引导：建议用户进一步细化需求（如预算、口味、场景、特殊要求、出发地等）
# 规则
- 你只能基于数据库现有信息推荐，不允许虚构不存在的餐厅。
- 如某项信息缺失，请如实说明"该项暂无数据"。
- 非餐饮、无关问题请委婉回复"仅能为您提供美食/餐厅推荐服务"。
- 推荐内容需结构化、条理清晰、易于用户理解和决策。`

// NewCompletionPayload 把组装好的查询转换为结构化补全请求载荷
func NewCompletionPayload(q *AssembledQuery) CompletionPayload {
	return CompletionPayload{
		PromptVersion:      PromptVersion,
		Instructions:       systemInstructions,
		RenderedPreference: q.RenderedPreference,
		PreferenceScores:   q.PreferenceScores,
		RetrievedContext:   q.RetrievedContext,
		History:            q.History,
		Question:           q.Question,
	}
}

// SystemPrompt 把指令模板与本次请求的数据段确定性地拼接为系统提示词。
// 相同的载荷永远产生相同的文本。
func (p CompletionPayload) SystemPrompt() string {
	var sb strings.Builder

	sb.WriteString(p.Instructions)
	sb.WriteString("\n\n")

	sb.WriteString("# 用户个人偏好\n")
	if p.RenderedPreference != "" {
		sb.WriteString(p.RenderedPreference)
	} else {
		sb.WriteString("未设置用户偏好")
	}
	sb.WriteString("\n各维度评分(0-5分):\n")
	sb.WriteString(p.PreferenceScores)
	sb.WriteString("\n\n")

	sb.WriteString("# 当前对话历史\n")
	if len(p.History) > 0 {
		for _, turn := range p.History {
			sb.WriteString("用户: ")
			sb.WriteString(turn.User)
			sb.WriteString("\n助手: ")
			sb.WriteString(turn.Assistant)
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("(暂无对话历史)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("# 数据库内容\n")
	if len(p.RetrievedContext) > 0 {
		for i, doc := range p.RetrievedContext {
			sb.WriteString(fmt.Sprintf("## [候选 %d] 相似度: %.3f\n", i+1, doc.Score))
			sb.WriteString(doc.Text)
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("(没有检索到相关餐厅)\n")
	}

	return sb.String()
}
