// Package tui 实现交互式推荐对话界面。
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bytebites/caigentan/internal/core/chat"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// answerMsg 是一次后台推荐请求的结果
type answerMsg struct {
	question string
	result   *chat.ChatResult
	err      error
}

// Model 是对话界面的 Bubble Tea 模型
type Model struct {
	service    *chat.ChatService
	sessionID  string
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

// New 创建对话界面模型
func New(service *chat.ChatService, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "输入您的用餐需求，回车发送"
	ti.Focus()
	ti.CharLimit = 0

	vp := viewport.New(0, 0)

	return Model{
		service:   service,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		status:    "菜根探已就绪，随时为您推荐餐厅。",
	}
}

// Init 初始化模型
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update 处理按键和窗口事件
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // 标题 + 状态栏 + 输入框 + 间隔
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.transcript = append(m.transcript, userStyle.Render("用户: ")+question)
			m.input.Reset()
			m.waiting = true
			m.status = "正在为您挑选餐厅..."
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.askCmd(question)
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			// 降级回复进入对话区，界面不展示原始错误
			m.transcript = append(m.transcript, assistantStyle.Render("菜根探: ")+chat.DegradedMessage(msg.err))
			m.status = "请求失败，可稍后重试。"
		} else {
			m.transcript = append(m.transcript, assistantStyle.Render("菜根探: ")+msg.result.Answer)
			m.status = fmt.Sprintf("已基于 %d 家候选餐厅生成推荐。", len(msg.result.Sources))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View 渲染界面
func (m Model) View() string {
	if !m.ready {
		return "加载中..."
	}
	header := headerStyle.Render(fmt.Sprintf("菜根探 · 智能美食推荐  [会话 %s]", shortID(m.sessionID)))
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// askCmd 在后台执行推荐请求
func (m Model) askCmd(question string) tea.Cmd {
	service := m.service
	sessionID := m.sessionID
	return func() tea.Msg {
		result, err := service.Chat(context.Background(), chat.ChatParams{
			SessionID: sessionID,
			Question:  question,
		})
		return answerMsg{question: question, result: result, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "请描述您的用餐需求，例如：想和朋友吃顿人均 80 左右的川菜。"
	}
	return strings.Join(m.transcript, "\n\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
