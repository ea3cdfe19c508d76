package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/urfave/cli/v3"

	"github.com/bytebites/caigentan/internal/core/preference"
	"github.com/bytebites/caigentan/internal/infra/file"
	"github.com/bytebites/caigentan/internal/platform/config"
)

// newPreferenceStore 只构建偏好存储，画像管理命令不需要完整的服务容器
func newPreferenceStore(envFile string) (*file.PreferenceStore, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return file.NewPreferenceStore(filepath.Join(cfg.DataDir, "preferences"))
}

// ProfileInitAction 交互式采集用户偏好画像
func ProfileInitAction(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	store, err := newPreferenceStore(cmd.String("env"))
	if err != nil {
		return err
	}

	profile, err := store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("开始设置用户偏好，直接回车跳过该项。")

	fmt.Println("\n请为以下各项打分(0-5分)，数值越高代表您越看重该项:")
	for _, dim := range preference.Dimensions {
		current := ""
		if score, ok := profile.Score(dim).Get(); ok {
			current = fmt.Sprintf("（当前: %d分）", score)
		}
		input := prompt(reader, fmt.Sprintf("%s%s: ", dim.Label(), current))
		if input == "" {
			continue
		}
		score, err := strconv.Atoi(input)
		if err != nil || score < 0 || score > 5 {
			fmt.Println("无效输入，保持原值")
			continue
		}
		profile.SetScore(dim, score)
	}

	if input := prompt(reader, "\n人均预算下限(元，回车跳过): "); input != "" {
		min, errMin := strconv.ParseFloat(input, 64)
		maxInput := prompt(reader, "人均预算上限(元): ")
		max, errMax := strconv.ParseFloat(maxInput, 64)
		if errMin == nil && errMax == nil && min <= max {
			profile.Budget = mo.Some(preference.BudgetRange{Min: min, Max: max})
		} else {
			fmt.Println("无效的预算范围，保持原值")
		}
	}

	if input := prompt(reader, "过敏和忌口(回车跳过): "); input != "" {
		profile.Allergies = input
	}
	if input := prompt(reader, "喜欢的食物(回车跳过): "); input != "" {
		profile.Likes = input
	}
	if input := prompt(reader, "不喜欢的食物(回车跳过): "); input != "" {
		profile.Dislikes = input
	}
	if input := prompt(reader, "偏好菜系(逗号分隔，回车跳过): "); input != "" {
		profile.PreferredCuisines = splitList(input)
	}
	if input := prompt(reader, "不喜欢的菜系(逗号分隔，回车跳过): "); input != "" {
		profile.DislikedCuisines = splitList(input)
	}
	if input := prompt(reader, "特殊要求(回车跳过): "); input != "" {
		profile.SpecialRequirements = input
	}

	if err := store.Save(ctx, profile); err != nil {
		return fmt.Errorf("保存偏好画像失败: %w", err)
	}

	fmt.Println("\n偏好设置已保存:")
	fmt.Println(preference.Render(profile))
	return nil
}

// ProfileShowAction 展示用户偏好画像
func ProfileShowAction(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	store, err := newPreferenceStore(cmd.String("env"))
	if err != nil {
		return err
	}

	profile, err := store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Println(preference.Render(profile))
	return nil
}

// prompt 读取一行输入，EOF 时返回已读到的部分
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func splitList(input string) []string {
	normalized := strings.ReplaceAll(input, "，", ",")
	parts := strings.Split(normalized, ",")
	var items []string
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
