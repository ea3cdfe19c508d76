package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bytebites/caigentan/internal/core/catalog"
	infracsv "github.com/bytebites/caigentan/internal/infra/csv"
	"github.com/bytebites/caigentan/internal/platform/container"
)

// IndexBuildAction 从数据集文件构建相似度索引
func IndexBuildAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	csvPath := cmd.String("csv")

	appCtx, err := NewAppContext(ctx, envFile, container.WithFreshIndex())
	if err != nil {
		return err
	}
	defer appCtx.Close()

	logger := appCtx.Logger

	rows, err := infracsv.ReadFile(csvPath)
	if err != nil {
		return err
	}
	logger.Info("数据集读取完成", "path", csvPath, "rows", len(rows))

	normalizer := catalog.NewNormalizer(catalog.WithNormalizerLogger(logger))
	records, stats := normalizer.NormalizeAll(rows)
	logger.Info("规范化完成",
		"total", stats.Total,
		"normalized", stats.Normalized,
		"dropped", stats.Dropped,
		"duplicates", stats.Duplicates,
		"medianCost", stats.MedianCost,
	)

	result, err := appCtx.Container.IndexService.EmbedAndIndex(ctx, records)
	if err != nil {
		return fmt.Errorf("构建索引失败: %w", err)
	}

	if err := appCtx.Container.PersistIndex(); err != nil {
		return fmt.Errorf("保存索引失败: %w", err)
	}

	fmt.Printf("索引构建完成: 共 %d 条记录入库\n", result.Indexed)
	if len(result.FailedBatches) > 0 {
		fmt.Printf("警告: %d 个批次向量化失败，对应记录未入库\n", len(result.FailedBatches))
		for _, batch := range result.FailedBatches {
			logger.Warn("失败批次", "batch", batch.Batch, "size", batch.Size, "error", batch.Err)
		}
	}
	return nil
}
