package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNormalizer(WithNormalizerLogger(logger))
}

func TestNormalize_CanonicalTextFieldOrder(t *testing.T) {
	n := testNormalizer()

	row := RawRow{
		Name:                 "老王馄饨",
		Address:              "延安西路100号",
		Type:                 "小吃快餐",
		Cost:                 "20",
		Rating:               "4.5",
		DPRating:             "4.6",
		DPTasteRating:        "4.4",
		DPRecommendationDish: "荠菜馄饨",
		DPTop3Comments:       "馄饨皮薄馅大|汤头鲜美|老板很热情",
	}

	record, err := n.Normalize(row, 0)
	require.NoError(t, err)

	expected := "name=老王馄饨\n" +
		"address=延安西路100号\n" +
		"type=小吃快餐\n" +
		"cost=20\n" +
		"rating=4.5\n" +
		"评分信息:\n" +
		"dp_rating=4.6\n" +
		"dp_taste_rating=4.4\n" +
		"推荐菜: 荠菜馄饨\n" +
		"精选评论:\n" +
		"馄饨皮薄馅大\n" +
		"汤头鲜美\n" +
		"老板很热情"
	assert.Equal(t, expected, record.CanonicalText)
	assert.Equal(t, "老王馄饨|延安西路100号", record.ID)
	assert.Equal(t, 20.0, record.Cost)
	assert.Equal(t, 4.5, record.Rating)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := testNormalizer()

	row := RawRow{Name: "巴蜀鱼花", Address: "天钥桥路", Cost: "60", Rating: "4.8"}

	first, err := n.Normalize(row, 0)
	require.NoError(t, err)
	second, err := n.Normalize(row, 0)
	require.NoError(t, err)

	assert.Equal(t, first.CanonicalText, second.CanonicalText)
	assert.Equal(t, first.ID, second.ID)
}

func TestNormalize_EmptyNameDropped(t *testing.T) {
	n := testNormalizer()

	_, err := n.Normalize(RawRow{Name: "  ", Address: "某路1号"}, 0)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestNormalize_MissingCostUsesMedian(t *testing.T) {
	n := testNormalizer()

	record, err := n.Normalize(RawRow{Name: "无价小馆"}, 35)
	require.NoError(t, err)
	assert.Equal(t, 35.0, record.Cost)
	// 缺失的 cost 不进入 canonical text
	assert.NotContains(t, record.CanonicalText, "cost=")
}

func TestNormalizeAll_DedupAndStats(t *testing.T) {
	n := testNormalizer()

	rows := []RawRow{
		{Name: "老王馄饨", Address: "延安西路100号", Cost: "20"},
		{Name: "老王馄饨", Address: "延安西路100号", Cost: "20"}, // 完全重复
		{Name: "巴蜀鱼花", Address: "天钥桥路", Cost: "60"},
		{Name: "", Address: "无名路"}, // 名称为空
		{Name: "家常菜馆", Address: ""}, // cost 缺失，应取中位数
	}

	records, stats := n.NormalizeAll(rows)

	require.Len(t, records, 3)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Normalized)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 20.0, stats.MedianCost) // 20, 20, 60 的中位数

	assert.Equal(t, 20.0, records[2].Cost) // 中位数填充
}
