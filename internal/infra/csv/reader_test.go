package csv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MapsHeaderColumns(t *testing.T) {
	input := strings.Join([]string{
		"name,address,type,cost,rating,dp_recommendation_dish",
		"老王馄饨,人民路1号,小吃,15,4.6,鲜肉馄饨|荠菜馄饨",
		"蜀香园,建设路8号,川菜,78,4.8,水煮鱼",
	}, "\n")

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "老王馄饨", rows[0].Name)
	assert.Equal(t, "人民路1号", rows[0].Address)
	assert.Equal(t, "小吃", rows[0].Type)
	assert.Equal(t, "15", rows[0].Cost)
	assert.Equal(t, "4.6", rows[0].Rating)
	assert.Equal(t, "鲜肉馄饨|荠菜馄饨", rows[0].DPRecommendationDish)
	assert.Equal(t, "蜀香园", rows[1].Name)
}

func TestRead_ColumnOrderDoesNotMatter(t *testing.T) {
	input := "rating,name\n4.6,老王馄饨\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "老王馄饨", rows[0].Name)
	assert.Equal(t, "4.6", rows[0].Rating)
}

func TestRead_UnknownColumnsIgnored(t *testing.T) {
	input := "name,extra_column\n老王馄饨,whatever\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "老王馄饨", rows[0].Name)
}

func TestRead_MissingTrailingFields(t *testing.T) {
	input := "name,address,cost\n老王馄饨\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "老王馄饨", rows[0].Name)
	assert.Empty(t, rows[0].Address)
}

func TestRead_EmptyInputRejected(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRead_UnrecognizedHeaderRejected(t *testing.T) {
	_, err := Read(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}
