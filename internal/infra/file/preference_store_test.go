package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/caigentan/internal/core/preference"
)

func TestPreferenceStore_LoadMissingReturnsEmptyProfile(t *testing.T) {
	store, err := NewPreferenceStore(t.TempDir())
	require.NoError(t, err)

	profile, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, "nobody", profile.UserID)
	assert.True(t, profile.IsEmpty())
}

func TestPreferenceStore_SaveLoadRoundtrip(t *testing.T) {
	store, err := NewPreferenceStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	profile := preference.NewProfile("u1")
	profile.SetScore(preference.DimTaste, 5)
	profile.SetScore(preference.DimSpiciness, 2)
	profile.Budget = mo.Some(preference.BudgetRange{Min: 0, Max: 50})
	profile.Allergies = "花生"
	profile.PreferredCuisines = []string{"川菜"}

	require.NoError(t, store.Save(ctx, profile))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 5, loaded.Score(preference.DimTaste).MustGet())
	assert.Equal(t, 2, loaded.Score(preference.DimSpiciness).MustGet())
	assert.True(t, loaded.Score(preference.DimHygiene).IsAbsent())
	budget, ok := loaded.Budget.Get()
	require.True(t, ok)
	assert.Equal(t, 50.0, budget.Max)
	assert.Equal(t, "花生", loaded.Allergies)
	assert.Equal(t, []string{"川菜"}, loaded.PreferredCuisines)
}

func TestPreferenceStore_LoadLegacyChineseSchemaMigrates(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
		"环境": 4,
		"口味": 5,
		"服务": 0,
		"性价比": 3,
		"卫生": 0,
		"营养健康": 2,
		"排队时间": 0,
		"距离": 0,
		"偏好菜系": ["粤菜"],
		"不喜欢的菜系": ["西餐"],
		"预算范围": [20, 80],
		"特殊要求": "无"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte(legacy), 0o644))

	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)

	profile, err := store.Load(context.Background(), "old")
	require.NoError(t, err)

	assert.Equal(t, 4, profile.Score(preference.DimEnvironment).MustGet())
	assert.Equal(t, 5, profile.Score(preference.DimTaste).MustGet())
	assert.Equal(t, 2, profile.Score(preference.DimNutrition).MustGet())
	assert.True(t, profile.Score(preference.DimService).IsAbsent())
	assert.True(t, profile.Score(preference.DimSpiciness).IsAbsent())
	budget, ok := profile.Budget.Get()
	require.True(t, ok)
	assert.Equal(t, 20.0, budget.Min)
	assert.Equal(t, 80.0, budget.Max)
	assert.Equal(t, []string{"粤菜"}, profile.PreferredCuisines)
	assert.Empty(t, profile.SpecialRequirements)
}

func TestPreferenceStore_LoadWebFormFile(t *testing.T) {
	dir := t.TempDir()
	webForm := `{
		"priceRange": {"min": 0, "max": 50},
		"ratings": {"taste": 5, "valueForMoney": 4, "hygiene": 3},
		"preferences": {"allergies": "花生", "likes": "面食", "dislikes": "香菜"},
		"preferredCuisines": ["面馆"],
		"specialRequirements": "少油"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.json"), []byte(webForm), 0o644))

	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)

	profile, err := store.Load(context.Background(), "web")
	require.NoError(t, err)

	budget, ok := profile.Budget.Get()
	require.True(t, ok)
	assert.Equal(t, 0.0, budget.Min)
	assert.Equal(t, 50.0, budget.Max)
	assert.Equal(t, 5, profile.Score(preference.DimTaste).MustGet())
	assert.Equal(t, 4, profile.Score(preference.DimValueForMoney).MustGet())
	assert.Equal(t, "花生", profile.Allergies)
	assert.Equal(t, "面食", profile.Likes)
	assert.Equal(t, "香菜", profile.Dislikes)
	assert.Equal(t, []string{"面馆"}, profile.PreferredCuisines)
	assert.Equal(t, "少油", profile.SpecialRequirements)
}

func TestPreferenceStore_SaveWritesWebFormShape(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	profile := preference.NewProfile("u1")
	profile.SetScore(preference.DimTaste, 5)
	profile.Budget = mo.Some(preference.BudgetRange{Min: 0, Max: 50})
	profile.Allergies = "花生"
	require.NoError(t, store.Save(ctx, profile))

	data, err := os.ReadFile(filepath.Join(dir, "u1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"priceRange"`)
	assert.Contains(t, string(data), `"preferences"`)
	assert.NotContains(t, string(data), `"budget"`)
}

func TestPreferenceStore_SaveRewritesLegacyAsCanonical(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"口味": 5, "预算范围": [10, 30]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte(legacy), 0o644))

	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	profile, err := store.Load(ctx, "old")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, profile))

	data, err := os.ReadFile(filepath.Join(dir, "old.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ratings"`)
	assert.Contains(t, string(data), `"taste"`)

	reloaded, err := store.Load(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Score(preference.DimTaste).MustGet())
}

func TestPreferenceStore_SaveRequiresUserID(t *testing.T) {
	store, err := NewPreferenceStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save(context.Background(), &preference.PreferenceProfile{}))
	assert.Error(t, store.Save(context.Background(), nil))
}
