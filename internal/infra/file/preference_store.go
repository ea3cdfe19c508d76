package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/mo"

	"github.com/bytebites/caigentan/internal/core/preference"
)

// PreferenceStore 把偏好画像按用户保存为 JSON 文件，
// 文件布局与 Web 端表单持久化的画像文件一致（priceRange / 嵌套 preferences）。
// 兼容历史的中文键画像文件：加载时识别旧 schema 并迁移为规范 schema，
// 下一次保存后文件即变为规范格式。
type PreferenceStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreferenceStore 创建一个新的 PreferenceStore，目录不存在时自动创建
func NewPreferenceStore(dir string) (*PreferenceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}
	return &PreferenceStore{dir: dir}, nil
}

// Load 读取指定用户的画像。文件不存在时返回空画像而不是错误。
func (s *PreferenceStore) Load(_ context.Context, userID string) (*preference.PreferenceProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return preference.NewProfile(userID), nil
		}
		return nil, fmt.Errorf("failed to read preference file: %w", err)
	}

	return decodeProfile(userID, data)
}

// Save 同步写入画像，先写临时文件再重命名，读取方不会观察到写了一半的文件
func (s *PreferenceStore) Save(_ context.Context, profile *preference.PreferenceProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("profile with user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(toPersisted(profile), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preference profile: %w", err)
	}

	return atomicWrite(s.path(profile.UserID), data)
}

func (s *PreferenceStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// persistedProfile 与 Web 端表单持久化的画像文件同构：
// 预算写在 priceRange，过敏/喜好/忌口嵌套在 preferences 对象里
type persistedProfile struct {
	UserID              string                       `json:"userID,omitempty"`
	Ratings             map[preference.Dimension]int `json:"ratings"`
	PriceRange          *preference.BudgetRange      `json:"priceRange,omitempty"`
	Preferences         persistedPreferences         `json:"preferences"`
	PreferredCuisines   []string                     `json:"preferredCuisines,omitempty"`
	DislikedCuisines    []string                     `json:"dislikedCuisines,omitempty"`
	SpecialRequirements string                       `json:"specialRequirements,omitempty"`
}

type persistedPreferences struct {
	Allergies string `json:"allergies"`
	Likes     string `json:"likes"`
	Dislikes  string `json:"dislikes"`
}

func toPersisted(profile *preference.PreferenceProfile) *persistedProfile {
	p := &persistedProfile{
		UserID:  profile.UserID,
		Ratings: profile.Ratings,
		Preferences: persistedPreferences{
			Allergies: profile.Allergies,
			Likes:     profile.Likes,
			Dislikes:  profile.Dislikes,
		},
		PreferredCuisines:   profile.PreferredCuisines,
		DislikedCuisines:    profile.DislikedCuisines,
		SpecialRequirements: profile.SpecialRequirements,
	}
	if budget, ok := profile.Budget.Get(); ok {
		p.PriceRange = &budget
	}
	return p
}

func (p *persistedProfile) toProfile(userID string) *preference.PreferenceProfile {
	profile := preference.NewProfile(userID)
	for d, score := range p.Ratings {
		profile.SetScore(d, score)
	}
	if p.PriceRange != nil {
		profile.Budget = mo.Some(*p.PriceRange)
	}
	profile.Allergies = p.Preferences.Allergies
	profile.Likes = p.Preferences.Likes
	profile.Dislikes = p.Preferences.Dislikes
	profile.PreferredCuisines = p.PreferredCuisines
	profile.DislikedCuisines = p.DislikedCuisines
	profile.SpecialRequirements = p.SpecialRequirements
	return profile
}

// decodeProfile 解析画像文件，根据键名自动识别规范 schema 和历史中文键 schema
func decodeProfile(userID string, data []byte) (*preference.PreferenceProfile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse preference file: %w", err)
	}

	if _, ok := raw["ratings"]; ok {
		var persisted persistedProfile
		if err := json.Unmarshal(data, &persisted); err != nil {
			return nil, fmt.Errorf("failed to parse preference profile: %w", err)
		}
		return persisted.toProfile(userID), nil
	}

	// 没有 ratings 键的文件按历史 schema 处理并迁移
	var legacy preference.LegacyProfile
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to parse legacy preference profile: %w", err)
	}
	return legacy.Migrate(userID), nil
}

// 接口实现检查
var _ preference.Store = (*PreferenceStore)(nil)
