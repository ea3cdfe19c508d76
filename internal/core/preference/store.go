package preference

import "context"

// Store 是偏好画像的持久化接口。
// 写入按用户粒度同步落盘；对同一用户的并发写采用后写覆盖，
// 但任何一次读取都不允许观察到写了一半的画像。
type Store interface {
	// Load 返回指定用户的画像。画像不存在时返回空画像而不是错误。
	Load(ctx context.Context, userID string) (*PreferenceProfile, error)

	// Save 持久化画像
	Save(ctx context.Context, profile *PreferenceProfile) error
}
