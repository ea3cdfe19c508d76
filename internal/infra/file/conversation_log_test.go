package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/caigentan/internal/core/conversation"
)

func TestConversationLog_AppendAndHistory(t *testing.T) {
	log, err := NewConversationLog(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := conversation.Turn{Timestamp: time.Now(), User: "第一问", Assistant: "第一答"}
	second := conversation.Turn{Timestamp: time.Now(), User: "第二问", Assistant: "第二答"}
	require.NoError(t, log.Append(ctx, "s1", first))
	require.NoError(t, log.Append(ctx, "s1", second))

	history, err := log.History(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "第一问", history[0].User)
	assert.Equal(t, "第二答", history[1].Assistant)
}

func TestConversationLog_SessionsAreIsolated(t *testing.T) {
	log, err := NewConversationLog(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "s1", conversation.Turn{User: "a"}))
	require.NoError(t, log.Append(ctx, "s2", conversation.Turn{User: "b"}))

	history, err := log.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].User)
}

func TestConversationLog_MissingSessionIsEmpty(t *testing.T) {
	log, err := NewConversationLog(t.TempDir())
	require.NoError(t, err)

	history, err := log.History(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestConversationLog_ClearRemovesSession(t *testing.T) {
	log, err := NewConversationLog(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "s1", conversation.Turn{User: "a"}))
	require.NoError(t, log.Clear(ctx, "s1"))

	history, err := log.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)

	// 清空不存在的会话不是错误
	assert.NoError(t, log.Clear(ctx, "missing"))
}

func TestConversationLog_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	log, err := NewConversationLog(dir)
	require.NoError(t, err)
	require.NoError(t, log.Append(ctx, "s1", conversation.Turn{User: "问", Assistant: "答"}))

	reopened, err := NewConversationLog(dir)
	require.NoError(t, err)

	history, err := reopened.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "问", history[0].User)
}
