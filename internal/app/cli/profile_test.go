package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt_TrimsInputLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  川菜  \n"))
	assert.Equal(t, "川菜", prompt(reader, ""))
}

func TestPrompt_ReturnsPartialLineOnEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("川菜"))
	assert.Equal(t, "川菜", prompt(reader, ""))
}

func TestSplitList_HandlesChineseComma(t *testing.T) {
	assert.Equal(t, []string{"川菜", "粤菜"}, splitList("川菜，粤菜"))
	assert.Equal(t, []string{"面食"}, splitList(" 面食 "))
	assert.Empty(t, splitList(""))
}
