package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrKeys(t *testing.T) {
	assert.Equal(t, KeyPath, Path("/x").Key)
	assert.Equal(t, KeyCategory, Category("caches").Key)
	assert.Equal(t, int64(42), Blocks(42).Value.Int64())
	assert.Equal(t, KeyCommand, Command("npm").Key)
	assert.Equal(t, 3, int(Count(3).Value.Int64()))
}

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
