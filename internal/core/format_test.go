package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBlocks(t *testing.T) {
	cases := []struct {
		kb   int64
		want string
	}{
		{0, "0 KB"},
		{1, "1 KB"},
		{1023, "1023 KB"},
		{1024, "1.0 MB"},
		{1536, "1.5 MB"},
		{1024*1024 - 1, "1024.0 MB"},
		{1024 * 1024, "1.0 GB"},
		{5 * 1024 * 1024, "5.0 GB"},
		{int64(2.5 * 1024 * 1024), "2.5 GB"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatBlocks(c.kb), "kb=%d", c.kb)
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 GiB", FormatBytes(3*1024*1024*1024/2))
}
