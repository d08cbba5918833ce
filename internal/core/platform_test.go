package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformName(t *testing.T) {
	assert.Equal(t, "macOS 14.4.1 (arm64)", platformName("darwin", "darwin", "14.4.1", "arm64"))
	assert.Equal(t, "ubuntu 24.04 (x86_64)", platformName("linux", "ubuntu", "24.04", "x86_64"))
	assert.Equal(t, "linux", platformName("linux", "", "", ""))
}
