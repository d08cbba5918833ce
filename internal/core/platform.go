package core

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// IsMacOS reports whether the process runs on macOS. Several maintenance
// tools (xcrun simctl) only exist there.
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

// PlatformString returns a human-readable OS description.
// Examples: "macOS 14.4.1 (arm64)", "ubuntu 24.04 (x86_64)"
func PlatformString(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}
	return platformName(info.OS, info.Platform, info.PlatformVersion, info.KernelArch)
}

func platformName(goos, platform, version, arch string) string {
	name := platform
	if goos == "darwin" {
		name = "macOS"
	}
	if name == "" {
		name = goos
	}
	if version != "" {
		name += " " + version
	}
	if arch != "" {
		name += " (" + arch + ")"
	}
	return name
}
