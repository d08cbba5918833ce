package core

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBlocks renders a size measured in 1 KiB blocks the way du users
// read it: one decimal for MB and GB, whole kilobytes below that.
func FormatBlocks(kb int64) string {
	switch {
	case kb >= 1024*1024:
		return fmt.Sprintf("%.1f GB", float64(kb)/1024/1024)
	case kb >= 1024:
		return fmt.Sprintf("%.1f MB", float64(kb)/1024)
	default:
		return fmt.Sprintf("%d KB", kb)
	}
}

// FormatBytes renders an exact byte count with binary units (e.g. "1.5 GiB").
// Used for volume statistics, which come in bytes rather than blocks.
func FormatBytes(b uint64) string {
	return humanize.IBytes(b)
}
