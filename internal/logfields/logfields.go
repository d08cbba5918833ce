package logfields

import "log/slog"

// Canonical log field names shared by the scanner, the cleaner and the CLI.
const (
	KeyPath       = "path"
	KeyCategory   = "category"
	KeyBlocks     = "blocks"
	KeyCommand    = "command"
	KeyDurationMS = "duration_ms"
	KeyScanID     = "scan_id"
	KeyCount      = "count"
	KeyError      = "error"
)

func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Blocks(kb int64) slog.Attr       { return slog.Int64(KeyBlocks, kb) }
func Command(cmd string) slog.Attr    { return slog.String(KeyCommand, cmd) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func ScanID(id string) slog.Attr      { return slog.String(KeyScanID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
