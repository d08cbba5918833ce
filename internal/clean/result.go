package clean

// Result reports the outcome of one cleanup action. Cleanup never returns
// an error to its caller; failures are carried here.
type Result struct {
	OK           bool   `json:"ok"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`

	// Path is the resolved target of a path deletion, when known.
	Path string `json:"path,omitempty"`
}

func failure(msg string) Result {
	return Result{OK: false, Message: msg}
}
