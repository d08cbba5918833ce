package scan

import (
	"encoding/json"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// Entry is one measured path.
type Entry struct {
	Key           string `json:"key,omitempty"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	Label         string `json:"label,omitempty"`
	SizeBlocks    int64  `json:"sizeBlocks"`
	SizeFormatted string `json:"sizeFormatted"`
}

// Section is the result for one category. Items are ordered by size,
// largest first, and never contain zero-sized entries.
type Section struct {
	Category       config.Category
	Source         string
	TotalBlocks    int64
	TotalFormatted string
	Items          []Entry

	// Error is set when the category's directory could not be listed.
	Error string

	// Breakdown serializes Items under "breakdown" instead of "items".
	Breakdown bool
}

type sectionJSON struct {
	Source         string   `json:"source,omitempty"`
	TotalBlocks    int64    `json:"totalBlocks"`
	TotalFormatted string   `json:"totalFormatted"`
	Items          *[]Entry `json:"items,omitempty"`
	Breakdown      *[]Entry `json:"breakdown,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// MarshalJSON emits the section with its entries under "items", or under
// "breakdown" for the container-engine category. Empty lists encode as [].
func (s Section) MarshalJSON() ([]byte, error) {
	items := s.Items
	if items == nil {
		items = []Entry{}
	}
	out := sectionJSON{
		Source:         s.Source,
		TotalBlocks:    s.TotalBlocks,
		TotalFormatted: s.TotalFormatted,
		Error:          s.Error,
	}
	if s.Breakdown {
		out.Breakdown = &items
	} else {
		out.Items = &items
	}
	return json.Marshal(out)
}

// Summary is the grand total across all categories.
type Summary struct {
	TotalBlocks    int64  `json:"totalBlocks"`
	TotalFormatted string `json:"totalFormatted"`
}

// Report is the result of one full scan. It is built once and not modified
// afterwards.
type Report struct {
	ID          string    `json:"id"`
	Home        string    `json:"home"`
	GeneratedAt time.Time `json:"generatedAt"`

	Caches          Section `json:"caches"`
	ContainerEngine Section `json:"containerEngine"`
	DotCaches       Section `json:"dotCaches"`
	Library         Section `json:"library"`
	EditorState     Section `json:"editorState"`

	Summary Summary `json:"summary"`

	// Warnings lists measurements that failed and were counted as zero.
	Warnings []string `json:"warnings,omitempty"`
}

// Sections returns the report's sections in display order.
func (r *Report) Sections() []*Section {
	return []*Section{&r.Caches, &r.ContainerEngine, &r.DotCaches, &r.Library, &r.EditorState}
}

// Section returns the section for a category, or nil if unknown.
func (r *Report) Section(c config.Category) *Section {
	for _, s := range r.Sections() {
		if s.Category == c {
			return s
		}
	}
	return nil
}
