// Package scan walks the location catalog, measures every target and
// aggregates the results into a Report.
package scan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logfields"
	"github.com/lakshaymaurya-felt/macmole/internal/probe"
)

const (
	sourceContainerEngine = "docker"
	sourceEditor          = "cursor"

	maxWarnings = 500
)

// Scanner measures a catalog under one home directory. It keeps no state
// between runs and may be shared.
type Scanner struct {
	home    string
	catalog config.Catalog
	prober  probe.Prober
	logger  *slog.Logger

	// lstat is os.Lstat; tests replace it to simulate a failing child.
	lstat func(string) (os.FileInfo, error)
}

// NewScanner creates a scanner. A nil logger discards log output.
func NewScanner(home string, catalog config.Catalog, prober probe.Prober, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		home:    filepath.Clean(home),
		catalog: catalog,
		prober:  prober,
		logger:  logger,
		lstat:   os.Lstat,
	}
}

// run carries the per-scan state so Scanner itself stays read-only.
type run struct {
	*Scanner
	ctx      context.Context
	warnings []string
}

// Run scans every category one probe at a time and returns the report.
// Measurement and listing failures are folded into the report; the only
// error returned is the context's.
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	r := &run{Scanner: s, ctx: ctx}

	report := &Report{
		ID:          uuid.NewString(),
		Home:        s.home,
		GeneratedAt: start,
	}

	steps := []struct {
		dst  *Section
		scan func() Section
	}{
		{&report.Caches, r.scanCaches},
		{&report.ContainerEngine, r.scanContainerEngine},
		{&report.DotCaches, func() Section { return r.scanStatic(config.CategoryDotCaches) }},
		{&report.Library, func() Section { return r.scanStatic(config.CategoryLibrary) }},
		{&report.EditorState, r.scanEditorState},
	}
	for _, step := range steps {
		*step.dst = step.scan()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.Debug("category scanned",
			logfields.Category(string(step.dst.Category)),
			logfields.Blocks(step.dst.TotalBlocks),
			logfields.Count(len(step.dst.Items)))
	}

	var total int64
	for _, sec := range report.Sections() {
		total += sec.TotalBlocks
	}
	report.Summary = Summary{TotalBlocks: total, TotalFormatted: core.FormatBlocks(total)}
	report.Warnings = r.warnings

	s.logger.Info("scan complete",
		logfields.ScanID(report.ID),
		logfields.Blocks(total),
		logfields.Count(len(r.warnings)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	return report, nil
}

// ─── Categories ──────────────────────────────────────────────────────────────

// scanCaches measures every child directory of the caches root. A root that
// cannot be listed yields an empty section carrying the error.
func (r *run) scanCaches() Section {
	targets, err := r.catalog.Targets(config.CategoryCaches, r.home)
	if err != nil {
		r.logger.Warn("cannot list caches",
			logfields.Path(filepath.Join(r.home, r.catalog.CachesRoot)),
			logfields.Error(err))
		return failedSection(config.CategoryCaches, err)
	}
	return newSection(config.CategoryCaches, r.measureTargets(targets, false))
}

// scanStatic measures a fixed table of targets, skipping those that do not
// exist.
func (r *run) scanStatic(category config.Category) Section {
	targets, err := r.catalog.Targets(category, r.home)
	if err != nil {
		return failedSection(category, err)
	}
	return newSection(category, r.measureTargets(targets, true))
}

// scanContainerEngine sums the engine's known data subpaths. When none of
// them report a size the whole container directory is measured instead,
// which double-counts nothing only as long as the subpath layout holds.
func (r *run) scanContainerEngine() Section {
	sec := Section{
		Category:  config.CategoryContainerEngine,
		Source:    sourceContainerEngine,
		Breakdown: true,
	}

	targets, err := r.catalog.Targets(config.CategoryContainerEngine, r.home)
	if err != nil {
		sec.Error = err.Error()
		sec.TotalFormatted = core.FormatBlocks(0)
		return sec
	}

	sec.Items = r.measureTargets(targets, false)
	sec.TotalBlocks = sumBlocks(sec.Items)

	if sec.TotalBlocks == 0 {
		root := filepath.Join(r.home, r.catalog.ContainerRoot)
		if exists(root) {
			sec.TotalBlocks = r.measure(root)
		}
	}
	sec.TotalFormatted = core.FormatBlocks(sec.TotalBlocks)
	return sec
}

// scanEditorState measures each child of the editor's storage directory.
// Directories go through the prober, files are sized from their length. If
// the storage directory cannot be listed, or any child cannot be stat'ed,
// one entry stands in for the whole editor root; if nothing measurable is
// found, the root is measured as a lump.
func (r *run) scanEditorState() Section {
	sec := Section{Category: config.CategoryEditorState, Source: sourceEditor}

	root := filepath.Join(r.home, r.catalog.EditorRoot)
	if !exists(root) {
		sec.TotalFormatted = core.FormatBlocks(0)
		return sec
	}

	storage := filepath.Join(root, r.catalog.EditorStorage)
	if exists(storage) {
		targets, err := r.catalog.Targets(config.CategoryEditorState, r.home)
		if err == nil {
			sec.Items, err = r.measureEditorTargets(targets)
		}
		if err != nil {
			r.logger.Warn("cannot read editor storage", logfields.Path(storage), logfields.Error(err))
			sec.Items = nil
			if kb := r.measure(root); kb > 0 {
				sec.Items = []Entry{{
					Name:          filepath.Base(root) + " (total)",
					Path:          root,
					SizeBlocks:    kb,
					SizeFormatted: core.FormatBlocks(kb),
				}}
			}
		}
	}

	sec.TotalBlocks = sumBlocks(sec.Items)
	if sec.TotalBlocks == 0 {
		sec.TotalBlocks = r.measure(root)
	}
	sec.TotalFormatted = core.FormatBlocks(sec.TotalBlocks)
	return sec
}

// ─── Measurement ─────────────────────────────────────────────────────────────

// measureTargets probes each existing target and returns the non-empty
// entries sorted largest first. keyed entries carry the catalog key and
// label and are named by their relative path.
func (r *run) measureTargets(targets []config.ScanTarget, keyed bool) []Entry {
	var entries []Entry
	for _, t := range targets {
		if r.ctx.Err() != nil {
			break
		}
		full := filepath.Join(r.home, t.RelativePath)
		if !exists(full) {
			continue
		}
		kb := r.measure(full)
		if kb <= 0 {
			continue
		}
		name := filepath.Base(t.RelativePath)
		if keyed {
			name = t.RelativePath
		}
		entries = append(entries, newEntry(t, name, full, kb, keyed))
	}
	sortEntries(entries)
	return entries
}

// measureEditorTargets sizes each storage child. A child that cannot be
// stat'ed aborts the listing so the caller can fall back to the root total.
func (r *run) measureEditorTargets(targets []config.ScanTarget) ([]Entry, error) {
	var entries []Entry
	for _, t := range targets {
		if r.ctx.Err() != nil {
			break
		}
		full := filepath.Join(r.home, t.RelativePath)
		info, err := r.lstat(full)
		if err != nil {
			return nil, err
		}

		var kb int64
		if info.IsDir() {
			kb = r.measure(full)
		} else {
			kb = probe.FileBlocks(info.Size())
		}
		if kb <= 0 {
			continue
		}
		entries = append(entries, newEntry(t, info.Name(), full, kb, false))
	}
	sortEntries(entries)
	return entries, nil
}

// measure is the boundary where probe failures become zero.
func (r *run) measure(path string) int64 {
	kb := probe.Blocks(r.ctx, r.prober, path, r.warn)
	r.logger.Debug("probed", logfields.Path(path), logfields.Blocks(kb))
	return kb
}

func (r *run) warn(err error) {
	r.logger.Debug("measurement failed", logfields.Error(err))
	if len(r.warnings) < maxWarnings {
		r.warnings = append(r.warnings, err.Error())
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func newEntry(t config.ScanTarget, name, path string, kb int64, keyed bool) Entry {
	e := Entry{
		Name:          name,
		Path:          path,
		SizeBlocks:    kb,
		SizeFormatted: core.FormatBlocks(kb),
	}
	if keyed {
		e.Key = t.Key
		e.Label = t.Label
	}
	return e
}

func newSection(category config.Category, entries []Entry) Section {
	total := sumBlocks(entries)
	return Section{
		Category:       category,
		TotalBlocks:    total,
		TotalFormatted: core.FormatBlocks(total),
		Items:          entries,
	}
}

func failedSection(category config.Category, err error) Section {
	return Section{
		Category:       category,
		TotalFormatted: core.FormatBlocks(0),
		Items:          []Entry{},
		Error:          err.Error(),
	}
}

// sortEntries orders entries by size descending; ties keep catalog order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SizeBlocks > entries[j].SizeBlocks
	})
}

func sumBlocks(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.SizeBlocks
	}
	return total
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
