package marlens

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jherrick/marlens/blocks"
	"github.com/jherrick/marlens/cells"
	"github.com/jherrick/marlens/decide"
	"github.com/jherrick/marlens/geometry"
	"github.com/jherrick/marlens/grid"
	"github.com/jherrick/marlens/model"
	"github.com/jherrick/marlens/report"
	"github.com/jherrick/marlens/rules"
	"github.com/jherrick/marlens/scrub"
	"github.com/jherrick/marlens/timeparse"
)

// ErrNoScheduleGrid reports that no room anchor was found anywhere in the
// document. It is structured and non-fatal: the audit still returns its
// (empty) result and warnings, and callers match it with errors.Is.
var ErrNoScheduleGrid = errors.New("no schedule grid found")

// Auditor provides a fluent interface for auditing MAR page geometry.
// Each configuration method returns a new Auditor instance, making it safe
// for concurrent use and allowing method chaining.
type Auditor struct {
	source geometry.Source
	opts   Options
	err    error
}

// FromSource creates an Auditor reading page geometry from src.
//
// Example:
//
//	recs, warnings, err := marlens.FromSource(src).Parse(ctx)
func FromSource(src geometry.Source) *Auditor {
	return &Auditor{source: src, opts: DefaultOptions()}
}

// clone creates a copy with a deep copy of options so chains never share
// mutable state.
func (a *Auditor) clone() *Auditor {
	return &Auditor{source: a.source, opts: a.opts.clone(), err: a.err}
}

// Options replaces the audit configuration.
func (a *Auditor) Options(opts Options) *Auditor {
	na := a.clone()
	na.opts = opts.clone()
	return na
}

// Result is the full outcome of one audit pass.
type Result struct {
	Records []model.DoseRecord
	Skips   []model.Skip
	Summary report.Summary
}

// Parse runs the audit and returns the classified dose records. This is a
// terminal operation.
func (a *Auditor) Parse(ctx context.Context) ([]model.DoseRecord, []Warning, error) {
	res, warnings, err := a.Audit(ctx)
	if res == nil {
		return nil, warnings, err
	}
	return res.Records, warnings, err
}

// Audit runs the audit and returns records, skips, and the summary.
// Pages are parsed concurrently; results are assembled deterministically,
// ordered by hall, then room ascending, then time ascending, so re-running
// on identical input yields byte-identical exports. This is a terminal
// operation.
func (a *Auditor) Audit(ctx context.Context) (*Result, []Warning, error) {
	if a.err != nil {
		return nil, nil, a.err
	}
	if a.source == nil {
		return nil, nil, fmt.Errorf("no source configured")
	}

	pages, err := a.source.Pages(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading pages: %w", err)
	}

	results := make([]pageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workerCount(len(pages)))
	for i := range pages {
		i := i
		g.Go(func() error {
			// A cancelled page is discarded whole, never half-parsed.
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.parsePage(pages[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	res := &Result{}
	var warnings []Warning
	totalAnchors := 0
	for _, pr := range results {
		res.Records = append(res.Records, pr.records...)
		res.Skips = append(res.Skips, pr.skips...)
		warnings = append(warnings, pr.warnings...)
		totalAnchors += pr.anchors
	}

	sort.SliceStable(res.Records, func(i, j int) bool {
		ri, rj := res.Records[i], res.Records[j]
		if ri.Hall != rj.Hall {
			return ri.Hall < rj.Hall
		}
		if ri.Room != rj.Room {
			return ri.Room < rj.Room
		}
		return ri.NormalizedTime < rj.NormalizedTime
	})
	res.Summary = report.Build(res.Records, res.Skips)

	if totalAnchors == 0 {
		return res, warnings, ErrNoScheduleGrid
	}
	return res, warnings, nil
}

func (a *Auditor) workerCount(pageCount int) int {
	workers := a.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if pageCount > 0 && workers > pageCount {
		workers = pageCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// pageResult is one page's contribution, assembled in block order.
type pageResult struct {
	page     int
	records  []model.DoseRecord
	skips    []model.Skip
	warnings []Warning
	anchors  int
}

func (a *Auditor) parsePage(page geometry.Page) pageResult {
	pr := pageResult{page: page.Index}
	if len(page.Tokens) == 0 {
		return pr
	}

	// Identifying header text is dropped before anything downstream can
	// buffer it.
	scrubber := scrub.NewScrubber()
	kept := make([]model.Token, 0, len(page.Tokens))
	for _, tok := range page.Tokens {
		if scrubber.Dirty(tok.Text) {
			continue
		}
		kept = append(kept, tok)
	}

	cb := grid.NewColumnBuilder()
	cb.Tolerance = a.opts.ColumnTolerance
	cb.MergeGap = a.opts.ColumnMergeGap
	cols := cb.Build(kept, page.Height)
	if len(cols) == 0 {
		pr.warnings = append(pr.warnings, Warning{
			Code:    WarnNoDayColumns,
			Message: "no day-column header recognized",
			Page:    page.Index,
		})
		return pr
	}

	finder := blocks.NewFinder()
	anchors := finder.FindAnchors(kept, page.Width, cols)
	pr.anchors = len(anchors)

	roomBlocks := blocks.Partition(anchors, page.Index, page.Height)
	classifier := blocks.NewClassifier()
	if len(a.opts.BPLabelVariants) > 0 {
		classifier.BPLabels = a.opts.BPLabelVariants
	}
	if len(a.opts.PulseLabelVariants) > 0 {
		classifier.PulseLabels = a.opts.PulseLabelVariants
	}
	strikes := &grid.StrikeDetector{
		AngleMin: a.opts.VectorXAngleMin,
		AngleMax: a.opts.VectorXAngleMax,
		RatioMin: a.opts.VectorXRatioMin,
		RatioMax: a.opts.VectorXRatioMax,
	}
	cfg := decide.Config{
		GivenGlyphs:      a.opts.GivenGlyphs,
		AllowedHeldCodes: a.opts.AllowedHeldCodes,
	}

	bp := blockParser{
		scrubber:   scrubber,
		classifier: classifier,
		strikes:    strikes,
		cfg:        cfg,
	}
	for bi := range roomBlocks {
		blk := &roomBlocks[bi]
		classifier.Classify(blk, kept, cols)
		bp.parseBlock(&pr, blk, page.Marks, cols)
	}
	return pr
}

// blockParser carries the per-page collaborators one room block needs.
type blockParser struct {
	scrubber   *scrub.Scrubber
	classifier *blocks.Classifier
	strikes    *grid.StrikeDetector
	cfg        decide.Config
}

func (bp blockParser) parseBlock(pr *pageResult, blk *model.RoomBlock, marks []model.VectorMark, cols []grid.Column) {
	var labelLines []string
	var bpTrack, pulseTrack *model.Track
	for ti := range blk.Tracks {
		t := &blk.Tracks[ti]
		switch t.Role {
		case model.RoleLabel:
			// The per-token pass cannot match identity patterns that only
			// form once a row's fragments are joined, so the joined label
			// is checked again at line granularity.
			if t.Label != "" && !bp.scrubber.Dirty(t.Label) {
				labelLines = append(labelLines, t.Label)
			}
		case model.RoleVitalsRow:
			if bp.classifier.IsPulseLabel(t.Label) {
				if pulseTrack == nil {
					pulseTrack = t
				}
			} else if bpTrack == nil {
				bpTrack = t
			}
		}
	}

	normalized := rules.NormalizePhrases(strings.Join(labelLines, "\n"))
	ruleSet, ruleSkips := rules.ParseStrict(normalized)
	for _, sk := range ruleSkips {
		sk.Page = blk.Page
		sk.Room = blk.Room
		pr.skips = append(pr.skips, sk)
	}
	medText := medLine(labelLines)

	hasDue := false
	for ti := range blk.Tracks {
		track := &blk.Tracks[ti]
		if track.Role != model.RoleDueCellRow {
			continue
		}
		hasDue = true

		normTime, err := timeparse.Normalize(track.Label)
		if err != nil {
			pr.skips = append(pr.skips, model.Skip{
				Reason: model.SkipBadTime,
				Page:   blk.Page,
				Room:   blk.Room,
				Detail: track.Label,
			})
			continue
		}

		for colIdx := range cols {
			cellText := cells.CanonicalizeMarks(track.Cells[colIdx])
			cellBox := model.NewBBox(cols[colIdx].X0, track.Band.Y0, cols[colIdx].X1, track.Band.Y1)
			struck := bp.strikes.Struck(marks, cellBox)
			if cellText == "" && !struck {
				// Nothing charted in this cell: it is not a dose event.
				continue
			}

			res, ok := decide.Decide(decide.Input{
				Due:       decide.Tokenize(cellText, bp.cfg),
				VitalsRow: bp.vitalsForColumn(bpTrack, pulseTrack, colIdx),
				Rules:     ruleSet,
				Strike:    struck,
			}, bp.cfg)
			if !ok {
				pr.skips = append(pr.skips, model.Skip{
					Reason: model.SkipAmbiguousOutcome,
					Page:   blk.Page,
					Room:   blk.Room,
					Detail: cellText,
				})
				continue
			}

			vitals := res.Vitals
			pr.records = append(pr.records, model.DoseRecord{
				Hall:           blk.Hall,
				Room:           blk.Room,
				ScheduledRaw:   track.Label,
				NormalizedTime: normTime,
				MedText:        medText,
				Notes:          []string{res.Note},
				Vitals:         &vitals,
				Rules:          ruleSet,
				Decision:       res.Outcome,
			})
		}
	}

	if hasDue && bpTrack == nil && pulseTrack == nil {
		pr.warnings = append(pr.warnings, Warning{
			Code:    WarnNoVitalsRow,
			Message: fmt.Sprintf("room %d has due cells but no vitals row", blk.Room),
			Page:    blk.Page,
		})
	}
}

// vitalsForColumn tokenizes the vitals-row cells for one column, the pulse
// row contributing HR over whatever the BP row recorded.
func (bp blockParser) vitalsForColumn(bpTrack, pulseTrack *model.Track, col int) *decide.CellTokens {
	var out *decide.CellTokens
	if bpTrack != nil {
		if txt, ok := bpTrack.Cells[col]; ok {
			tk := decide.Tokenize(cells.CanonicalizeMarks(txt), bp.cfg)
			out = &tk
		}
	}
	if pulseTrack != nil {
		if txt, ok := pulseTrack.Cells[col]; ok {
			tk := decide.TokenizePulseRow(cells.CanonicalizeMarks(txt), bp.cfg)
			if out == nil {
				out = &tk
			} else if tk.Vitals.HasHR {
				out.Vitals.HR = tk.Vitals.HR
				out.Vitals.HasHR = true
			}
		}
	}
	return out
}

var (
	anchorLine = regexp.MustCompile(`^(?:Room:?\s*)?[1-4]\d\d$`)
	holdLine   = regexp.MustCompile(`(?i)\b(hold|sbp|hr|pulse|systolic|heart\s+rate)\b`)
)

// medLine picks the medication line out of a block's label text: the first
// line that is neither the room anchor nor hold-rule phrasing.
func medLine(labelLines []string) string {
	for _, ln := range labelLines {
		ln = strings.TrimSpace(ln)
		if ln == "" || anchorLine.MatchString(ln) || holdLine.MatchString(ln) {
			continue
		}
		return ln
	}
	return ""
}
