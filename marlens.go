// Package marlens extracts medication-dose records from MAR page geometry
// and classifies each scheduled dose against the prescriber's hold rules.
//
// The entry point is a fluent Auditor over a geometry.Source:
//
//	recs, warnings, err := marlens.FromSource(src).
//	    Options(opts).
//	    Parse(ctx)
//
// Parsing recovers the day-column grid from positioned tokens, partitions
// pages into per-room blocks, reads each due cell, and classifies it as
// HOLD-MISS, HELD-APPROPRIATE, COMPLIANT, or DC'D. Anything that cannot be
// resolved deterministically is excluded with an auditable reason; nothing
// is guessed. Identifying header text is scrubbed before any buffering,
// and re-running on identical input produces byte-identical results.
package marlens
