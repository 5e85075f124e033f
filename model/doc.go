// Package model defines the geometry primitives and domain entities shared
// by every stage of the MAR parse: positioned tokens and vector marks on
// the input side, room blocks and classified tracks in the middle, and
// dose records, rules, outcomes, and skip reasons on the output side.
//
// All entities are created fresh per parse invocation and discarded when
// the caller consumes the returned record set; nothing here persists
// across documents.
package model
