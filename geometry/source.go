// Package geometry defines the narrow capability boundary between the MAR
// parser and whatever renders document pages. A Source yields, per page, an
// ordered sequence of positioned text tokens and vector marks; the parser
// never sees page bytes. This keeps the core testable against synthetic
// fixtures with no rendering dependency.
package geometry

import (
	"context"

	"github.com/jherrick/marlens/model"
)

// Page is the geometry extracted from one document page. A page with no
// tokens and no marks contributes nothing to the parse; it is not an error.
type Page struct {
	Index  int
	Width  float64
	Height float64
	Tokens []model.Token
	Marks  []model.VectorMark
}

// Source supplies page geometry for one document. Pages is the only
// suspension point in a parse pass: implementations may perform I/O and
// should honor ctx cancellation.
type Source interface {
	Pages(ctx context.Context) ([]Page, error)
}

// SliceSource wraps in-memory pages. It is the fixture vehicle for tests
// and the adapter for callers that already hold extracted geometry.
type SliceSource []Page

// Pages returns the wrapped pages unchanged.
func (s SliceSource) Pages(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
