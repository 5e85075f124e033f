package geometry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jherrick/marlens/model"
)

// jsonPage mirrors Page in the dump format produced by rendering front
// ends. Boxes are [x0, y0, x1, y1] in top-left origin page coordinates.
type jsonPage struct {
	Index  int         `json:"index"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Tokens []jsonToken `json:"tokens"`
	Marks  []jsonMark  `json:"marks,omitempty"`
}

type jsonToken struct {
	Text string     `json:"text"`
	BBox [4]float64 `json:"bbox"`
}

type jsonMark struct {
	BBox [4]float64 `json:"bbox"`
}

// JSONSource reads page geometry from a JSON dump file. The file holds an
// array of pages; page order in the file is irrelevant, pages are sorted by
// index before they are returned.
type JSONSource struct {
	Path string
}

// Pages loads and decodes the dump file.
func (s JSONSource) Pages(ctx context.Context) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading geometry dump: %w", err)
	}

	var raw []jsonPage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding geometry dump %s: %w", s.Path, err)
	}

	pages := make([]Page, 0, len(raw))
	for _, rp := range raw {
		p := Page{
			Index:  rp.Index,
			Width:  rp.Width,
			Height: rp.Height,
		}
		for _, tok := range rp.Tokens {
			p.Tokens = append(p.Tokens, model.Token{
				Text: tok.Text,
				BBox: model.NewBBox(tok.BBox[0], tok.BBox[1], tok.BBox[2], tok.BBox[3]),
				Page: rp.Index,
			})
		}
		for _, mk := range rp.Marks {
			p.Marks = append(p.Marks, model.VectorMark{
				Kind: model.MarkDiagonalX,
				BBox: model.NewBBox(mk.BBox[0], mk.BBox[1], mk.BBox[2], mk.BBox[3]),
				Page: rp.Index,
			})
		}
		pages = append(pages, p)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	return pages, nil
}
