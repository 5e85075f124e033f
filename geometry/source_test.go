package geometry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jherrick/marlens/model"
)

func TestSliceSourcePages(t *testing.T) {
	src := SliceSource{
		{Index: 0, Tokens: []model.Token{{Text: "Room 201", Page: 0}}},
	}

	pages, err := src.Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 || pages[0].Tokens[0].Text != "Room 201" {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestSliceSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (SliceSource{}).Pages(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestJSONSource(t *testing.T) {
	dump := `[
		{"index": 1, "width": 612, "height": 792,
		 "tokens": [{"text": "BP", "bbox": [10, 20, 30, 32]}],
		 "marks": [{"bbox": [100, 200, 140, 240]}]},
		{"index": 0, "width": 612, "height": 792,
		 "tokens": [{"text": "Room 201", "bbox": [5, 5, 60, 17]}]}
	]`

	path := filepath.Join(t.TempDir(), "geom.json")
	if err := os.WriteFile(path, []byte(dump), 0o600); err != nil {
		t.Fatal(err)
	}

	pages, err := JSONSource{Path: path}.Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].Index != 0 || pages[1].Index != 1 {
		t.Errorf("pages not sorted by index: %d, %d", pages[0].Index, pages[1].Index)
	}
	if pages[1].Tokens[0].Text != "BP" {
		t.Errorf("token text = %q", pages[1].Tokens[0].Text)
	}
	if got := pages[1].Marks[0].BBox; got.X0 != 100 || got.Y1 != 240 {
		t.Errorf("mark bbox = %+v", got)
	}
	if pages[1].Marks[0].Kind != model.MarkDiagonalX {
		t.Error("mark kind not DiagonalX")
	}
}

func TestJSONSourceBadFile(t *testing.T) {
	if _, err := (JSONSource{Path: "/nonexistent/geom.json"}).Pages(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0o600)
	if _, err := (JSONSource{Path: path}).Pages(context.Background()); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
