package grid

import (
	"testing"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

var green = core.RGB{G: 255}

func TestBufferAppendLayout(t *testing.T) {
	b := NewBuffer(12, 8, 4, 4)

	for i := 0; i < 4; i++ {
		b.Append(green)
	}

	state := b.Snapshot()
	want := []struct{ x, y int }{{0, 0}, {4, 0}, {8, 0}, {0, 4}}
	if len(state.Cells) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(state.Cells))
	}
	for i, w := range want {
		if state.Cells[i].X != w.x || state.Cells[i].Y != w.y {
			t.Errorf("cell %d: expected (%d,%d), got (%d,%d)", i, w.x, w.y, state.Cells[i].X, state.Cells[i].Y)
		}
	}
	if state.CursorX != 4 || state.CursorY != 4 {
		t.Errorf("expected cursor (4,4), got (%d,%d)", state.CursorX, state.CursorY)
	}
}

func TestBufferWrapClearsOnce(t *testing.T) {
	sizes := []struct{ w, h, cw, ch int }{
		{8, 8, 4, 4},
		{400, 100, 4, 4},
		{10, 10, 1, 1},
		{30, 20, 5, 10},
	}

	for _, s := range sizes {
		b := NewBuffer(s.w, s.h, s.cw, s.ch)
		n := (s.w/s.cw)*(s.h/s.ch) + 1
		for i := 0; i < n; i++ {
			b.Append(green)
		}
		if b.Len() != 1 {
			t.Errorf("%+v: expected exactly 1 cell after %d appends, got %d", s, n, b.Len())
		}
		if b.Wraps() != 1 {
			t.Errorf("%+v: expected 1 wrap, got %d", s, b.Wraps())
		}
		cell := b.Snapshot().Cells[0]
		if cell.X != 0 || cell.Y != 0 {
			t.Errorf("%+v: expected surviving cell at origin, got (%d,%d)", s, cell.X, cell.Y)
		}
	}
}

func TestBufferFullStaysVisible(t *testing.T) {
	b := NewBuffer(8, 8, 4, 4)
	for i := 0; i < b.Capacity(); i++ {
		b.Append(green)
	}
	if b.Len() != 4 {
		t.Errorf("a full buffer should keep all cells until the next append, got %d", b.Len())
	}
}

func TestBufferPartialCellDoesNotFit(t *testing.T) {
	// 宽度10只能放下两个4像素单元格
	b := NewBuffer(10, 4, 4, 4)
	b.Append(green)
	b.Append(green)
	b.Append(green)

	if b.Len() != 1 {
		t.Errorf("expected wrap on third append, got %d cells", b.Len())
	}
}

func TestBufferDegenerateCapacity(t *testing.T) {
	sizes := [][2]int{{0, 0}, {0, 100}, {100, 0}, {-4, 8}, {8, -4}, {3, 3}}
	for _, s := range sizes {
		b := NewBuffer(s[0], s[1], 4, 4)
		if b.Append(green) {
			t.Errorf("%v: Append should report no-op", s)
		}
		state := b.Snapshot()
		if len(state.Cells) != 0 || state.CursorX != 0 || state.CursorY != 0 {
			t.Errorf("%v: degenerate buffer should not change, got %+v", s, state)
		}
		if b.Capacity() != 0 {
			t.Errorf("%v: expected capacity 0, got %d", s, b.Capacity())
		}
	}
}

func TestBufferClearAndResize(t *testing.T) {
	b := NewBuffer(16, 16, 4, 4)
	for i := 0; i < 6; i++ {
		b.Append(green)
	}

	b.Clear()
	if state := b.Snapshot(); len(state.Cells) != 0 || state.CursorX != 0 || state.CursorY != 0 {
		t.Errorf("Clear should reset buffer, got %+v", state)
	}

	b.Append(green)
	b.Resize(32, 32)
	state := b.Snapshot()
	if len(state.Cells) != 0 {
		t.Errorf("Resize should clear cells, got %d", len(state.Cells))
	}
	if state.CapacityWidth != 32 || state.CapacityHeight != 32 {
		t.Errorf("expected capacity 32x32, got %dx%d", state.CapacityWidth, state.CapacityHeight)
	}
}

func TestBufferSnapshotIsIndependent(t *testing.T) {
	b := NewBuffer(16, 16, 4, 4)
	b.Append(green)
	snap := b.Snapshot()
	snap.Cells[0].Color = core.RGB{R: 1}

	b.Clear()
	b.Append(core.RGB{B: 9})
	if snap.Cells[0].Color != (core.RGB{R: 1}) {
		t.Error("snapshot should not alias buffer storage")
	}
	if b.Snapshot().Cells[0].Color != (core.RGB{B: 9}) {
		t.Error("buffer should not see snapshot mutations")
	}
}

func TestBufferDefaultCellSize(t *testing.T) {
	b := NewBuffer(16, 16, 0, -1)
	state := b.Snapshot()
	if state.CellWidth != DefaultCellSize || state.CellHeight != DefaultCellSize {
		t.Errorf("expected default cell size, got %dx%d", state.CellWidth, state.CellHeight)
	}
}
