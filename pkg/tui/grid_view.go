// Package tui 网格绘制模块
package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/visualping/pkg/core"
)

// columnsPerCell 每个网格单元占两个字符宽，视觉上接近正方形
const columnsPerCell = 2

// gridView 将网格快照绘制为彩色方块
type gridView struct {
	*tview.Box

	cellWidth  int // 与引擎一致的单元尺寸（像素）
	cellHeight int

	mu      sync.Mutex
	state   core.GridState
	visible bool

	// 可绘制区域变化时通知引擎调整网格容量
	lastWidth, lastHeight int
	onResize              func(width, height int)

	// 同一时刻最多一个goroutine调用onResize，且只应用最新的尺寸
	resizeMu           sync.Mutex
	resizing           bool
	pendingW, pendingH int
	appliedW, appliedH int
}

func newGridView(cellWidth, cellHeight int, onResize func(width, height int)) *gridView {
	return &gridView{
		Box:        tview.NewBox(),
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		visible:    true,
		onResize:   onResize,
	}
}

// update 替换要绘制的网格快照
func (g *gridView) update(state core.GridState, visible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.visible = visible
}

// Draw 实现tview.Primitive接口
func (g *gridView) Draw(screen tcell.Screen) {
	g.Box.DrawForSubclass(screen, g)
	x, y, width, height := g.GetInnerRect()

	g.mu.Lock()
	defer g.mu.Unlock()

	if width != g.lastWidth || height != g.lastHeight {
		g.lastWidth, g.lastHeight = width, height
		if g.onResize != nil {
			// 调整容量会阻塞到引擎的更新循环，不能在绘制中等待
			g.requestResize(capacityFor(width, height, g.cellWidth, g.cellHeight))
		}
	}

	if !g.visible {
		tview.Print(screen, "[gray]网格已隐藏，按 g 显示[white]", x, y+height/2, width, tview.AlignCenter, tcell.ColorGray)
		return
	}

	for _, cell := range g.state.Cells {
		col, row := cellPosition(cell, g.state)
		sx := x + col*columnsPerCell
		sy := y + row
		if col < 0 || row < 0 || sx+columnsPerCell > x+width || sy >= y+height {
			continue
		}
		style := tcell.StyleDefault.Background(rgbColor(cell.Color))
		for i := 0; i < columnsPerCell; i++ {
			screen.SetContent(sx+i, sy, ' ', nil, style)
		}
	}
}

// requestResize 记录最新容量，必要时启动唯一的应用goroutine
func (g *gridView) requestResize(width, height int) {
	g.resizeMu.Lock()
	defer g.resizeMu.Unlock()

	g.pendingW, g.pendingH = width, height
	if g.resizing {
		return
	}
	g.resizing = true
	go g.applyResizes()
}

// applyResizes 依次应用尺寸变化，直到已应用的尺寸等于最新请求
func (g *gridView) applyResizes() {
	for {
		g.resizeMu.Lock()
		w, h := g.pendingW, g.pendingH
		if w == g.appliedW && h == g.appliedH {
			g.resizing = false
			g.resizeMu.Unlock()
			return
		}
		g.appliedW, g.appliedH = w, h
		g.resizeMu.Unlock()

		g.onResize(w, h)
	}
}

// capacityFor 将字符区域换算为网格容量（像素）
func capacityFor(columns, rows, cellWidth, cellHeight int) (int, int) {
	return columns / columnsPerCell * cellWidth, rows * cellHeight
}

// cellSize 返回快照中的单元尺寸，未设置时按1处理
func cellSize(state core.GridState) (int, int) {
	cw, ch := state.CellWidth, state.CellHeight
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	return cw, ch
}

// cellPosition 将像素坐标换算为网格的列和行
func cellPosition(cell core.GridCell, state core.GridState) (col, row int) {
	cw, ch := cellSize(state)
	return cell.X / cw, cell.Y / ch
}

func rgbColor(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
