// Package grid 实现可视化网格缓冲区
// 单元格只追加、不修改；光标越过容量后整体清空重新开始
package grid

import "github.com/Kevin-Rudy/visualping/pkg/core"

// DefaultCellSize 默认单元格边长（与原始界面的4x4像素一致）
const DefaultCellSize = 4

// Buffer 循环网格缓冲区
// 非并发安全：调用方（调度器的更新循环）负责串行化所有访问
type Buffer struct {
	cursorX, cursorY int
	width, height    int // 容量
	cellW, cellH     int
	cells            []core.GridCell
	wraps            int // 因写满而清空的次数
}

// NewBuffer 创建网格缓冲区
// 单元格尺寸小于等于0时使用默认值
func NewBuffer(width, height, cellW, cellH int) *Buffer {
	if cellW <= 0 {
		cellW = DefaultCellSize
	}
	if cellH <= 0 {
		cellH = DefaultCellSize
	}
	return &Buffer{
		width:  width,
		height: height,
		cellW:  cellW,
		cellH:  cellH,
	}
}

// Append 在光标处放置一个单元格并推进光标
// 容量不足一个单元格时为空操作
func (b *Buffer) Append(color core.RGB) bool {
	if !b.usable() {
		return false
	}

	// 当前行放不下：换行
	if b.cursorX+b.cellW > b.width {
		b.cursorX = 0
		b.cursorY += b.cellH
	}

	// 写满：清空后从原点重新开始
	if b.cursorY+b.cellH > b.height {
		b.reset()
		b.wraps++
	}

	b.cells = append(b.cells, core.GridCell{X: b.cursorX, Y: b.cursorY, Color: color})
	b.cursorX += b.cellW
	return true
}

// Clear 无条件清空所有单元格并重置光标
func (b *Buffer) Clear() {
	b.reset()
}

// Resize 修改容量，旧布局失效，缓冲区被清空
func (b *Buffer) Resize(width, height int) {
	b.width = width
	b.height = height
	b.reset()
}

// Len 当前单元格数量
func (b *Buffer) Len() int {
	return len(b.cells)
}

// Wraps 因写满而清空的次数
func (b *Buffer) Wraps() int {
	return b.wraps
}

// Capacity 最多能容纳的单元格数量
func (b *Buffer) Capacity() int {
	if !b.usable() {
		return 0
	}
	return (b.width / b.cellW) * (b.height / b.cellH)
}

// Snapshot 返回网格状态的独立副本
func (b *Buffer) Snapshot() core.GridState {
	cells := make([]core.GridCell, len(b.cells))
	copy(cells, b.cells)
	return core.GridState{
		CursorX:        b.cursorX,
		CursorY:        b.cursorY,
		CapacityWidth:  b.width,
		CapacityHeight: b.height,
		CellWidth:      b.cellW,
		CellHeight:     b.cellH,
		Cells:          cells,
	}
}

// usable 容量是否至少能放下一个单元格
func (b *Buffer) usable() bool {
	return b.width >= b.cellW && b.height >= b.cellH
}

func (b *Buffer) reset() {
	b.cells = b.cells[:0]
	b.cursorX = 0
	b.cursorY = 0
}
