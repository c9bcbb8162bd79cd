// Package tui 布局管理模块
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// summaryHeaders 统计行各列的标题，顺序与summaryValues一致
var summaryHeaders = []string{"状态", "当前", "平均", "丢包率", "发送", "丢失", "最小", "最大", "间隔", "超时"}

// setupUI 设置用户界面布局
func (t *TUI) setupUI() {
	t.input = tview.NewInputField()
	t.input.SetLabel("目标地址: ")
	t.input.SetText(t.snapshot.Address)
	t.input.SetFieldWidth(40)
	t.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			t.snapshot.Address = t.input.GetText()
			t.toggleProbing()
			t.app.SetFocus(t.grid)
		case tcell.KeyEscape, tcell.KeyTab:
			t.app.SetFocus(t.grid)
		}
	})

	t.grid = newGridView(t.tuiConfig.CellWidth, t.tuiConfig.CellHeight, func(width, height int) {
		t.engine.Resize(width, height)
	})
	t.grid.SetBorder(true)
	t.grid.SetTitle(" 延迟网格 ")

	t.statusBar = tview.NewTextView()
	t.statusBar.SetDynamicColors(true)

	// 创建主垂直布局
	t.flex = tview.NewFlex()
	t.flex.SetDirection(tview.FlexRow)
	t.flex.AddItem(t.input, 1, 0, false)
	t.flex.AddItem(t.createHeaderRow(), 1, 0, false)
	t.flex.AddItem(t.createDataRow(), 1, 0, false)
	t.flex.AddItem(t.grid, 0, 1, true)
	t.flex.AddItem(t.statusBar, 1, 0, false)

	t.app.SetRoot(t.flex, true)
	t.app.SetFocus(t.grid)
	t.render()
}

// createHeaderRow 创建表头行
func (t *TUI) createHeaderRow() *tview.Flex {
	headerFlex := tview.NewFlex()
	headerFlex.SetDirection(tview.FlexColumn)

	for _, header := range summaryHeaders {
		headerText := tview.NewTextView()
		headerText.SetText(fmt.Sprintf("[yellow]%s[white]", header))
		headerText.SetDynamicColors(true)
		headerText.SetTextAlign(tview.AlignCenter)
		headerFlex.AddItem(headerText, 0, 1, false)
	}

	return headerFlex
}

// createDataRow 创建数据行，保留各列的引用以便更新
func (t *TUI) createDataRow() *tview.Flex {
	rowFlex := tview.NewFlex()
	rowFlex.SetDirection(tview.FlexColumn)

	t.dataCells = make([]*tview.TextView, len(summaryHeaders))
	for i := range summaryHeaders {
		dataText := tview.NewTextView()
		dataText.SetDynamicColors(true)
		dataText.SetTextAlign(tview.AlignCenter)
		dataText.SetTextColor(tcell.ColorWhite)
		rowFlex.AddItem(dataText, 0, 1, false)
		t.dataCells[i] = dataText
	}

	return rowFlex
}

// render 用最新状态更新所有组件，只能在UI goroutine中调用
func (t *TUI) render() {
	if t.testMode {
		return
	}

	state := t.currentState()

	values := summaryValues(state)
	for i, cell := range t.dataCells {
		cell.SetText(values[i])
	}

	if state.Running {
		t.input.SetLabelColor(tcell.ColorGreen)
	} else {
		t.input.SetLabelColor(tcell.ColorYellow)
	}

	t.grid.update(state.Grid, t.snapshot.ShowGrid)
	t.statusBar.SetText(t.statusLine(t.now()))
}

// safeUIUpdate 安全地执行UI更新操作
func (t *TUI) safeUIUpdate(updateFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			// 如果应用已经停止，忽略panic
			t.logger.Debug("ui update after stop", "panic", r)
		}
	}()
	t.app.QueueUpdateDraw(updateFunc)
}
