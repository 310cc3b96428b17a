// Package main is a minimal terminal demo of the editkit engine: it feeds
// keystrokes to the delta reconciler and renders the reconciled document.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editkit/internal/config"
	"github.com/dshills/editkit/internal/engine"
	"github.com/dshills/editkit/internal/engine/selection"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to editkit.toml")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			return 1
		}
	}

	content := ""
	if flag.NArg() > 0 {
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", flag.Arg(0), err)
			return 1
		}
		content = string(data)
	}

	opts := append(cfg.EngineOptions(), engine.WithContent(content))
	eng := engine.New(opts...)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	// Repaint on every committed engine change.
	dirtyCh := make(chan struct{}, 1)
	eng.AddListener(func(engine.Notification) {
		select {
		case dirtyCh <- struct{}{}:
		default:
		}
	})

	d := &demo{eng: eng, screen: screen}
	d.draw()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !d.handleKey(ev) {
				return 0
			}
		}
		// Drain any listener wakeup; drawing below covers it.
		select {
		case <-dirtyCh:
		default:
		}
		d.draw()
	}
}

type demo struct {
	eng    *engine.Engine
	screen tcell.Screen
	top    uint32 // first visible line
}

// handleKey translates one key event into engine calls. Returns false on
// quit.
func (d *demo) handleKey(ev *tcell.EventKey) bool {
	eng := d.eng
	sel := eng.Selection()
	extend := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return false
	case tcell.KeyCtrlZ:
		_ = eng.Undo()
	case tcell.KeyCtrlY:
		_ = eng.Redo()
	case tcell.KeyLeft:
		eng.MoveLeft(extend)
	case tcell.KeyRight:
		eng.MoveRight(extend)
	case tcell.KeyUp:
		eng.MoveUp(extend)
	case tcell.KeyDown:
		eng.MoveDown(extend)
	case tcell.KeyHome:
		eng.MoveHome(extend)
	case tcell.KeyEnd:
		eng.MoveEnd(extend)
	case tcell.KeyEnter:
		d.insert(sel, "\n")
	case tcell.KeyTab:
		d.insert(sel, "\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if !sel.IsEmpty() {
			d.deleteRange(sel.Start(), sel.End())
		} else if sel.Caret > 0 {
			d.deleteRange(sel.Caret-1, sel.Caret)
		}
	case tcell.KeyDelete:
		if !sel.IsEmpty() {
			d.deleteRange(sel.Start(), sel.End())
		} else if sel.Caret < eng.Len() {
			d.deleteRange(sel.Caret, sel.Caret+1)
		}
	case tcell.KeyRune:
		d.insert(sel, string(ev.Rune()))
	}
	return true
}

// insert replaces an active selection, otherwise inserts at the caret.
func (d *demo) insert(sel engine.Selection, text string) {
	if !sel.IsEmpty() {
		d.eng.ApplyDeltas([]engine.Delta{
			engine.ReplaceDelta(sel.Start(), sel.End(),
				text, selection.Cursor(sel.Start()+engine.ByteOffset(len(text)))),
		})
		return
	}
	d.eng.ApplyDeltas([]engine.Delta{
		engine.InsertDelta(sel.Caret, text,
			selection.Cursor(sel.Caret+engine.ByteOffset(len(text)))),
	})
}

func (d *demo) deleteRange(start, end engine.ByteOffset) {
	d.eng.ApplyDeltas([]engine.Delta{
		engine.DeleteDelta(start, end, selection.Cursor(start)),
	})
}

func (d *demo) draw() {
	screen := d.screen
	eng := d.eng
	screen.Clear()

	width, height := screen.Size()
	if height < 2 {
		return
	}
	viewRows := height - 1

	sel := eng.Selection()
	caretLine := eng.LineAtOffset(sel.Caret)
	caretCol := int(sel.Caret - eng.LineStartOffset(caretLine))

	// Keep the caret on screen.
	if caretLine < d.top {
		d.top = caretLine
	}
	if caretLine >= d.top+uint32(viewRows) {
		d.top = caretLine - uint32(viewRows) + 1
	}

	style := tcell.StyleDefault
	lines := eng.Lines()
	for row := 0; row < viewRows; row++ {
		idx := int(d.top) + row
		if idx >= len(lines) {
			break
		}
		col := 0
		for _, r := range lines[idx] {
			if col >= width {
				break
			}
			if r == '\t' {
				col += 4
				continue
			}
			screen.SetContent(col, row, r, nil, style)
			col++
		}
	}

	status := fmt.Sprintf(" %d:%d  v%d  ^Q quit  ^Z undo  ^Y redo",
		caretLine+1, caretCol+1, eng.Version())
	statusStyle := style.Reverse(true)
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(status) {
			r = rune(status[col])
		}
		screen.SetContent(col, height-1, r, nil, statusStyle)
	}

	screen.ShowCursor(caretCol, int(caretLine-d.top))
	screen.Show()
	eng.ClearDirty()
}
