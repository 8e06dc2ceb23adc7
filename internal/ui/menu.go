// Package ui holds the terminal widgets: the list selector, the text
// prompt and the busy spinner.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/yankeexe/ollama-manager/internal/selection"
)

const (
	markOn  = "(*) "
	markOff = "( ) "
)

// picker is the selection state behind a Menu.
type picker struct {
	items  []string
	multi  bool
	marked []bool
}

func newPicker(items []string, multi bool) *picker {
	return &picker{items: items, multi: multi, marked: make([]bool, len(items))}
}

func (p *picker) label(i int) string {
	text := tview.Escape(p.items[i])
	if !p.multi {
		return text
	}
	if p.marked[i] {
		return markOn + text
	}
	return markOff + text
}

func (p *picker) toggle(i int) {
	if p.multi && i >= 0 && i < len(p.marked) {
		p.marked[i] = !p.marked[i]
	}
}

// confirm returns the chosen indices when enter is pressed on cursor.
// In multi mode with nothing marked the highlighted row is taken.
func (p *picker) confirm(cursor int) []int {
	if !p.multi {
		return []int{cursor}
	}
	var picked []int
	for i, m := range p.marked {
		if m {
			picked = append(picked, i)
		}
	}
	if len(picked) == 0 {
		picked = []int{cursor}
	}
	return picked
}

// Menu is a full-screen list selector. It implements selection.Selector.
type Menu struct {
	// Screen overrides the terminal, e.g. with a simulation screen.
	Screen tcell.Screen
}

// Select shows items under title and blocks until the user picks or
// cancels. Enter picks, space marks rows in multi mode, and esc, q or
// ctrl-c cancel.
func (m *Menu) Select(title string, items []string, multi bool) ([]int, error) {
	if len(items) == 0 {
		return nil, selection.ErrEmptyResult
	}

	p := newPicker(items, multi)
	app := tview.NewApplication()
	if m.Screen != nil {
		app.SetScreen(m.Screen)
	}

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetWrapAround(false)
	list.SetBorder(true).
		SetTitle(" " + tview.Escape(title) + " ").
		SetTitleAlign(tview.AlignLeft)
	for i := range items {
		list.AddItem(p.label(i), "", 0, nil)
	}

	var picked []int
	list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		picked = p.confirm(i)
		app.Stop()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			app.Stop()
			return nil
		case tcell.KeyRune:
			cur := list.GetCurrentItem()
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case ' ':
				p.toggle(cur)
				list.SetItemText(cur, p.label(cur), "")
				return nil
			case 'j':
				if cur < list.GetItemCount()-1 {
					list.SetCurrentItem(cur + 1)
				}
				return nil
			case 'k':
				if cur > 0 {
					list.SetCurrentItem(cur - 1)
				}
				return nil
			}
		}
		return event
	})

	hint := "[gray]enter[-] select  [gray]esc/q[-] cancel"
	if multi {
		hint = "[gray]space[-] mark  " + hint
	}
	footer := tview.NewTextView().SetDynamicColors(true).SetText(hint)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(list, 0, 1, true).
		AddItem(footer, 1, 0, false)

	if err := app.SetRoot(root, true).SetFocus(list).Run(); err != nil {
		return nil, fmt.Errorf("run selector: %w", err)
	}
	if picked == nil {
		return nil, selection.ErrSelectionCancelled
	}
	return picked, nil
}
