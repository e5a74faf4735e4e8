// Package picker holds the application state behind the interactive
// column selector. It is a plain finite-state model driven by
// discrete input events, with no terminal dependency, so the whole
// selection flow can be exercised in tests. Rendering and key
// handling live with the caller.
package picker

import (
	"github.com/fraugster/csv2parquet"
)

// Panel identifies which list currently has focus.
type Panel int

const (
	PanelFiles Panel = iota
	PanelColumns
)

// Event is a discrete input applied to the model.
type Event int

const (
	// EventNext moves the selection down in the active panel.
	EventNext Event = iota
	// EventPrev moves the selection up in the active panel.
	EventPrev
	// EventToggle flips the selected column's inclusion.
	EventToggle
	// EventSwitchPanel moves focus between the file and column lists.
	EventSwitchPanel
)

// Column is one selectable column of the current file's schema.
type Column struct {
	Name     string
	Type     csv2parquet.Type
	Selected bool
}

// SchemaLoader loads the deduplicated schema of one file. It is
// injected so the model never touches the filesystem itself.
type SchemaLoader func(path string) (csv2parquet.Schema, error)

// App is the selector's full state. Mutate it only through Apply and
// the exported setters; reads are free.
type App struct {
	Files       []string
	FileIndex   int
	Columns     []Column
	ColumnIndex int
	Active      Panel
	Message     string

	load SchemaLoader
}

// NewApp builds a selector over files. The column list of the first
// file is loaded immediately.
func NewApp(files []string, load SchemaLoader) *App {
	a := &App{Files: files, load: load}
	a.reloadColumns()
	return a
}

// Apply advances the state machine by one input event.
func (a *App) Apply(ev Event) {
	switch ev {
	case EventNext:
		if a.Active == PanelFiles {
			a.step(1)
		} else {
			a.stepColumn(1)
		}
	case EventPrev:
		if a.Active == PanelFiles {
			a.step(-1)
		} else {
			a.stepColumn(-1)
		}
	case EventToggle:
		if a.Active == PanelColumns && a.ColumnIndex < len(a.Columns) {
			a.Columns[a.ColumnIndex].Selected = !a.Columns[a.ColumnIndex].Selected
		}
	case EventSwitchPanel:
		if a.Active == PanelFiles {
			a.Active = PanelColumns
		} else {
			a.Active = PanelFiles
		}
	}
}

// CurrentFile returns the highlighted file path, or "" when there are
// no files.
func (a *App) CurrentFile() string {
	if len(a.Files) == 0 {
		return ""
	}
	return a.Files[a.FileIndex]
}

// SelectedColumns returns the names of all columns currently toggled
// on, in schema order.
func (a *App) SelectedColumns() []string {
	var names []string
	for _, c := range a.Columns {
		if c.Selected {
			names = append(names, c.Name)
		}
	}
	return names
}

// step moves the file cursor with wraparound and reloads the column
// list for the newly selected file.
func (a *App) step(delta int) {
	if len(a.Files) == 0 {
		return
	}
	a.FileIndex = (a.FileIndex + delta + len(a.Files)) % len(a.Files)
	a.reloadColumns()
}

func (a *App) stepColumn(delta int) {
	if len(a.Columns) == 0 {
		return
	}
	a.ColumnIndex = (a.ColumnIndex + delta + len(a.Columns)) % len(a.Columns)
}

func (a *App) reloadColumns() {
	a.Columns = nil
	a.ColumnIndex = 0
	path := a.CurrentFile()
	if path == "" || a.load == nil {
		return
	}
	schema, err := a.load(path)
	if err != nil {
		a.Message = "error reading schema: " + err.Error()
		return
	}
	for _, f := range schema.Fields {
		a.Columns = append(a.Columns, Column{Name: f.Name, Type: f.Type, Selected: true})
	}
	a.Message = ""
}
