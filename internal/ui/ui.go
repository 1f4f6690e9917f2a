package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/minsung-dev/choomup/internal/models"
)

// ViewState represents the current view in the picker.
type ViewState int

const (
	FolderListView ViewState = iota
	EntryListView
	ConfirmView
	DoneView
)

// CatalogBrowser is the slice of the catalog store the picker needs.
type CatalogBrowser interface {
	Folders() []string
	Entries(folder string) []models.CatalogEntry
	RemoveEntry(folder, filename string) error
}

// Model represents the picker application state.
type Model struct {
	catalog        CatalogBrowser
	view           ViewState
	width          int
	height         int
	folderList     list.Model
	entryList      list.Model
	selectedFolder string
	selectedEntry  *models.CatalogEntry
	removed        int
	err            error
	help           help.Model
	keys           keyMap
}

// keyMap defines the key bindings for the picker.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.quit},
	}
}

// NewModel creates a picker over the given catalog.
func NewModel(catalog CatalogBrowser) *Model {
	m := &Model{
		catalog: catalog,
		view:    FolderListView,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.folderList = list.New(m.folderItems(), list.NewDefaultDelegate(), 0, 0)
	m.folderList.Title = "Catalog Folders"
	return m
}

func (m *Model) folderItems() []list.Item {
	folders := m.catalog.Folders()
	items := make([]list.Item, len(folders))
	for i, f := range folders {
		items[i] = folderItem{name: f, count: len(m.catalog.Entries(f))}
	}
	return items
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the picker state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.folderList.SetSize(msg.Width-4, msg.Height-8)
		m.entryList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case FolderListView:
			return m.handleFolderKeys(msg)
		case EntryListView:
			return m.handleEntryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DoneView:
			return m, tea.Quit
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleFolderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) {
		item, ok := m.folderList.SelectedItem().(folderItem)
		if !ok {
			return m, nil
		}
		m.selectedFolder = item.name

		entries := m.catalog.Entries(item.name)
		items := make([]list.Item, len(entries))
		for i, e := range entries {
			items[i] = entryItem{entry: e}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.entryList.Title = fmt.Sprintf("Files in '%s'", item.name)
		m.view = EntryListView
		return m, nil
	}

	var cmd tea.Cmd
	m.folderList, cmd = m.folderList.Update(msg)
	return m, cmd
}

func (m *Model) handleEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = FolderListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.entryList.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		entry := item.entry
		m.selectedEntry = &entry
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		if err := m.catalog.RemoveEntry(m.selectedFolder, m.selectedEntry.OriginalFilename); err != nil {
			m.err = err
			m.view = DoneView
			return m, nil
		}
		m.removed++
		m.view = DoneView
		return m, nil
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.selectedEntry = nil
		m.view = EntryListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FolderListView:
		m.folderList, cmd = m.folderList.Update(msg)
	case EntryListView:
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

// View renders the picker based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case FolderListView:
		return m.folderList.View() + "\n" + m.help.View(m.keys)
	case EntryListView:
		return m.entryList.View() + "\n" + m.help.View(m.keys)
	case ConfirmView:
		return styles.title.Render("Remove catalog entry?") + "\n\n" +
			fmt.Sprintf("  %s\n  %s - %s\n\n",
				m.selectedEntry.OriginalFilename,
				m.selectedEntry.Artist.Or("?"), m.selectedEntry.Title.Or("?")) +
			styles.warn.Render("This rewrites the catalog file.") + "\n\n" +
			styles.help.Render("y to confirm • n to cancel")
	case DoneView:
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
		}
		return styles.ok.Render(fmt.Sprintf("Removed %d entry from '%s'", m.removed, m.selectedFolder)) + "\n"
	}
	return ""
}

// Err returns the removal error, if any, after the program exits.
func (m *Model) Err() error {
	return m.err
}
