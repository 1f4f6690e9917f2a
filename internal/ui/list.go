package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/minsung-dev/choomup/internal/models"
)

var (
	_ list.Item = folderItem{}
	_ list.Item = entryItem{}
)

// folderItem wraps a catalog folder name to implement [list.Item].
type folderItem struct {
	name  string
	count int
}

func (i folderItem) FilterValue() string { return i.name }
func (i folderItem) Title() string       { return i.name }
func (i folderItem) Description() string {
	return fmt.Sprintf("%d files", i.count)
}

// entryItem wraps [models.CatalogEntry] to implement [list.Item].
type entryItem struct {
	entry models.CatalogEntry
}

func (i entryItem) FilterValue() string { return i.entry.OriginalFilename }
func (i entryItem) Title() string       { return i.entry.OriginalFilename }
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.entry.Artist.Or("?"), i.entry.Title.Or("?"))
	if i.entry.Confidence != "" {
		desc = fmt.Sprintf("%s • %s confidence", desc, i.entry.Confidence)
	}
	return desc
}
