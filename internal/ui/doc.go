// Package ui implements the interactive catalog maintenance picker using
// bubbletea's Elm architecture.
//
// The picker is a three-view workflow for removing failed entries from the
// asset catalog:
//  1. [FolderListView] : Browse catalog folders
//  2. [EntryListView] : Browse a folder's entries with extracted metadata
//  3. [ConfirmView] : Confirm removal of the selected entry
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
