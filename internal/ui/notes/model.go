// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/config"
	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/logging"
	"github.com/jeranaias/webnote/internal/session"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/ui/styles"
	"github.com/jeranaias/webnote/internal/workspace"
)

// Region IDs registered in the hit map while rendering.
const (
	regionEditor     = "editor"
	regionCanvas     = "canvas"
	regionColor      = "color"
	regionBrush      = "brush"
	regionPopup      = "popup"
	regionModal      = "modal"
	regionHistoryRow = "history-row"
	regionExportRow  = "export-row"
)

// Screen rows used by the chrome around the body.
const (
	tabBarHeight    = 1
	statusBarHeight = 1
	editorPadX      = 1
)

// =============================================================================
// MODEL
// =============================================================================

// Options configures a Model. Every field is optional; without a Store notes
// are not persisted.
type Options struct {
	Config   *config.Config
	Theme    *styles.Theme
	Store    storage.Store
	Watcher  *storage.Watcher
	Registry *commands.Registry
	Logger   *log.Logger
}

// Model is the note editor application: tabs of rich-text notes with a
// slash-command palette, a drawing canvas per tab, auto-save, history and
// export.
type Model struct {
	cfg      *config.Config
	theme    *styles.Theme
	keys     KeyMap
	logger   *log.Logger
	registry *commands.Registry

	store      storage.Store
	watcher    *storage.Watcher
	exportOpts *export.Options

	// Tabs and their per-tab state, keyed by tab ID
	ws       *workspace.Workspace
	sessions map[string]*commands.Session
	scroll   map[string]int  // first visible editor line
	renamed  map[string]bool // title set by the user
	saving   map[string]bool // save in flight
	pending  map[string]bool // save requested while saving
	autosave *session.Manager

	pen pen

	// Components
	tabBar *components.TabBar
	popup  *components.CommandPopup
	status *components.StatusBar
	hits   *components.HitMap

	// Overlays
	overlay   overlay
	history   historyState
	exportSel int
	rename    textinput.Model
	preview   viewport.Model

	width, height int
	quitting      bool
}

// New creates the application model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	reg := opts.Registry
	if reg == nil {
		reg = commands.DefaultRegistry()
	}

	m := Model{
		cfg:        cfg,
		theme:      theme,
		keys:       DefaultKeyMap(),
		logger:     logger,
		registry:   reg,
		store:      opts.Store,
		watcher:    opts.Watcher,
		exportOpts: ExportOptions(cfg),
		ws:         workspace.New(cfg.Editor.CanvasWidth, cfg.Editor.CanvasHeight),
		sessions:   make(map[string]*commands.Session),
		scroll:     make(map[string]int),
		renamed:    make(map[string]bool),
		saving:     make(map[string]bool),
		pending:    make(map[string]bool),
		autosave:   session.NewManager(autosaveConfig(cfg)),
		tabBar:     components.NewTabBar(theme),
		popup:      components.NewCommandPopup(theme),
		status:     components.NewStatusBar(theme),
		hits:       components.NewHitMap(),
		history:    newHistoryState(),
		rename:     newRenameInput(),
		width:      80,
		height:     24,
	}
	m.popup.SetMaxVisible(cfg.Editor.MaxSuggestions)
	m.status.ShowCounts = cfg.UI.ShowWordCount
	m.status.AutoSave = cfg.Editor.AutoSave
	for _, tab := range m.ws.Tabs() {
		m.setupTab(tab)
	}
	return m
}

// Init starts the safety-save timer, restores the last note and starts
// listening for changes made elsewhere.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.autosave.TickCmd()}
	if m.store != nil && m.cfg.Editor.RestoreLast {
		cmds = append(cmds, loadLatestCmd(m.store))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.cfg.UI.Mouse {
			return m, nil
		}
		return m.handleMouse(msg)

	// Auto-save
	case session.DebounceMsg:
		if !m.autosave.Ready(msg) {
			return m, nil
		}
		tab, ok := m.ws.Get(msg.Key)
		if !ok {
			return m, nil
		}
		return m, m.saveTab(tab, false)

	case session.TickMsg:
		keys, next := m.autosave.HandleTick()
		cmds := []tea.Cmd{next}
		for _, k := range keys {
			if tab, ok := m.ws.Get(k); ok {
				cmds = append(cmds, m.saveTab(tab, false))
			}
		}
		return m, tea.Batch(cmds...)

	case session.IndicatorExpiredMsg:
		return m, nil

	// Persistence
	case noteSavedMsg:
		return m.handleNoteSaved(msg)
	case latestLoadedMsg:
		return m.handleLatestLoaded(msg)
	case noteOpenedMsg:
		return m.handleNoteOpened(msg)
	case noteReloadedMsg:
		return m.handleNoteReloaded(msg)
	case storeChangedMsg:
		return m.handleStoreChanged(msg)

	// History
	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	case historyPreviewMsg:
		return m.handleHistoryPreview(msg)
	case noteDeletedMsg:
		return m.handleNoteDeleted(msg)

	// Export and clipboard
	case exportDoneMsg:
		return m.handleExportDone(msg)
	case clipboardMsg:
		return m.handleClipboard(msg)
	}

	// Cursor blink and other textinput messages.
	var cmd tea.Cmd
	switch m.overlay {
	case overlayHistory:
		m.history.search, cmd = m.history.search.Update(msg)
	case overlayRename:
		m.rename, cmd = m.rename.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.status.SetWidth(msg.Width)
	m.popup.SetWidth(min(48, max(msg.Width-4, 20)))
	m.followCaret()
	if m.overlay == overlayPreview {
		return m.openPreview()
	}
	return m, nil
}

// =============================================================================
// TAB HELPERS
// =============================================================================

// setupTab applies the brush defaults to a tab and (re)creates its command
// session. Call it whenever a tab gets a new document.
func (m *Model) setupTab(tab *workspace.Tab) {
	if m.cfg.Editor.BrushColor != "" {
		if err := tab.Canvas.SetColor(m.cfg.Editor.BrushColor); err != nil {
			m.logger.Warn("invalid brush color", "color", m.cfg.Editor.BrushColor, "err", err)
		}
	}
	if m.cfg.Editor.BrushSize > 0 {
		tab.Canvas.SetBrush(m.cfg.Editor.BrushSize)
	}
	m.sessions[tab.ID] = commands.NewSession(m.registry, tab.Doc,
		commands.WithLogger(logging.Component(m.logger, "commands")))
	m.autosave.Track(tab.ID, tab.Rev())
}

// dropTab forgets the state of a closed tab.
func (m *Model) dropTab(id string) {
	delete(m.sessions, id)
	delete(m.scroll, id)
	delete(m.renamed, id)
	delete(m.pending, id)
	if !m.saving[id] {
		m.autosave.Forget(id)
	}
}

// sessionFor returns the command session of a tab.
func (m *Model) sessionFor(tab *workspace.Tab) *commands.Session {
	s, ok := m.sessions[tab.ID]
	if !ok {
		m.setupTab(tab)
		s = m.sessions[tab.ID]
	}
	return s
}

// blurActive hides the palette and lifts the pen of the active tab before
// focus moves elsewhere.
func (m *Model) blurActive() {
	tab := m.ws.Active()
	if tab == nil {
		return
	}
	if s, ok := m.sessions[tab.ID]; ok {
		s.Blur()
	}
	if m.pen.Down {
		m.liftPen(tab)
	}
}

// afterEdit refreshes the palette and scroll position after the document
// of tab changed and schedules an auto-save.
func (m *Model) afterEdit(tab *workspace.Tab) tea.Cmd {
	m.sessionFor(tab).ContentChanged()
	m.followCaret()
	m.status.SetMessage("", false)
	return m.autosave.Observe(tab.ID, tab.Rev())
}

// newTab opens an empty tab and makes it active.
func (m *Model) newTab() {
	m.blurActive()
	tab := m.ws.NewTab()
	m.setupTab(tab)
}

// closeTab closes the active tab. Unsaved changes are saved first; the save
// completes even though the tab is gone.
func (m *Model) closeTab() tea.Cmd {
	tab := m.ws.Active()
	if tab == nil {
		return nil
	}
	m.blurActive()
	var cmd tea.Cmd
	if m.autosave.IsDirty(tab.ID) {
		cmd = m.saveTab(tab, false)
	}
	m.ws.CloseActive()
	m.dropTab(tab.ID)
	for _, t := range m.ws.Tabs() {
		if _, ok := m.sessions[t.ID]; !ok {
			m.setupTab(t)
		}
	}
	return cmd
}

// switchTab moves to another tab.
func (m *Model) switchTab(fn func()) {
	m.blurActive()
	fn()
	m.followCaret()
}

// toggleDraw switches the active tab between text and drawing.
func (m *Model) toggleDraw() {
	tab := m.ws.Active()
	if tab == nil {
		return
	}
	m.blurActive()
	if tab.Mode == workspace.ModeDraw {
		tab.Mode = workspace.ModeText
		return
	}
	tab.Mode = workspace.ModeDraw
	w, h := tab.Canvas.Size()
	m.pen = pen{X: w / 2, Y: h / 2}
}

// quit saves every dirty tab and exits once the saves are done.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.blurActive()
	cmd := m.saveDirty()
	if len(m.saving) == 0 {
		return m, tea.Quit
	}
	m.status.SetMessage("Saving...", false)
	return m, cmd
}

// saveDirty saves every tab with unsaved changes, whether or not auto-save
// is enabled.
func (m *Model) saveDirty() tea.Cmd {
	var cmds []tea.Cmd
	for _, tab := range m.ws.Tabs() {
		if m.autosave.IsDirty(tab.ID) {
			cmds = append(cmds, m.saveTab(tab, false))
		}
	}
	return tea.Batch(cmds...)
}

// tabLabels builds the tab bar entries.
func (m Model) tabLabels() []components.TabLabel {
	active := m.ws.Active()
	tabs := m.ws.Tabs()
	labels := make([]components.TabLabel, len(tabs))
	for i, tab := range tabs {
		title := tab.Title
		if !m.renamed[tab.ID] {
			if t := tab.Doc.Title(24); t != "" {
				title = t
			}
		}
		labels[i] = components.TabLabel{
			ID:     tab.ID,
			Title:  title,
			Active: tab == active,
			Dirty:  m.autosave.IsDirty(tab.ID),
		}
	}
	return labels
}

// =============================================================================
// GEOMETRY
// =============================================================================

// bodyHeight is the number of rows between the tab bar and the status bar.
func (m Model) bodyHeight() int {
	return max(m.height-tabBarHeight-statusBarHeight, 1)
}

// editorWidth is the text width of the editor.
func (m Model) editorWidth() int {
	return max(m.width-2*editorPadX, 8)
}

// layoutActive lays out the active document at the editor width.
func (m Model) layoutActive(caret bool) (*workspace.Tab, docLayout) {
	tab := m.ws.Active()
	if tab == nil {
		return nil, docLayout{}
	}
	return tab, layoutDocument(tab.Doc, m.theme, m.editorWidth(), caret)
}

// followCaret scrolls the active editor so the caret line is visible.
func (m *Model) followCaret() {
	tab, lay := m.layoutActive(true)
	if tab == nil {
		return
	}
	h := m.bodyHeight()
	top := m.scroll[tab.ID]
	switch {
	case lay.CaretLine < top:
		top = lay.CaretLine
	case lay.CaretLine >= top+h:
		top = lay.CaretLine - h + 1
	}
	top = min(top, max(len(lay.Lines)-h, 0))
	m.scroll[tab.ID] = max(top, 0)
}

// scrollBy moves the editor view of the active tab by n lines.
func (m *Model) scrollBy(n int) {
	tab, lay := m.layoutActive(false)
	if tab == nil {
		return
	}
	top := m.scroll[tab.ID] + n
	top = min(top, max(len(lay.Lines)-m.bodyHeight(), 0))
	m.scroll[tab.ID] = max(top, 0)
}
