package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/catalog"
	"github.com/tessro/mixtape/internal/core"
	"github.com/tessro/mixtape/internal/engine"
	mixerrors "github.com/tessro/mixtape/internal/errors"
	"github.com/tessro/mixtape/internal/store"
	"github.com/tessro/mixtape/internal/tui/components"
	"github.com/tessro/mixtape/internal/tui/styles"
)

// View is a routed screen of the UI.
type View int

const (
	ViewFeed View = iota
	ViewProfile
	ViewQueue
	ViewHelp
)

func (v View) String() string {
	switch v {
	case ViewFeed:
		return "Feed"
	case ViewProfile:
		return "Profile"
	case ViewQueue:
		return "Queue"
	case ViewHelp:
		return "Help"
	default:
		return "?"
	}
}

// ProfileTab selects which profile list is shown.
type ProfileTab int

const (
	TabUploaded ProfileTab = iota
	TabLiked
)

const (
	fetchTimeout = 10 * time.Second
	errorTTL     = 5 * time.Second
)

// Store is the part of the playback store the UI needs.
type Store interface {
	State() core.State
	Dispatch(core.Action)
	Subscribe(store.Listener) (unsubscribe func())
}

// Player reports the engine status shown in the player bar.
type Player interface {
	Status() engine.Status
}

// Options configures the UI.
type Options struct {
	User      string
	FeedLimit int
	SeekStep  float64 // seconds
	SiteURL   string
	Theme     string

	// FrameInterval is the shortest time between redraws caused by
	// playback changes.
	FrameInterval time.Duration
}

// App holds the dependencies of the UI.
type App struct {
	store   Store
	catalog catalog.Source
	player  Player
	opts    Options
	log     *zap.Logger
	wake    *waker

	// OpenURL and CopyText are swapped out in tests.
	OpenURL  func(string) error
	CopyText func(string) error
}

// NewApp creates a new TUI application
func NewApp(s Store, src catalog.Source, player Player, opts Options, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 10
	}
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 50
	}
	return &App{
		store:    s,
		catalog:  src,
		player:   player,
		opts:     opts,
		log:      log.Named("tui"),
		wake:     newWaker(),
		OpenURL:  func(string) error { return errors.New("no browser available") },
		CopyText: func(string) error { return errors.New("no clipboard available") },
	}
}

// Refresh asks a running program to re-read the store and player. It never
// blocks and is safe to call from any goroutine.
func (a *App) Refresh() {
	a.wake.kick()
}

// Model is the main TUI model
type Model struct {
	app    *App
	width  int
	height int
	view   View
	back   View // view to return to from Help
	tab    ProfileTab

	// Snapshots, refreshed on syncMsg
	state  core.State
	status engine.Status

	// Components
	feed      *components.MixList
	uploaded  *components.MixList
	liked     *components.MixList
	queue     *components.MixList
	history   *components.History
	playerBar *components.PlayerBar

	loadingFeed    bool
	loadingProfile bool

	// Filter state
	filtering   bool
	filterInput textinput.Model

	// Error handling
	lastError   error
	errorExpiry time.Time
	notice      string

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by title, artist or genre..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		app:         app,
		view:        ViewFeed,
		feed:        components.NewMixList(),
		uploaded:    components.NewMixList(),
		liked:       components.NewMixList(),
		queue:       components.NewMixList(),
		history:     components.NewHistory(),
		playerBar:   components.NewPlayerBar(),
		filterInput: ti,
		state:       core.NewState(0),
	}
}

// Messages
type syncMsg struct{}
type feedMsg struct {
	tracks []core.Track
	err    error
}
type profileMsg struct {
	*mixerrors.PartialResult[catalog.Profile]
}
type errMsg error
type noticeMsg string

// Commands
func (m Model) fetchFeed() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		tracks, err := app.catalog.Feed(ctx, app.opts.FeedLimit)
		return feedMsg{tracks: tracks, err: err}
	}
}

func (m Model) fetchProfile() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		return profileMsg{catalog.LoadProfile(ctx, app.catalog, app.opts.User)}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchFeed(),
		m.fetchProfile(),
		m.playerBar.Spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncMsg:
		m.expireError()
		m.applyState(m.app.store.State())
		if m.app.player != nil {
			m.status = m.app.player.Status()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.playerBar.Spinner, cmd = m.playerBar.Spinner.Update(msg)
		return m, cmd

	case feedMsg:
		m.loadingFeed = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.feed.SetTracks(msg.tracks)
		return m, nil

	case profileMsg:
		m.loadingProfile = false
		m.uploaded.SetTracks(msg.Data.Uploaded)
		m.liked.SetTracks(msg.Data.Liked)
		if msg.HasErrors() && !errors.Is(msg.Errors[0], mixerrors.ErrNoUser) {
			m.setError(errors.New(msg.ErrorSummary()))
		}
		return m, nil

	case errMsg:
		m.setError(msg)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.errorExpiry = time.Now().Add(errorTTL)
		return m, nil
	}

	// Forward other messages to textinput when filtering
	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyState takes a new store snapshot and records history on track change.
func (m *Model) applyState(next core.State) {
	prev := m.state
	m.state = next
	m.queue.SetTracks(next.Playlist)

	if !next.HasTrack() {
		return
	}
	if prev.HasTrack() && prev.CurrentTrack.ID == next.CurrentTrack.ID {
		return
	}
	if prev.HasTrack() && !finished(&prev) {
		m.history.MarkSkipped()
	}
	m.history.Add(*next.CurrentTrack, time.Now())
}

// finished reports whether prev was within a few seconds of its end.
func finished(prev *core.State) bool {
	d := prev.CurrentTrack.Duration.Seconds()
	return d > 0 && prev.CurrentTime >= d-5
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.notice = ""
	m.errorExpiry = time.Now().Add(errorTTL)
	m.app.log.Warn("ui error", zap.Error(err))
}

func (m *Model) expireError() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
		m.notice = ""
	}
}

// activeList returns the list shown by the current view.
func (m *Model) activeList() *components.MixList {
	switch m.view {
	case ViewProfile:
		if m.tab == TabLiked {
			return m.liked
		}
		return m.uploaded
	case ViewQueue:
		return m.queue
	case ViewFeed:
		return m.feed
	}
	return nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.view == ViewHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.view = m.back
		}
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.back = m.view
		m.view = ViewHelp
		return m, nil

	case "1":
		m.view = ViewFeed
		return m, nil
	case "2":
		m.view = ViewProfile
		return m, nil
	case "3":
		m.view = ViewQueue
		return m, nil
	case "tab":
		m.view = (m.view + 1) % ViewHelp
		return m, nil
	case "shift+tab":
		m.view = (m.view + ViewHelp - 1) % ViewHelp
		return m, nil

	case "/":
		if l := m.activeList(); l != nil {
			m.filtering = true
			m.filterInput.SetValue(l.Filter())
			m.filterInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "esc":
		if l := m.activeList(); l != nil {
			l.SetFilter("")
		}
		return m, nil

	case "r":
		m.loadingFeed, m.loadingProfile = true, true
		return m, tea.Batch(m.fetchFeed(), m.fetchProfile())
	}

	// Playback controls
	switch msg.String() {
	case " ":
		m.dispatch(core.TogglePlay())
	case "n":
		m.dispatch(core.NextTrack())
	case "p":
		m.dispatch(core.PreviousTrack())
	case "s":
		m.dispatch(core.ToggleShuffle())
	case "left", "h":
		m.seekBy(-m.app.opts.SeekStep)
	case "right", "l":
		m.seekBy(m.app.opts.SeekStep)
	case "o":
		return m, m.openLink()
	case "y":
		return m, m.copyLink()
	}

	// List keys
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		l.Down()
	case "k", "up":
		l.Up()
	case "enter":
		if i := l.Selected(); i >= 0 {
			m.dispatch(core.SetPlaylist(l.Tracks(), i))
		}
	case "t":
		if m.view == ViewProfile {
			m.tab = 1 - m.tab
		}
	}

	return m, nil
}

func (m Model) handleFilterKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.activeList()

	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		if l != nil {
			l.SetFilter("")
		}
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "up", "ctrl+p":
		if l != nil {
			l.Up()
		}
		return m, nil
	case "down", "ctrl+n":
		if l != nil {
			l.Down()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if l != nil {
		l.SetFilter(m.filterInput.Value())
	}
	return m, cmd
}

// dispatch sends an action to the store. The store notifies the program
// asynchronously, so this never blocks on the event loop.
func (m Model) dispatch(a core.Action) {
	m.app.store.Dispatch(a)
}

func (m Model) seekBy(delta float64) {
	st := m.app.store.State()
	if !st.HasTrack() {
		return
	}
	target := st.CurrentTime + delta
	if target < 0 {
		target = 0
	}
	if d := m.duration(&st); d > 0 && target > d {
		target = d
	}
	m.dispatch(core.Seek(target))
}

func (m Model) duration(st *core.State) float64 {
	if m.status.Duration > 0 {
		return m.status.Duration.Seconds()
	}
	return st.CurrentTrack.Duration.Seconds()
}

// linkTarget picks the mix under the cursor, falling back to the loaded one.
func (m Model) linkTarget() (core.Track, bool) {
	if l := m.activeList(); l != nil {
		if t, ok := l.SelectedTrack(); ok {
			return t, true
		}
	}
	if m.state.HasTrack() {
		return *m.state.CurrentTrack, true
	}
	return core.Track{}, false
}

// MixLink returns the page for t, or its audio locator without a site URL.
func MixLink(site string, t core.Track) string {
	if site == "" {
		return t.AudioURL
	}
	return strings.TrimRight(site, "/") + "/mix/" + url.PathEscape(t.ID)
}

func (m Model) openLink() tea.Cmd {
	t, ok := m.linkTarget()
	if !ok {
		return nil
	}
	link := MixLink(m.app.opts.SiteURL, t)
	open := m.app.OpenURL
	return func() tea.Msg {
		if err := open(link); err != nil {
			return errMsg(err)
		}
		return noticeMsg("Opened " + link)
	}
}

func (m Model) copyLink() tea.Cmd {
	t, ok := m.linkTarget()
	if !ok {
		return nil
	}
	link := MixLink(m.app.opts.SiteURL, t)
	copyText := m.app.CopyText
	return func() tea.Msg {
		if err := copyText(link); err != nil {
			return errMsg(err)
		}
		return noticeMsg("Copied " + link)
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.view == ViewHelp {
		return m.renderHelp()
	}

	bar := m.playerBar.Render(&m.state, m.status, m.width)
	statusBar := m.renderStatusBar()
	tabs := m.renderTabs()

	mainHeight := m.height - lipgloss.Height(tabs) - lipgloss.Height(statusBar) - 2
	if bar != "" {
		mainHeight -= lipgloss.Height(bar)
	}
	if mainHeight < 5 {
		mainHeight = 5
	}

	parts := []string{tabs, m.renderMain(m.width-2, mainHeight)}
	if bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(styles.Primary)
	inactive := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.TextDim)

	var b strings.Builder
	b.WriteString(styles.Title.Render("mixtape "))
	for i, v := range []View{ViewFeed, ViewProfile, ViewQueue} {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.view {
			b.WriteString(active.Render(label))
		} else {
			b.WriteString(inactive.Render(label))
		}
	}
	return b.String()
}

func (m Model) renderMain(width, height int) string {
	current := ""
	if m.state.HasTrack() {
		current = m.state.CurrentTrack.ID
	}

	var main string
	switch m.view {
	case ViewFeed:
		empty := "No mixes yet"
		if m.loadingFeed {
			empty = "Loading feed..."
		}
		main = m.feed.Render("Feed", empty, width, height, true, current)

	case ViewProfile:
		title := "Uploaded"
		if m.tab == TabLiked {
			title = "Liked"
		}
		empty := "Nothing here yet"
		switch {
		case m.app.opts.User == "":
			empty = "Set catalog.user to see a profile"
		case m.loadingProfile:
			empty = "Loading profile..."
		}
		if m.app.opts.User != "" {
			title = m.app.opts.User + " · " + title
		}
		main = m.activeList().Render(title, empty, width, height, true, current)

	case ViewQueue:
		leftWidth := width * 60 / 100
		rightWidth := width - leftWidth
		title := "Queue"
		if m.state.ShuffleEnabled {
			title += " (shuffled)"
		}
		queue := m.queue.Render(title, "Queue is empty", leftWidth, height, true, current)
		history := m.history.Render(rightWidth, height, false)
		main = lipgloss.JoinHorizontal(lipgloss.Top, queue, history)
	}

	if m.filtering {
		main = lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), main)
	}
	return main
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  1-3:views  enter:play  space:play/pause  n/p:next/prev  s:shuffle  ←/→:seek  /:filter")

	switch {
	case m.lastError != nil:
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
		if s := mixerrors.GetSuggestion(m.lastError); s != "" {
			status += styles.Dim.Render("  " + s)
		}
	case m.notice != "":
		status = styles.Playing.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "mixtape - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  1 / 2 / 3    Feed / Profile / Queue
  Tab          Next view
  r            Reload feed and profile

  Playback
  ────────
  Space        Play/Pause
  n            Next mix
  p            Previous mix
  s            Toggle shuffle
  ←/→, h/l     Seek back/forward

  Lists
  ─────
  j/↓, k/↑     Move
  Enter        Play from here
  /            Filter
  Esc          Clear filter
  t            Uploaded/Liked (Profile)
  o            Open mix page
  y            Copy mix link

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the TUI application and blocks until it exits.
func Run(ctx context.Context, app *App) error {
	styles.SetTheme(app.opts.Theme)

	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := app.store.Subscribe(func(core.State, core.State, core.Action) { app.Refresh() })
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go app.wake.pump(done, p.Send, app.opts.FrameInterval)
	app.Refresh()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
