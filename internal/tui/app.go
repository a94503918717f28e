// Package tui implements the terminal browser over the catalog engine.
package tui

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumetv/lume/internal/catalog"
	"github.com/lumetv/lume/internal/cdn"
	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/player"
	"github.com/lumetv/lume/internal/search"
	"github.com/lumetv/lume/internal/series"
	"github.com/lumetv/lume/internal/tui/styles"
)

// browseLevel identifies the active navigation depth.
type browseLevel int

const (
	levelCategories browseLevel = iota
	levelContent
	levelSeasons
	levelEpisodes
)

const stateBuffer = 16

// Model is the Bubble Tea model for the browser.
type Model struct {
	session   *catalog.Session
	playlists domain.PlaylistSource
	searchSvc *search.Service
	launcher  *player.Launcher
	cdnURL    string
	pageSize  int
	logger    *slog.Logger

	states      chan catalog.State
	unsubscribe func()

	spinner     spinner.Model
	filterInput textinput.Model

	width  int
	height int

	level         browseLevel
	categories    []string
	catCursor     int
	itemCursor    int
	seasonCursor  int
	episodeCursor int

	state         catalog.State
	category      string
	organized     *series.Result
	seriesKeys    []string // sorted keys into organized.Series
	playlistData  []domain.Playlist
	playlistsOK   bool
	currentSeries *domain.SeriesInfo

	filtering   bool // filter input focused
	filterQuery string

	statusText  string
	statusIsErr bool
}

// New creates the browser model over an already-constructed session.
// The playlist source may be nil; series organization then relies on
// title inference alone.
func New(session *catalog.Session, playlists domain.PlaylistSource, searchSvc *search.Service, launcher *player.Launcher, cdnURL string, pageSize int, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 80

	m := &Model{
		session:     session,
		playlists:   playlists,
		searchSvc:   searchSvc,
		launcher:    launcher,
		cdnURL:      cdnURL,
		pageSize:    pageSize,
		logger:      logger,
		states:      make(chan catalog.State, stateBuffer),
		spinner:     sp,
		filterInput: ti,
		categories:  domain.BaseCategories(),
	}

	m.unsubscribe = session.Subscribe(func(st catalog.State) {
		select {
		case m.states <- st:
		default: // drop when the UI is behind; the next state supersedes
		}
	})

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForState())
}

// waitForState blocks on the session bridge channel.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg{State: <-m.states}
	}
}

// loadPlaylists fetches playlists once for series organization.
func (m *Model) loadPlaylists() tea.Cmd {
	src := m.playlists
	return func() tea.Msg {
		if src == nil {
			return playlistsMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pls, err := src.Playlists(ctx)
		return playlistsMsg{Playlists: pls, Err: err}
	}
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{Message: text, IsError: isErr}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.state = msg.State
		m.reorganize()
		m.clampCursors()
		return m, m.waitForState()

	case playlistsMsg:
		m.playlistsOK = true
		if msg.Err != nil {
			m.logger.Warn("playlist fetch failed", "error", msg.Err)
		} else {
			m.playlistData = msg.Playlists
		}
		m.reorganize()
		return m, nil

	case statusMsg:
		m.statusText = msg.Message
		m.statusIsErr = msg.IsError
		return m, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		m.statusText = ""
		m.statusIsErr = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		m.unsubscribe()
		m.session.Dispose()
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, Keys.Home):
		m.setCursor(0)

	case key.Matches(msg, Keys.End):
		m.setCursor(m.listLen() - 1)

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, Keys.Back):
		m.goBack()

	case key.Matches(msg, Keys.Escape):
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.filterInput.Reset()
			m.clampCursors()
		} else {
			m.goBack()
		}

	case key.Matches(msg, Keys.Filter):
		if m.level == levelContent {
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, Keys.Refresh):
		if m.level != levelCategories {
			m.session.Refetch(context.Background())
			return m, setStatus("Refreshing...", false)
		}

	case key.Matches(msg, Keys.LoadMore):
		if m.level == levelContent && m.state.HasMore {
			m.session.LoadMore(context.Background())
			return m, setStatus("Loading more...", false)
		}
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterQuery = ""
		m.filterInput.Reset()
		m.filterInput.Blur()
		m.clampCursors()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterQuery = m.filterInput.Value()
	m.itemCursor = 0
	return m, cmd
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelCategories:
		if m.catCursor >= len(m.categories) {
			return m, nil
		}
		m.category = m.categories[m.catCursor]
		m.level = levelContent
		m.itemCursor = 0
		m.filterQuery = ""
		m.filterInput.Reset()
		m.organized = nil
		m.session.Update(context.Background(), domain.CollectionQuery{
			Tags:  []string{m.category},
			Limit: m.pageSize,
		})
		var cmds []tea.Cmd
		if m.category == domain.CategorySeries && !m.playlistsOK {
			cmds = append(cmds, m.loadPlaylists())
		}
		return m, tea.Batch(cmds...)

	case levelContent:
		if m.category == domain.CategorySeries && m.organized != nil {
			keys := m.visibleSeriesKeys()
			if m.itemCursor < len(keys) {
				m.currentSeries = m.organized.Series[keys[m.itemCursor]]
				m.level = levelSeasons
				m.seasonCursor = 0
			}
			return m, nil
		}
		items := m.visibleContent()
		if m.itemCursor < len(items) {
			return m, m.play(items[m.itemCursor].Title, cdn.BestStream(m.cdnURL, items[m.itemCursor]))
		}

	case levelSeasons:
		if m.currentSeries != nil && m.seasonCursor < len(m.currentSeries.Seasons) {
			m.level = levelEpisodes
			m.episodeCursor = 0
		}

	case levelEpisodes:
		season := m.currentSeason()
		if season != nil && m.episodeCursor < len(season.Episodes) {
			ep := season.Episodes[m.episodeCursor]
			return m, m.play(ep.Title, cdn.StreamURL(m.cdnURL, ep.ClaimID, "auto"))
		}
	}

	return m, nil
}

func (m *Model) play(title, streamURL string) tea.Cmd {
	return func() tea.Msg {
		if err := m.launcher.Play(streamURL, title); err != nil {
			return statusMsg{Message: "Player failed: " + err.Error(), IsError: true}
		}
		return statusMsg{Message: "Playing " + title}
	}
}

func (m *Model) goBack() {
	switch m.level {
	case levelContent:
		m.level = levelCategories
		m.filterQuery = ""
		m.filterInput.Reset()
	case levelSeasons:
		m.level = levelContent
		m.currentSeries = nil
	case levelEpisodes:
		m.level = levelSeasons
	}
}

// reorganize rebuilds the series view from the latest content and
// playlists. Organization is deterministic, so rebuilding on every
// transition is safe.
func (m *Model) reorganize() {
	if m.category != domain.CategorySeries || m.state.Status != catalog.StatusSuccess {
		return
	}
	result := series.Organize(m.state.Content, m.playlistData)
	m.organized = &result

	keys := make([]string, 0, len(result.Series))
	for k := range result.Series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m.seriesKeys = keys

	// A refetch can remove the series being inspected.
	if m.currentSeries != nil {
		if s, ok := result.Series[m.currentSeries.SeriesKey]; ok {
			m.currentSeries = s
		} else {
			m.currentSeries = nil
			if m.level > levelContent {
				m.level = levelContent
			}
		}
	}
}

func (m *Model) currentSeason() *domain.Season {
	if m.currentSeries == nil || m.seasonCursor >= len(m.currentSeries.Seasons) {
		return nil
	}
	return &m.currentSeries.Seasons[m.seasonCursor]
}

// visibleContent returns the item list for the content level, narrowed
// by the active filter query.
func (m *Model) visibleContent() []domain.ContentItem {
	if m.filterQuery == "" {
		return m.state.Content
	}
	results := m.searchSvc.Filter(m.filterQuery, m.state.Content)
	items := make([]domain.ContentItem, 0, len(results))
	for _, r := range results {
		items = append(items, r.Item)
	}
	return items
}

// visibleSeriesKeys returns the series keys narrowed by the filter.
func (m *Model) visibleSeriesKeys() []string {
	if m.filterQuery == "" || m.organized == nil {
		return m.seriesKeys
	}
	keys := make([]string, 0, len(m.seriesKeys))
	for _, k := range m.seriesKeys {
		if search.MatchesTitle(m.filterQuery, m.organized.Series[k].Title) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (m *Model) listLen() int {
	switch m.level {
	case levelCategories:
		return len(m.categories)
	case levelContent:
		if m.category == domain.CategorySeries && m.organized != nil {
			return len(m.visibleSeriesKeys())
		}
		return len(m.visibleContent())
	case levelSeasons:
		if m.currentSeries == nil {
			return 0
		}
		return len(m.currentSeries.Seasons)
	case levelEpisodes:
		if s := m.currentSeason(); s != nil {
			return len(s.Episodes)
		}
	}
	return 0
}

func (m *Model) cursor() int {
	switch m.level {
	case levelCategories:
		return m.catCursor
	case levelContent:
		return m.itemCursor
	case levelSeasons:
		return m.seasonCursor
	default:
		return m.episodeCursor
	}
}

func (m *Model) setCursor(v int) {
	if v < 0 {
		v = 0
	}
	if max := m.listLen() - 1; v > max {
		v = max
		if v < 0 {
			v = 0
		}
	}
	switch m.level {
	case levelCategories:
		m.catCursor = v
	case levelContent:
		m.itemCursor = v
	case levelSeasons:
		m.seasonCursor = v
	default:
		m.episodeCursor = v
	}
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor() + delta)
}

func (m *Model) clampCursors() {
	m.setCursor(m.cursor())
}
