package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"room-service/internal/model"
	"room-service/internal/search"
	"room-service/internal/searchroom"
)

const searchHelp = "↑↓ 선택 · enter 적용/검색 · esc 닫기 · ctrl+c 종료"

// RoomLister runs a room search.
type RoomLister interface {
	ListRooms(ctx context.Context, q url.Values) ([]model.Room, error)
}

type snapshotMsg search.Snapshot

type selectedMsg struct{ err error }

type roomsMsg struct {
	rooms []model.Room
	err   error
}

// SearchModel is the "where to?" field with its suggestion popup.
type SearchModel struct {
	bar     *search.Bar
	query   *searchroom.Store
	lister  RoomLister
	timeout time.Duration

	updates chan search.Snapshot
	done    chan struct{}

	input   textinput.Model
	spinner spinner.Model
	snap    search.Snapshot
	cursor  int
	rooms   []model.Room
	err     error
	styles  Styles
}

// NewSearchModel builds the bar from opts. opts.OnChange is replaced; the
// model feeds bar changes into the program itself.
func NewSearchModel(query *searchroom.Store, opts search.Options, lister RoomLister) *SearchModel {
	m := &SearchModel{
		query:   query,
		lister:  lister,
		timeout: 10 * time.Second,
		updates: make(chan search.Snapshot, 1),
		done:    make(chan struct{}),
		styles:  DefaultStyles(),
	}
	opts.OnChange = m.publish
	m.bar = search.NewBar(query, opts)
	m.snap = m.bar.Snapshot()

	m.input = textinput.New()
	m.input.Placeholder = "여행지 검색"
	m.input.Prompt = "⌕ "
	m.input.Width = 40
	m.input.SetValue(query.State().Location)
	m.input.Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.styles.Muted
	return m
}

// publish keeps only the newest snapshot for the UI.
func (m *SearchModel) publish(s search.Snapshot) {
	select {
	case <-m.updates:
	default:
	}
	select {
	case m.updates <- s:
	default:
	}
}

func (m *SearchModel) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return snapshotMsg(s)
		case <-m.done:
			return nil
		}
	}
}

// Close stops the bar. Call it after the program exits.
func (m *SearchModel) Close() {
	m.bar.Close()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *SearchModel) Init() tea.Cmd {
	m.bar.Open()
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForSnapshot())
}

// entries is what the popup lists: the "near me" entry or the suggestions.
func (m *SearchModel) entries() []string {
	if !m.snap.PopupOpen {
		return nil
	}
	if m.snap.OffersCurrentLocation() {
		return []string{search.NearbyLabel}
	}
	out := make([]string, len(m.snap.Results))
	for i, p := range m.snap.Results {
		out[i] = p.Description
	}
	return out
}

func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = search.Snapshot(msg)
		if m.snap.Query != m.input.Value() {
			m.input.SetValue(m.snap.Query)
			m.input.CursorEnd()
		}
		if m.cursor >= len(m.entries()) {
			m.cursor = 0
		}
		return m, m.waitForSnapshot()

	case selectedMsg:
		m.err = msg.err
		return m, nil

	case roomsMsg:
		m.rooms, m.err = msg.rooms, msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *SearchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.snap.PopupOpen {
			m.bar.Dismiss()
			return m, nil
		}
		return m, tea.Quit
	case "up":
		if len(entries) > 0 {
			m.cursor = (m.cursor - 1 + len(entries)) % len(entries)
		}
		return m, nil
	case "down":
		if len(entries) > 0 {
			m.cursor = (m.cursor + 1) % len(entries)
		}
		return m, nil
	case "enter":
		if len(entries) > 0 {
			return m, m.choose(m.cursor)
		}
		return m, m.searchRooms()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.err = nil
		m.bar.Input(v)
	}
	return m, cmd
}

func (m *SearchModel) choose(i int) tea.Cmd {
	nearby := m.snap.OffersCurrentLocation()
	var placeID string
	if !nearby {
		placeID = m.snap.Results[i].PlaceID
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if nearby {
			return selectedMsg{err: m.bar.SelectCurrentLocation(ctx)}
		}
		return selectedMsg{err: m.bar.Select(ctx, placeID)}
	}
}

func (m *SearchModel) searchRooms() tea.Cmd {
	if m.lister == nil {
		return nil
	}
	q := m.query.State().Query()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		rooms, err := m.lister.ListRooms(ctx, q)
		return roomsMsg{rooms: rooms, err: err}
	}
}

func (m *SearchModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("어디로 여행가세요?"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.snap.Searching {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if entries := m.entries(); len(entries) > 0 {
		lines := make([]string, len(entries))
		for i, e := range entries {
			if i == m.cursor {
				lines[i] = m.styles.Selected.Render("› " + e)
			} else {
				lines[i] = "  " + e
			}
		}
		b.WriteString(m.styles.Box.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	s := m.query.State()
	if s.Latitude != 0 || s.Longitude != 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s (%.4f, %.4f)", s.Location, s.Latitude, s.Longitude)))
		b.WriteString("\n")
	}
	for _, r := range m.rooms {
		b.WriteString(fmt.Sprintf("• %s  %s %s  %d원\n", r.Title, r.City, r.District, r.Price))
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(searchHelp))
	return b.String()
}
