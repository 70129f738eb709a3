package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/wizard"
)

const wizardHelp = "tab/↑↓ 항목 · ←/→ 선택 · enter 적용 · ctrl+n 다음 · ctrl+p 이전 · ctrl+c 종료"

// Submitter sends a finished form to the backend.
type Submitter interface {
	RegisterRoom(ctx context.Context, s registerroom.State, hostID int64) (*model.Room, error)
}

type WizardOptions struct {
	Catalog   *catalog.Catalog
	Locator   geo.Locator
	Geocoder  geo.ReverseGeocoder
	Submitter Submitter
	HostID    int64
	// Timeout bounds the location lookup and the submission.
	Timeout time.Duration
}

type locatedMsg struct{ err error }

type submittedMsg struct {
	room *model.Room
	err  error
}

// WizardModel walks the host through the registration screens.
type WizardModel struct {
	form      *registerroom.Store
	location  *wizard.LocationStep
	canLocate bool
	submitter Submitter
	hostID    int64
	timeout   time.Duration

	screens []screen
	cur     int
	focus   int
	input   textinput.Model

	busy   bool
	status string
	err    error
	room   *model.Room
	styles Styles
}

func NewWizardModel(form *registerroom.Store, opts WizardOptions) *WizardModel {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Locator == nil {
		opts.Locator = &geo.StaticLocator{}
	}
	d := deps{
		form:     form,
		catalog:  opts.Catalog,
		building: wizard.NewBuildingStep(form, opts.Catalog),
		location: wizard.NewLocationStep(form, opts.Catalog, opts.Locator, opts.Geocoder),
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Width = 48

	m := &WizardModel{
		form:      form,
		location:  d.location,
		canLocate: opts.Geocoder != nil,
		submitter: opts.Submitter,
		hostID:    opts.HostID,
		timeout:   opts.Timeout,
		screens:   d.screens(),
		input:     ti,
		styles:    DefaultStyles(),
	}
	m.syncInput()
	return m
}

// Room is the registered room once submission succeeded.
func (m *WizardModel) Room() *model.Room {
	return m.room
}

func (m *WizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *WizardModel) screen() screen {
	return m.screens[m.cur]
}

func (m *WizardModel) field() (field, bool) {
	fields := m.screen().fields
	if len(fields) == 0 {
		return field{}, false
	}
	return fields[m.focus], true
}

func (m *WizardModel) textFocused() bool {
	f, ok := m.field()
	return ok && !f.isChoice()
}

func (m *WizardModel) syncInput() {
	if !m.textFocused() {
		m.input.Blur()
		m.input.SetValue("")
		return
	}
	f, _ := m.field()
	m.input.SetValue(f.initial(m.form.State()))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *WizardModel) setErr(err error) {
	m.err = err
	m.status = ""
}

func (m *WizardModel) setStatus(s string) {
	m.err = nil
	m.status = s
}

func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case locatedMsg:
		m.busy = false
		if msg.err != nil {
			m.setErr(fmt.Errorf("현재 위치를 가져오지 못했습니다: %w", msg.err))
			return m, nil
		}
		m.setStatus("현재 위치로 주소를 채웠습니다.")
		m.syncInput()
		return m, nil

	case submittedMsg:
		m.busy = false
		if msg.err != nil {
			m.setErr(fmt.Errorf("등록에 실패했습니다: %w", msg.err))
			return m, nil
		}
		m.room = msg.room
		m.form.Dispatch(registerroom.Reset())
		m.cur, m.focus = 0, 0
		m.syncInput()
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch key {
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+n":
		m.next()
		return m, nil
	case "ctrl+p":
		m.prev()
		return m, nil
	case "ctrl+l":
		if m.screen().step.Name() != "location" {
			return m, nil
		}
		if !m.canLocate {
			m.setErr(errors.New("위치 서비스가 설정되지 않았습니다"))
			return m, nil
		}
		m.busy = true
		m.setStatus("현재 위치를 찾는 중…")
		return m, m.locate()
	case "enter":
		if len(m.screen().fields) == 0 {
			return m, m.submit()
		}
		if m.textFocused() {
			m.commit()
		}
		return m, nil
	case "left", "right":
		if !m.textFocused() {
			m.cycle(lo.Ternary(key == "right", 1, -1))
			return m, nil
		}
	}

	if !m.textFocused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *WizardModel) moveFocus(d int) {
	n := len(m.screen().fields)
	if n == 0 {
		return
	}
	m.focus = (m.focus + d + n) % n
	m.syncInput()
}

// commit applies the typed value of the focused text field.
func (m *WizardModel) commit() bool {
	f, ok := m.field()
	if !ok || f.isChoice() {
		return true
	}
	if err := f.apply(m.input.Value()); err != nil {
		m.setErr(err)
		return false
	}
	m.setStatus(f.label + " 저장됨")
	m.syncInput()
	return true
}

func (m *WizardModel) cycle(d int) {
	f, ok := m.field()
	if !ok {
		return
	}
	s := m.form.State()
	opts := f.options(s)
	if len(opts) == 0 {
		m.setErr(fmt.Errorf("%s: 먼저 상위 항목을 선택하세요", f.label))
		return
	}
	idx := lo.IndexOf(lo.Map(opts, func(o option, _ int) string { return o.value }), f.value(s))
	switch {
	case idx < 0 && d > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + d + len(opts)) % len(opts)
	}
	if err := f.apply(opts[idx].value); err != nil {
		m.setErr(err)
		return
	}
	m.setStatus("")
}

func (m *WizardModel) next() {
	if m.textFocused() {
		f, _ := m.field()
		if m.input.Value() != f.initial(m.form.State()) && !m.commit() {
			return
		}
	}
	href, err := wizard.Next(m.screen().step, m.form.State())
	if err != nil {
		m.setErr(fmt.Errorf("필수 항목을 모두 입력하세요 (%w)", err))
		return
	}
	if href == "" {
		return
	}
	m.cur++
	m.focus = 0
	m.setStatus("")
	m.syncInput()
}

func (m *WizardModel) prev() {
	if m.cur == 0 {
		return
	}
	m.cur--
	m.focus = 0
	m.setStatus("")
	m.syncInput()
}

func (m *WizardModel) locate() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.location.UseCurrentLocation(ctx)
		return locatedMsg{err: err}
	}
}

func (m *WizardModel) submit() tea.Cmd {
	state := m.form.State()
	if err := wizard.Validate(state); err != nil {
		m.setErr(fmt.Errorf("아직 완료되지 않은 단계가 있습니다 (%w)", err))
		return nil
	}
	if m.submitter == nil {
		m.setErr(errors.New("등록 서버가 설정되지 않았습니다"))
		return nil
	}
	m.busy = true
	m.setStatus("등록 중…")
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		room, err := m.submitter.RegisterRoom(ctx, state, m.hostID)
		return submittedMsg{room: room, err: err}
	}
}

func (m *WizardModel) View() string {
	sc := m.screen()
	s := m.form.State()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s  (%d/%d)", sc.title, m.cur+1, len(m.screens))))
	b.WriteString("\n")

	if len(sc.fields) == 0 {
		b.WriteString(m.checklist(s))
	}
	for i, f := range sc.fields {
		label := m.styles.Label.Render(f.label)
		value := f.display(s)
		switch {
		case i == m.focus && f.isChoice():
			label = m.styles.Focused.Render(f.label)
			value = m.styles.Selected.Render("◀ " + value + " ▶")
		case i == m.focus:
			label = m.styles.Focused.Render(f.label)
			value = m.input.View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, value))
		b.WriteString("\n")
		if i == m.focus && f.hint != "" {
			b.WriteString(m.styles.Muted.Render("  " + f.hint))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.styles.Success.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(wizardHelp))
	return b.String()
}

func (m *WizardModel) checklist(s registerroom.State) string {
	lines := lo.Map(m.screens[:len(m.screens)-1], func(sc screen, _ int) string {
		mark := m.styles.Success.Render("✓")
		if !sc.step.IsValid(s) {
			mark = m.styles.Error.Render("✗")
		}
		return mark + " " + sc.title
	})
	summary := fmt.Sprintf("%s\n%s %s %s %s\n%d원 / 박",
		lo.Ternary(s.Title == "", "(이름 없음)", s.Title),
		s.Country, s.City, s.District, s.StreetAddress, s.Price)
	return m.styles.Box.Render(summary) + "\n" + strings.Join(lines, "\n") + "\n"
}
