package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store"
)

type screen int

const (
	selectorScreen screen = iota
	listsScreen
	itemsScreen
	rulesScreen
	builderScreen
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
)

// revealMsg ends the cosmetic pause before a draw is shown.
type revealMsg struct{}

// Model is the Bubble Tea model for the whole session. It edits the state
// in place; the caller saves it when Changed reports true.
type Model struct {
	st    *model.State
	sel   *engine.Selector
	delay time.Duration

	screen screen
	lists  list.Model
	items  list.Model
	listID string // list shown on the items screen
	rules  list.Model

	// Rule builder: ruleID is "" for a new rule
	builder  list.Model
	ruleID   string
	picked   map[pick]bool
	buildErr string

	spin    spinner.Model
	drawing bool
	result  model.Combination
	drawErr error

	// Inline add / edit
	mode     inputMode
	editID   string
	ti       textinput.Model
	inputErr string

	changed       bool
	width, height int
}

// Options configure an interactive session.
type Options struct {
	Selector    *engine.Selector
	RevealDelay time.Duration
	Theme       string
	Log         *zap.Logger
	Input       io.Reader
	Output      io.Writer
}

// New builds the model on st. A nil selector draws with defaults.
func New(st *model.State, sel *engine.Selector, delay time.Duration) Model {
	if sel == nil {
		sel = engine.NewSelector(nil, engine.Options{MaxAttempts: engine.InteractiveAttempts, AvoidHistory: true}, nil)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		st:    st,
		sel:   sel,
		delay: delay,
		lists: newList("Lists", keys.listsHelp),
		items: newList("Items", keys.itemsHelp),
		rules: newList("Invalid combinations", keys.rulesHelp),

		builder: newList("Pick items", keys.builderHelp),
		picked:  map[pick]bool{},
		spin:  s,
		ti:    ti,
	}
	m.refresh()
	return m
}

func newList(title string, help func() []key.Binding) list.Model {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = help
	l.AdditionalFullHelpKeys = help
	return l
}

// Run starts the program on the state held by s and saves it on exit when
// anything changed. It reports whether a save happened.
func Run(ctx context.Context, s store.Store, opt Options) (bool, error) {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	st, err := s.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}
	SetTheme(opt.Theme)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opt.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opt.Input))
	}
	if opt.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opt.Output))
	}
	p := tea.NewProgram(New(st, opt.Selector, opt.RevealDelay), progOpts...)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	if !ok || !fm.changed {
		log.Debug("session ended without changes")
		return false, nil
	}
	if err := s.Save(ctx, fm.st); err != nil {
		return false, fmt.Errorf("save: %w", err)
	}
	log.Debug("session saved", zap.String("path", s.Path()))
	return true, nil
}

// Changed reports whether the state was modified during the session.
func (m Model) Changed() bool { return m.changed }

// Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case revealMsg:
		return m.finishDraw(), nil
	case spinner.TickMsg:
		if !m.drawing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		switch m.screen {
		case listsScreen:
			return m.updateLists(msg)
		case itemsScreen:
			return m.updateItems(msg)
		case rulesScreen:
			return m.updateRules(msg)
		case builderScreen:
			return m.updateBuilder(msg)
		default:
			return m.updateSelector(msg)
		}
	}

	var cmd tea.Cmd
	switch {
	case m.mode != inputNone:
		m.ti, cmd = m.ti.Update(msg)
	case m.screen == listsScreen:
		m.lists, cmd = m.lists.Update(msg)
	case m.screen == itemsScreen:
		m.items, cmd = m.items.Update(msg)
	case m.screen == rulesScreen:
		m.rules, cmd = m.rules.Update(msg)
	case m.screen == builderScreen:
		m.builder, cmd = m.builder.Update(msg)
	}
	return m, cmd
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Draw):
		if m.drawing {
			return m, nil
		}
		if m.delay <= 0 {
			return m.finishDraw(), nil
		}
		m.drawing = true
		m.drawErr = nil
		return m, tea.Batch(m.spin.Tick, tea.Tick(m.delay, func(time.Time) tea.Msg { return revealMsg{} }))
	case key.Matches(msg, keys.Lists):
		if m.drawing {
			return m, nil
		}
		m.screen = listsScreen
		m.refresh()
	case key.Matches(msg, keys.Rules):
		if m.drawing {
			return m, nil
		}
		m.screen = rulesScreen
		m.refresh()
	}
	return m, nil
}

// finishDraw picks and records a combination. On failure the result is
// cleared and the history is left alone.
func (m Model) finishDraw() Model {
	m.drawing = false
	c, err := m.sel.Pick(m.st)
	if err != nil {
		m.result, m.drawErr = nil, err
		return m
	}
	m.result, m.drawErr = c, nil
	m.changed = true
	return m
}

func (m Model) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.lists, cmd = m.lists.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back) && m.lists.FilterState() == list.Unfiltered:
		m.screen = selectorScreen
		return m, nil
	case key.Matches(msg, keys.Add):
		return m.startInput(inputAdd, "", "", "New list name...")
	case key.Matches(msg, keys.Edit):
		if l := m.st.List(selectedID(m.lists)); l != nil {
			return m.startInput(inputEdit, l.ID, l.Name, "List name...")
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if id := selectedID(m.lists); id != "" {
			if err := m.st.DeleteList(id); err == nil {
				m.changed = true
				m.refresh()
			}
		}
		return m, nil
	case key.Matches(msg, keys.Open):
		if id := selectedID(m.lists); id != "" {
			m.listID = id
			m.screen = itemsScreen
			m.items.ResetFilter()
			m.items.Select(0)
			m.refresh()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.lists, cmd = m.lists.Update(msg)
	return m, cmd
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.items.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.items, cmd = m.items.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back) && m.items.FilterState() == list.Unfiltered:
		m.screen = listsScreen
		m.refresh()
		return m, nil
	case key.Matches(msg, keys.Add):
		return m.startInput(inputAdd, "", "", "New item...")
	case key.Matches(msg, keys.Edit):
		if l := m.st.List(m.listID); l != nil {
			if it, err := l.FindItem(selectedID(m.items)); err == nil {
				return m.startInput(inputEdit, it.ID, it.Value, "Item value...")
			}
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if id := selectedID(m.items); id != "" {
			if err := m.st.DeleteItem(m.listID, id); err == nil {
				m.changed = true
				m.refresh()
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) updateRules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rules.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rules, cmd = m.rules.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back) && m.rules.FilterState() == list.Unfiltered:
		m.screen = selectorScreen
		return m, nil
	case key.Matches(msg, keys.Add):
		return m.openBuilder(nil), nil
	case key.Matches(msg, keys.Edit):
		if ic := m.st.InvalidCombination(selectedID(m.rules)); ic != nil {
			return m.openBuilder(ic), nil
		}
		return m, nil
	case key.Matches(msg, keys.Rename):
		if ic := m.st.InvalidCombination(selectedID(m.rules)); ic != nil {
			return m.startInput(inputEdit, ic.ID, ic.Name, "Rule name...")
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if id := selectedID(m.rules); id != "" {
			if err := m.st.DeleteInvalidCombination(id); err == nil {
				m.changed = true
				m.refresh()
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.rules, cmd = m.rules.Update(msg)
	return m, cmd
}

// openBuilder starts a new rule, or edits ic when it is not nil.
func (m Model) openBuilder(ic *model.InvalidCombination) Model {
	m.picked = map[pick]bool{}
	m.ruleID = ""
	m.buildErr = ""
	if ic != nil {
		m.ruleID = ic.ID
		for _, s := range ic.Items {
			m.picked[pick{s.ListID, s.ItemID}] = true
		}
	}
	m.screen = builderScreen
	m.builder.ResetFilter()
	m.builder.Select(0)
	m.refresh()
	return m
}

func (m Model) updateBuilder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.builder.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.builder, cmd = m.builder.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.Back) && m.builder.FilterState() == list.Unfiltered:
		m.screen = rulesScreen
		m.buildErr = ""
		return m, nil
	case key.Matches(msg, keys.Toggle):
		if r, ok := selectedRow(m.builder); ok {
			p := pick{r.owner, r.id}
			if m.picked[p] {
				delete(m.picked, p)
			} else {
				m.picked[p] = true
			}
			m.buildErr = ""
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, keys.Save):
		if err := m.saveRule(); err != nil {
			m.buildErr = err.Error()
			return m, nil
		}
		m.changed = true
		m.screen = rulesScreen
		m.buildErr = ""
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.builder, cmd = m.builder.Update(msg)
	return m, cmd
}

// saveRule stores the picked items in list order.
func (m *Model) saveRule() error {
	var refs []model.Selection
	for _, l := range m.st.Lists {
		for _, it := range l.Items {
			if m.picked[pick{l.ID, it.ID}] {
				refs = append(refs, model.Selection{ListID: l.ID, ItemID: it.ID})
			}
		}
	}
	if m.ruleID == "" {
		_, err := m.st.AddInvalidCombination("", refs)
		return err
	}
	return m.st.UpdateInvalidCombination(m.ruleID, "", refs)
}

func (m Model) startInput(mode inputMode, id, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.editID = id
	m.inputErr = ""
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	cmd := m.ti.Focus()
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.editID = ""
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.commit(m.ti.Value()); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.changed = true
		m.closeInput()
		m.refresh()
		return m, nil
	case "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) commit(v string) error {
	switch {
	case m.screen == listsScreen && m.mode == inputAdd:
		_, err := m.st.AddList(v)
		return err
	case m.screen == listsScreen:
		return m.st.RenameList(m.editID, v)
	case m.screen == rulesScreen:
		ic := m.st.InvalidCombination(m.editID)
		if ic == nil {
			return fmt.Errorf("%w: %q", model.ErrRuleNotFound, m.editID)
		}
		if strings.TrimSpace(v) == "" {
			return model.ErrEmptyName
		}
		return m.st.UpdateInvalidCombination(ic.ID, v, ic.Items)
	case m.mode == inputAdd:
		_, err := m.st.AddItem(m.listID, v)
		return err
	default:
		return m.st.UpdateItem(m.listID, m.editID, v)
	}
}

// refresh rebuilds every list from the state.
func (m *Model) refresh() {
	setRows(&m.lists, listRows(m.st.Lists))
	m.lists.Title = fmt.Sprintf("Lists (%d)", len(m.st.Lists))
	setRows(&m.rules, ruleRows(m.st))
	m.rules.Title = fmt.Sprintf("Invalid combinations (%d)", len(m.st.InvalidCombinations))
	setRows(&m.builder, builderRows(m.st.Lists, m.picked))
	m.builder.Title = fmt.Sprintf("Pick items (%d)", len(m.picked))

	l := m.st.List(m.listID)
	if l == nil {
		m.listID = ""
		if m.screen == itemsScreen {
			m.screen = listsScreen
		}
		setRows(&m.items, nil)
		return
	}
	setRows(&m.items, itemRows(l))
	m.items.Title = l.Name
}

func setRows(l *list.Model, rows []list.Item) {
	l.SetItems(rows)
	if n := len(rows); n > 0 && l.Index() >= n {
		l.Select(n - 1)
	}
}

func (m Model) View() string {
	switch m.screen {
	case listsScreen:
		return m.listView(m.lists)
	case itemsScreen:
		return m.listView(m.items)
	case rulesScreen:
		return m.listView(m.rules)
	case builderScreen:
		return m.listView(m.builder)
	}
	return m.selectorView()
}

// resize fits every list to the window, leaving room for the frame.
func (m *Model) resize() {
	w, h := m.size()
	for _, l := range []*list.Model{&m.lists, &m.items, &m.rules, &m.builder} {
		l.SetSize(w-4, h-4)
	}
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	return w, h
}

func (m Model) listView(l list.Model) string {
	w, h := m.size()
	listHeight := h - 4
	if m.mode != inputNone {
		listHeight = h - 8
	}
	if m.screen == builderScreen {
		listHeight--
	}
	l.SetSize(w-4, listHeight)

	content := l.View()
	if m.mode != inputNone {
		title := m.inputTitle()
		if m.inputErr != "" {
			title += " " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + box().Render(title+"\n"+m.ti.View())
	}
	if m.screen == builderScreen {
		hint := mutedStyle.Render("pick items from at least two lists")
		if m.buildErr != "" {
			hint = errorStyle.Render(m.buildErr)
		}
		content += "\n" + hint
	}
	return panelString(content)
}

func (m Model) inputTitle() string {
	if m.screen == rulesScreen {
		return "Rename rule"
	}
	noun := "item"
	if m.screen == listsScreen {
		noun = "list"
	}
	if m.mode == inputAdd {
		return "Add " + noun
	}
	if noun == "list" {
		return "Rename list"
	}
	return "Edit item"
}

func (m Model) selectorView() string {
	var b strings.Builder
	items := 0
	for _, l := range m.st.Lists {
		items += len(l.Items)
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n\n",
		titleStyle.Render("combo"),
		accentStyle.Render("lists"), len(m.st.Lists),
		accentStyle.Render("items"), items,
		pendingStyle.Render("rules"), len(m.st.InvalidCombinations))

	switch {
	case m.drawing:
		b.WriteString(m.spin.View() + " drawing...")
	case m.drawErr != nil:
		b.WriteString(errorStyle.Render(drawErrText(m.drawErr)))
	case len(m.result) > 0:
		lines := make([]string, 0, len(m.result))
		for _, s := range m.result {
			lines = append(lines, fmt.Sprintf("%s: %s", m.listName(s.ListID), successStyle.Render(s.Value)))
		}
		b.WriteString(box().Render(strings.Join(lines, "\n")))
	default:
		b.WriteString(mutedStyle.Render("press enter to draw"))
	}

	b.WriteString("\n\n" + titleStyle.Render("Recent") + "\n")
	if len(m.st.History) == 0 {
		b.WriteString(mutedStyle.Render("nothing yet") + "\n")
	}
	for i, c := range m.st.History {
		values := make([]string, 0, len(c))
		for _, s := range c {
			values = append(values, s.Value)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(values, " + "))
	}
	b.WriteString("\n" + helpStyle.Render("enter draw • l lists • r rules • q quit"))
	return panelString(b.String())
}

func (m Model) listName(id string) string {
	if l := m.st.List(id); l != nil {
		return l.Name
	}
	return "Unknown"
}

func drawErrText(err error) string {
	switch {
	case errors.Is(err, engine.ErrNoValidCombination):
		return "No valid combination found. Try again or loosen your rules."
	case errors.Is(err, engine.ErrNothingToDraw):
		return "Nothing to draw yet. Press l to add lists and items."
	default:
		return err.Error()
	}
}
