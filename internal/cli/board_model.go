package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/loadboard/internal/board"
	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// resizeStep is the chip width change per keypress, in board pixels.
const resizeStep = 8

// flushResizesMsg fires once the resize debounce window has passed.
type flushResizesMsg struct {
	at time.Time
}

type boardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Grab      key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev role")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next role")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev task")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next task")),
		Grab:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		Drop:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Grow:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "grow")),
		Shrink:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shrink")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next period")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev period")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Grab, k.Grow, k.Shrink, k.NextTab, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Drop, k.Cancel},
		{k.Grow, k.Shrink},
		{k.NextTab, k.PrevTab, k.Help, k.Quit},
	}
}

// boardModel drives a board.Controller from the keyboard. Outside a drag
// the cursor moves over cards and chips; during a drag it moves over the
// cards of the dragged task's type and the slots between their chips.
type boardModel struct {
	ctx   context.Context
	ctrl  *board.Controller
	keys  boardKeyMap
	help  help.Model
	vp    viewport.Model
	now   func() time.Time
	delay time.Duration

	roleID  string
	taskID  int
	hasTask bool

	// slot is the insertion index in the target row while dragging.
	slot int

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

func newBoardModel(ctx context.Context, ctrl *board.Controller, debounce time.Duration) boardModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := boardModel{
		ctx:   ctx,
		ctrl:  ctrl,
		keys:  defaultBoardKeyMap(),
		help:  help.New(),
		vp:    vp,
		now:   time.Now,
		delay: debounce,
	}
	if cards := ctrl.View().Cards(); len(cards) > 0 {
		m.roleID = cards[0].ID
	}
	m.syncCursor()
	return m
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-3, 1)
		m.render()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case flushResizesMsg:
		m.apply(board.FlushResizes{Now: msg.at})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil
	dragging := m.ctrl.Drag() != nil

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit):
		if dragging {
			m.apply(board.CancelDrag{})
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCard(-1, dragging)
	case key.Matches(msg, m.keys.Down):
		m.moveCard(1, dragging)
	case key.Matches(msg, m.keys.Left):
		m.moveChip(-1, dragging)
	case key.Matches(msg, m.keys.Right):
		m.moveChip(1, dragging)
	case key.Matches(msg, m.keys.Grab):
		if dragging {
			m.drop()
		} else {
			m.grab()
		}
	case key.Matches(msg, m.keys.Drop):
		if dragging {
			m.drop()
		}
	case key.Matches(msg, m.keys.Cancel):
		if dragging {
			m.apply(board.CancelDrag{})
			m.status = "drag cancelled"
		}
	case key.Matches(msg, m.keys.Grow):
		return m, m.resize(resizeStep)
	case key.Matches(msg, m.keys.Shrink):
		return m, m.resize(-resizeStep)
	case key.Matches(msg, m.keys.NextTab):
		m.switchPeriod(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.switchPeriod(-1)
	}
	m.render()
	return m, nil
}

// apply runs one command and keeps the cursor on a live card and chip.
func (m *boardModel) apply(cmd board.Command) board.Result {
	res, err := m.ctrl.Apply(m.ctx, cmd)
	if err != nil {
		m.err = err
	}
	m.syncCursor()
	m.render()
	return res
}

func (m *boardModel) syncCursor() {
	v := m.ctrl.View()
	cards := v.Cards()
	if len(cards) == 0 {
		m.roleID, m.hasTask = "", false
		return
	}
	card := v.Card(m.roleID)
	if card == nil {
		card = cards[0]
		m.roleID = card.ID
	}
	ids := card.TaskIDs()
	if m.ctrl.Drag() != nil {
		return
	}
	if m.hasTask && slices.Contains(ids, m.taskID) {
		return
	}
	m.hasTask = len(ids) > 0
	if m.hasTask {
		m.taskID = ids[0]
	}
}

// targetCards lists the cards a dragged task can be dropped on.
func (m *boardModel) targetCards(d *board.DragSession) []*board.RoleCard {
	var out []*board.RoleCard
	for _, c := range m.ctrl.View().Cards() {
		if c.Type == d.RoleType {
			out = append(out, c)
		}
	}
	return out
}

func (m *boardModel) moveCard(delta int, dragging bool) {
	var cards []*board.RoleCard
	if d := m.ctrl.Drag(); dragging && d != nil {
		cards = m.targetCards(d)
	} else {
		cards = m.ctrl.View().Cards()
	}
	if len(cards) == 0 {
		return
	}
	i := slices.IndexFunc(cards, func(c *board.RoleCard) bool { return c.ID == m.roleID })
	next := cards[clamp(i+delta, 0, len(cards)-1)]
	if i < 0 {
		next = cards[0]
	}
	if next.ID == m.roleID {
		return
	}

	if dragging {
		prev := m.roleID
		m.roleID = next.ID
		m.slot = len(rowTasks(next, m.ctrl.Drag().Group))
		m.apply(board.DragLeave{RoleID: prev})
		m.hover()
		return
	}
	m.roleID = next.ID
	m.hasTask = false
	m.syncCursor()
}

func (m *boardModel) moveChip(delta int, dragging bool) {
	card := m.ctrl.View().Card(m.roleID)
	if card == nil {
		return
	}
	if dragging {
		n := len(rowTasks(card, m.ctrl.Drag().Group))
		m.slot = clamp(m.slot+delta, 0, n)
		m.hover()
		return
	}
	ids := card.TaskIDs()
	if len(ids) == 0 {
		return
	}
	i := slices.Index(ids, m.taskID)
	m.taskID = ids[clamp(i+delta, 0, len(ids)-1)]
	m.hasTask = true
}

// hover sends the pointer position of the current slot to the controller.
func (m *boardModel) hover() {
	d := m.ctrl.Drag()
	card := m.ctrl.View().Card(m.roleID)
	if d == nil || card == nil {
		return
	}
	m.apply(board.DragOver{RoleID: card.ID, X: slotX(card.Row(d.Group), m.slot)})
}

func (m *boardModel) grab() {
	if !m.hasTask {
		return
	}
	card := m.ctrl.View().Card(m.roleID)
	if card == nil {
		return
	}
	_, group, ok := card.Chip(m.taskID)
	if !ok {
		return
	}
	if _, err := m.ctrl.Apply(m.ctx, board.BeginDrag{TaskID: m.taskID, RoleID: m.roleID}); err != nil {
		m.err = err
		return
	}
	m.slot = slices.Index(rowTasks(card, group), m.taskID)
	m.status = fmt.Sprintf("dragging task #%d", m.taskID)
	m.render()
}

func (m *boardModel) drop() {
	d := m.ctrl.Drag()
	if d == nil {
		return
	}
	res := m.apply(board.Drop{RoleID: m.roleID})
	if m.err != nil {
		return
	}
	if card := m.ctrl.View().Card(m.roleID); card == nil || !slices.Contains(card.TaskIDs(), d.TaskID) {
		m.roleID = d.SourceRoleID
	}
	m.taskID, m.hasTask = d.TaskID, true
	m.syncCursor()
	if res.Changed {
		m.status = fmt.Sprintf("moved task #%d", d.TaskID)
	}
}

func (m *boardModel) resize(delta int) tea.Cmd {
	if !m.hasTask || m.ctrl.Drag() != nil {
		return nil
	}
	card := m.ctrl.View().Card(m.roleID)
	if card == nil {
		return nil
	}
	ch, _, ok := card.Chip(m.taskID)
	if !ok {
		return nil
	}
	width := max(ch.Width+delta, 1)
	m.apply(board.ResizeSample{TaskID: ch.TaskID, Width: float64(width), At: m.now()})
	return tea.Tick(m.delay, func(t time.Time) tea.Msg {
		return flushResizesMsg{at: t}
	})
}

func (m *boardModel) switchPeriod(delta int) {
	v := m.ctrl.View()
	if len(v.Periods) < 2 {
		return
	}
	i := slices.Index(v.Periods, v.Period)
	next := v.Periods[(i+delta+len(v.Periods))%len(v.Periods)]
	m.apply(board.SwitchPeriod{Name: next})
}

// render refreshes the viewport and scrolls the focused card into view.
func (m *boardModel) render() {
	cur := formatter.BoardCursor{RoleID: m.roleID, TaskID: m.taskID, HasTask: m.hasTask && m.ctrl.Drag() == nil}
	content := formatter.FormatBoard(m.ctrl.View(), cur)
	m.vp.SetContent(content)
	if m.vp.Height <= 0 {
		return
	}
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "▸") {
			if i < m.vp.YOffset || i >= m.vp.YOffset+m.vp.Height {
				m.vp.SetYOffset(max(i-1, 0))
			}
			break
		}
	}
}

func (m boardModel) View() string {
	if m.quitting {
		return ""
	}
	body := m.vp.View()
	if m.vp.Height <= 0 {
		cur := formatter.BoardCursor{RoleID: m.roleID, TaskID: m.taskID, HasTask: m.hasTask && m.ctrl.Drag() == nil}
		body = formatter.FormatBoard(m.ctrl.View(), cur)
	}

	var status string
	switch {
	case m.err != nil:
		status = formatter.StyleRed.Render("error: " + m.err.Error())
	case m.status != "":
		status = formatter.Dim(m.status)
	case m.ctrl.PendingResizes() > 0:
		status = formatter.StyleYellow.Render("resizing…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status, m.help.View(m.keys))
}

// rowTasks lists the task ids of one row, without the placeholder.
func rowTasks(card *board.RoleCard, group string) []int {
	var ids []int
	for _, ch := range card.Row(group) {
		if !ch.Placeholder {
			ids = append(ids, ch.TaskID)
		}
	}
	return ids
}

// slotX is a pointer position that lands in the given slot: just inside
// the slot-th chip, or past the last chip for the end of the row.
func slotX(chips []board.Chip, slot int) float64 {
	end := 0
	n := 0
	for _, ch := range chips {
		end = max(end, ch.Right())
		if ch.Placeholder {
			continue
		}
		if n == slot {
			return float64(ch.Left + 1)
		}
		n++
	}
	return float64(end + 1)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
