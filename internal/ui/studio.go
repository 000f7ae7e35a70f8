package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Types ────────────────────────────────────────────────────────────────────

// StudioParam describes one ABI input parameter with a type-derived hint.
type StudioParam struct {
	Name    string
	Type    string
	Example string // placeholder shown while the field is empty
}

// StudioEntry is one callable method shown in the studio.
type StudioEntry struct {
	Name     string
	Selector string // "0xa9059cbb"
	Sig      string // canonical sig, e.g. "transfer(address,uint256)"
	IsWrite  bool
	Payable  bool
	Inputs   []StudioParam
	Outputs  []string // display only (read methods)
}

// FeedItem is one rendered result row. The feed mirrors the session history:
// bounded, newest first, rewritten by ID as transactions confirm.
type FeedItem struct {
	ID     string
	Method string
	Status string // "done" | "submitted" | "confirmed" | "failed"
	Detail string
	Err    bool
	When   time.Time
}

// InvokeMsg carries a fresh history snapshot back into the studio after an
// invocation step. Next, when set, continues a write that is still waiting
// for inclusion.
type InvokeMsg struct {
	Method string
	Items  []FeedItem
	Banner string
	Err    bool
	Done   bool
	Next   tea.Cmd
}

// ABIMsg is the outcome of an in-studio ABI reload. A parse failure clears
// the method list; any other failure leaves the current list untouched.
type ABIMsg struct {
	Entries []StudioEntry
	Name    string
	Address string
	Parse   bool
	Err     error
}

// StudioHooks connect the studio to a session. Invoke runs one method with
// the collected arguments and returns an InvokeMsg; LoadABI resolves a source
// string (pasted ABI JSON, file path, URL, builtin:name or a saved contract
// name) and returns an ABIMsg.
type StudioHooks struct {
	Invoke  func(e StudioEntry, args []string, value string) tea.Msg
	LoadABI func(src string) tea.Msg
}

// ── Bubble Tea model ─────────────────────────────────────────────────────────

const (
	modeNav  = iota // arrow keys move over the method list
	modeForm        // filling arguments for the chosen method
	modeABI         // typing a new ABI source
)

// argForm collects one value per input, plus the native value to attach when
// the method is payable.
type argForm struct {
	entry  StudioEntry
	labels []string
	hints  []string
	vals   []string
	pos    int
}

func newArgForm(e StudioEntry) *argForm {
	f := &argForm{entry: e}
	for _, p := range e.Inputs {
		label := p.Type
		if p.Name != "" {
			label = p.Name + " · " + p.Type
		}
		f.labels = append(f.labels, label)
		f.hints = append(f.hints, p.Example)
	}
	if e.Payable {
		f.labels = append(f.labels, "value · ETH")
		f.hints = append(f.hints, "0.05")
	}
	f.vals = make([]string, len(f.labels))
	return f
}

func (f *argForm) args() []string { return f.vals[:len(f.entry.Inputs)] }

func (f *argForm) value() string {
	if f.entry.Payable {
		return f.vals[len(f.vals)-1]
	}
	return ""
}

// StudioModel is the resident Bubble Tea model for the interactive studio.
// It lists the contract's methods, collects arguments in a small form, fires
// invocations through its hooks and renders the bounded result feed. The
// program stays up until the user quits: a failed call becomes a feed entry,
// never an exit.
type StudioModel struct {
	ContractName string
	Address      string
	Endpoint     string
	CanSign      bool

	Entries []StudioEntry
	Hooks   StudioHooks

	mode     int
	navItems []int // navItems[i] = index into Entries
	cursor   int   // position inside navItems

	form     *argForm
	abiInput string

	pending   map[string]bool
	feed      []FeedItem
	banner    string
	bannerErr bool

	Quitting bool
}

func (m *StudioModel) prepare() {
	m.buildNav()
	if m.pending == nil {
		m.pending = make(map[string]bool)
	}
}

func (m *StudioModel) buildNav() {
	reads, writes := m.split()
	m.navItems = append(reads, writes...)
	if m.cursor >= len(m.navItems) {
		m.cursor = 0
	}
}

// split buckets entry indexes into reads and writes, preserving order.
func (m StudioModel) split() (reads, writes []int) {
	for i, e := range m.Entries {
		if e.IsWrite {
			writes = append(writes, i)
		} else {
			reads = append(reads, i)
		}
	}
	return reads, writes
}

func (m StudioModel) Init() tea.Cmd { return nil }

func (m StudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeABI:
			return m.updateABI(msg)
		default:
			return m.updateNav(msg)
		}

	case InvokeMsg:
		m.feed = msg.Items
		if msg.Banner != "" {
			m.banner, m.bannerErr = msg.Banner, msg.Err
			if msg.Err {
				m.banner = trimErr(msg.Banner)
			}
		}
		if msg.Done {
			delete(m.pending, msg.Method)
		}
		return m, msg.Next

	case ABIMsg:
		return m.applyABI(msg)
	}
	return m, nil
}

func (m StudioModel) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.navItems)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeABI
		m.abiInput = ""
		m.banner = ""
	case "enter", " ":
		if len(m.navItems) == 0 {
			break
		}
		e := m.Entries[m.navItems[m.cursor]]
		if m.pending[e.Name] {
			m.banner, m.bannerErr = e.Name+" is still pending", true
			break
		}
		if e.IsWrite && !m.CanSign {
			m.banner, m.bannerErr = "session has no signer — writes are disabled", true
			break
		}
		if len(e.Inputs) == 0 && !e.Payable {
			return m.fire(e, nil, "")
		}
		m.form = newArgForm(e)
		m.mode = modeForm
		m.banner = ""
	}
	return m, nil
}

func (m StudioModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		m.mode = modeNav
	case tea.KeyEnter:
		if f.pos < len(f.vals)-1 {
			f.pos++
			break
		}
		e, args, value := f.entry, f.args(), f.value()
		m.form = nil
		m.mode = modeNav
		return m.fire(e, args, value)
	case tea.KeyUp:
		if f.pos > 0 {
			f.pos--
		}
	case tea.KeyDown:
		if f.pos < len(f.vals)-1 {
			f.pos++
		}
	case tea.KeyBackspace:
		if v := f.vals[f.pos]; v != "" {
			r := []rune(v)
			f.vals[f.pos] = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		f.vals[f.pos] += " "
	case tea.KeyRunes:
		f.vals[f.pos] += string(msg.Runes)
	}
	return m, nil
}

func (m StudioModel) updateABI(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNav
	case tea.KeyEnter:
		src := strings.TrimSpace(m.abiInput)
		m.mode = modeNav
		if src == "" {
			break
		}
		m.banner, m.bannerErr = "loading ABI…", false
		hooks := m.Hooks
		return m, func() tea.Msg { return hooks.LoadABI(src) }
	case tea.KeyBackspace:
		if m.abiInput != "" {
			r := []rune(m.abiInput)
			m.abiInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.abiInput += " "
	case tea.KeyRunes:
		m.abiInput += string(msg.Runes)
	}
	return m, nil
}

// fire marks the method pending and runs the invoke hook.
func (m StudioModel) fire(e StudioEntry, args []string, value string) (tea.Model, tea.Cmd) {
	m.pending[e.Name] = true
	m.banner = ""
	hooks := m.Hooks
	return m, func() tea.Msg { return hooks.Invoke(e, args, value) }
}

func (m StudioModel) applyABI(msg ABIMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNav
	if msg.Err != nil {
		if msg.Parse {
			// A malformed ABI invalidates the whole method list.
			m.Entries = nil
			m.navItems = nil
			m.cursor = 0
		}
		m.banner, m.bannerErr = trimErr(msg.Err.Error()), true
		return m, nil
	}
	m.Entries = msg.Entries
	if msg.Name != "" {
		m.ContractName = msg.Name
	}
	if msg.Address != "" {
		m.Address = msg.Address
	}
	m.cursor = 0
	m.buildNav()
	m.banner, m.bannerErr = fmt.Sprintf("loaded %d methods", len(msg.Entries)), false
	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────────────

const studioSepWidth = 72

func (m StudioModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder

	// ── Title ─────────────────────────────────────────────────────────────
	title := fmt.Sprintf("  ABI Studio  ·  %s  ·  %s", m.ContractName, m.Endpoint)
	sb.WriteString(StyleTitle.Render(title) + "\n\n")

	// ── Metadata ──────────────────────────────────────────────────────────
	reads, writes := m.split()
	sb.WriteString(fmt.Sprintf("  %-10s %s\n",
		StyleMeta.Render("Address"),
		StyleAddress.Render(m.Address)))
	sb.WriteString(fmt.Sprintf("  %-10s %s · %s\n",
		StyleMeta.Render("ABI"),
		StyleInfo.Render(fmt.Sprintf("%d read", len(reads))),
		StyleWarning.Render(fmt.Sprintf("%d write", len(writes)))))
	signer := "none — reads only"
	if m.CanSign {
		signer = "ready"
	}
	sb.WriteString(fmt.Sprintf("  %-10s %s\n",
		StyleMeta.Render("Signer"),
		StyleValue.Render(signer)))
	sb.WriteString("\n")

	if m.banner != "" {
		if m.bannerErr {
			sb.WriteString("  " + Err(m.banner) + "\n\n")
		} else {
			sb.WriteString("  " + Success(m.banner) + "\n\n")
		}
	}

	// Build reverse-lookup: entry index → nav cursor position
	navPos := make(map[int]int, len(m.navItems))
	for pos, entIdx := range m.navItems {
		navPos[entIdx] = pos
	}

	if len(m.Entries) == 0 {
		sb.WriteString(StyleMeta.Render("  no methods loaded — press a to paste or load an ABI") + "\n\n")
	}

	// ── Read section ──────────────────────────────────────────────────────
	if len(reads) > 0 {
		sb.WriteString(sectionHeader(fmt.Sprintf("Read (%d)", len(reads))))
		for _, idx := range reads {
			sb.WriteString(m.renderEntry(idx, navPos[idx] == m.cursor, StyleValue))
		}
		sb.WriteString("\n")
	}

	// ── Write section ─────────────────────────────────────────────────────
	if len(writes) > 0 {
		sb.WriteString(sectionHeader(fmt.Sprintf("Write (%d)", len(writes))))
		for _, idx := range writes {
			sb.WriteString(m.renderEntry(idx, navPos[idx] == m.cursor, StyleWarning))
		}
		sb.WriteString("\n")
	}

	ruler := StyleMeta.Render(strings.Repeat("─", studioSepWidth))

	// ── Argument form ─────────────────────────────────────────────────────
	if m.mode == modeForm && m.form != nil {
		f := m.form
		sb.WriteString(ruler + "\n")
		sb.WriteString("  " + StyleHeader.Render(f.entry.Sig) + "\n")
		for i, label := range f.labels {
			marker := "    "
			if i == f.pos {
				marker = "  ▸ "
			}
			val := f.vals[i]
			switch {
			case i == f.pos:
				val = StyleValue.Render(val) + "█"
			case val == "":
				val = StyleMeta.Render(f.hints[i])
			default:
				val = StyleValue.Render(val)
			}
			sb.WriteString(fmt.Sprintf("%s%s  %s\n", marker, StyleMeta.Render(padR(label, 26)), val))
		}
		sb.WriteString(ruler + "\n")
	}

	// ── ABI input ─────────────────────────────────────────────────────────
	if m.mode == modeABI {
		sb.WriteString(ruler + "\n")
		sb.WriteString("  " + StyleHeader.Render("Load ABI") + "\n")
		sb.WriteString("  " + StyleValue.Render(m.abiInput) + "█\n")
		sb.WriteString("  " + StyleMeta.Render("paste ABI JSON, or give a file path, URL, builtin:erc20 or a saved contract name") + "\n")
		sb.WriteString(ruler + "\n")
	}

	// ── Results feed ──────────────────────────────────────────────────────
	if len(m.feed) > 0 {
		sb.WriteString(sectionHeader(fmt.Sprintf("Results (%d)", len(m.feed))))
		for _, it := range m.feed {
			sb.WriteString("  " + renderFeedItem(it) + "\n")
		}
	}
	sb.WriteString("\n")

	// ── Controls ──────────────────────────────────────────────────────────
	switch m.mode {
	case modeForm:
		sb.WriteString(StyleMeta.Render("  [ Enter ] next field / submit   [ ↑↓ ] move   [ Esc ] cancel") + "\n")
	case modeABI:
		sb.WriteString(StyleMeta.Render("  [ Enter ] load   [ Esc ] cancel") + "\n")
	default:
		sb.WriteString(
			StyleMeta.Render("  [ ↑↓ / jk ]") + " navigate   " +
				StyleInfo.Render("[ Enter ]") + " call   " +
				StyleMeta.Render("[ a ]") + " load ABI   " +
				StyleMeta.Render("[ q ]") + " quit\n")
	}

	return sb.String()
}

func sectionHeader(label string) string {
	hdr := fmt.Sprintf("  ── %s ", label)
	fill := studioSepWidth - len(hdr) - 2
	if fill < 0 {
		fill = 0
	}
	return StyleHeader.Render(hdr) + StyleMeta.Render(strings.Repeat("─", fill)) + "\n"
}

func (m StudioModel) renderEntry(idx int, selected bool, nameStyle lipgloss.Style) string {
	e := m.Entries[idx]

	outStr := ""
	if !e.IsWrite && len(e.Outputs) > 0 {
		outStr = StyleMeta.Render("  →  " + strings.Join(e.Outputs, ", "))
	}
	pend := ""
	if m.pending[e.Name] {
		pend = StyleWarning.Render("  ⏳ pending")
	}

	prefix := "    "
	if selected {
		prefix = "  ▸ "
	}
	line := fmt.Sprintf("%s%s  %s(%s)%s%s",
		prefix,
		StyleMeta.Render(e.Selector),
		nameStyle.Render(e.Name),
		StyleMeta.Render(studioParamSig(e.Inputs)),
		outStr,
		pend,
	)
	if selected {
		return StyleSelected.Render(line) + "\n"
	}
	return line + "\n"
}

// renderFeedItem formats one result row: time, status glyph, method, detail.
func renderFeedItem(it FeedItem) string {
	glyph := StyleInfo.Render("✓")
	switch it.Status {
	case "failed":
		glyph = StyleError.Render("✗")
	case "submitted":
		glyph = StyleWarning.Render("➜")
	case "confirmed":
		glyph = StyleSuccess.Render("✓")
	}
	detail := it.Detail
	if it.Err {
		detail = StyleError.Render(trimErr(detail))
	} else {
		detail = StyleValue.Render(detail)
	}
	return fmt.Sprintf("%s %s %s  %s",
		StyleMeta.Render(it.When.Format("15:04:05")), glyph, padR(it.Method, 18), detail)
}

// RunStudio launches the resident studio with altscreen. It returns when the
// user quits; call failures surface in the result feed, never as a program
// error.
func RunStudio(m StudioModel) error {
	m.prepare()
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("studio: %w", err)
	}
	return nil
}

// studioParamSig formats params as "type name, type name".
func studioParamSig(params []StudioParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name != "" {
			parts[i] = p.Type + " " + p.Name
		} else {
			parts[i] = p.Type
		}
	}
	return strings.Join(parts, ", ")
}
