package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/transmit"
)

// sentMsg reports the outcome of a transmission started by RemoteModel
type sentMsg struct {
	item    commandItem
	err     error
	elapsed time.Duration
}

// remoteKeyMap defines key bindings for the remote picker
type remoteKeyMap struct {
	Send key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k remoteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k remoteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Quit}}
}

// commandItem is one remote command in the list
type commandItem struct {
	remote  string
	command string
	desc    string
	frames  int
}

func (i commandItem) FilterValue() string { return i.remote + " " + i.command }

func (i commandItem) Title() string { return i.remote + " › " + i.command }

func (i commandItem) Description() string {
	s := fmt.Sprintf("%d frame", i.frames)
	if i.frames != 1 {
		s += "s"
	}
	if i.desc != "" {
		s = i.desc + " • " + s
	}
	return s
}

// CommandItems lists every command of the registry, ordered by remote then
// command name
func CommandItems(reg *config.Registry) []list.Item {
	var items []list.Item
	for _, rn := range reg.RemoteNames() {
		remote := reg.GetRemote(rn)
		for _, cn := range remote.CommandNames() {
			cmd := remote.Commands[cn]
			items = append(items, commandItem{
				remote:  rn,
				command: cn,
				desc:    cmd.Description,
				frames:  len(cmd.Payloads),
			})
		}
	}
	return items
}

// RemoteModel lists the registry's commands and transmits the selected one.
// Only one transmission runs at a time; Send is ignored while busy.
type RemoteModel struct {
	Registry *config.Registry
	Driver   *transmit.Driver
	Target   string // Shown in the title, e.g. "/dev/lirc0"

	ctx     context.Context
	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    remoteKeyMap

	sending *commandItem
	status  string
	lastErr error
	sent    int
	width   int
	height  int
}

// NewRemoteModel creates the picker. ctx bounds every transmission.
func NewRemoteModel(ctx context.Context, reg *config.Registry, d *transmit.Driver, target string) RemoteModel {
	l := list.New(CommandItems(reg), list.NewDefaultDelegate(), MinTerminalWidth, 20)
	l.Title = "Remote commands"
	if target != "" {
		l.Title += " → " + target
	}
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(TextColor).Background(PrimaryColor).Padding(0, 1)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StepRunningStyle

	keys := remoteKeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return RemoteModel{
		Registry: reg,
		Driver:   d,
		Target:   target,
		ctx:      ctx,
		list:     l,
		spinner:  s,
		help:     help.New(),
		keys:     keys,
	}
}

// Init implements tea.Model
func (m RemoteModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m RemoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Keys belong to the filter input while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			if m.sending != nil {
				return m, nil
			}
			item, ok := m.list.SelectedItem().(commandItem)
			if !ok {
				return m, nil
			}
			m.sending = &item
			m.status = ""
			m.lastErr = nil
			return m, tea.Batch(m.send(item), m.spinner.Tick)
		}

	case sentMsg:
		m.sending = nil
		m.lastErr = msg.err
		if msg.err != nil {
			m.status = ErrorMessageStyle.Render(fmt.Sprintf("%s %s › %s: %v", FailureMarker, msg.item.remote, msg.item.command, msg.err))
		} else {
			m.sent++
			m.status = StepCompleteStyle.Render(fmt.Sprintf("%s %s › %s sent in %s", SuccessMarker, msg.item.remote, msg.item.command, msg.elapsed.Round(time.Millisecond)))
		}
		return m, nil

	case spinner.TickMsg:
		if m.sending == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// send returns a command that transmits item and reports a sentMsg
func (m RemoteModel) send(item commandItem) tea.Cmd {
	reg, d, ctx := m.Registry, m.Driver, m.ctx
	return func() tea.Msg {
		start := time.Now()
		cmd, timing, err := reg.Command(item.remote, item.command)
		if err != nil {
			return sentMsg{item: item, err: err}
		}
		d.Timing = timing
		err = d.SendCommand(ctx, cmd)
		return sentMsg{item: item, err: err, elapsed: time.Since(start)}
	}
}

// View implements tea.Model
func (m RemoteModel) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			WarningTitleStyle.Render("No remote commands configured."),
			StepPendingStyle.Render("Add one with: irblaster remotes add-command <remote> <command> --payload <hex>"),
			"",
			m.help.View(m.keys),
		)
	}

	var status string
	switch {
	case m.sending != nil:
		status = m.spinner.View() + " " + StepRunningStyle.Render(fmt.Sprintf("Sending %s › %s...", m.sending.remote, m.sending.command))
	case m.status != "":
		status = m.status
	default:
		status = StepPendingStyle.Render("Select a command and press enter")
	}

	return strings.Join([]string{m.list.View(), status, m.help.View(m.keys)}, "\n")
}

// Sent returns the number of successful transmissions
func (m RemoteModel) Sent() int {
	return m.sent
}

// LastError returns the error of the last transmission, if any
func (m RemoteModel) LastError() error {
	return m.lastErr
}

// RunRemotePicker runs the picker until the user quits
func RunRemotePicker(ctx context.Context, reg *config.Registry, d *transmit.Driver, target string) error {
	p := tea.NewProgram(NewRemoteModel(ctx, reg, d, target), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
