package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	bridgeURLStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	bridgeOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	bridgeFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type bridgeDialedMsg struct {
	err error
}

// bridgeDialModel shows the bridge address while dialling and the outcome once done.
type bridgeDialModel struct {
	spinner spinner.Model
	url     string
	dial    tea.Cmd
	err     error
	done    bool
}

func newBridgeDialModel(url string, dial tea.Cmd) bridgeDialModel {
	return bridgeDialModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(bridgeURLStyle)),
		url:     url,
		dial:    dial,
	}
}

func (m bridgeDialModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.dial)
}

func (m bridgeDialModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bridgeDialedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m bridgeDialModel) View() string {
	switch {
	case !m.done:
		return fmt.Sprintf("%s Connecting to robot bridge %s", m.spinner.View(), bridgeURLStyle.Render(m.url))
	case m.err != nil:
		return bridgeFailStyle.Render(fmt.Sprintf("Robot bridge %s unreachable: %v", m.url, m.err)) + "\n"
	default:
		return bridgeOKStyle.Render("Robot bridge connected: "+m.url) + "\n"
	}
}

func dialBridgeWithProgress(ctx context.Context, output io.Writer, url string, dial func(context.Context) error) error {
	p := tea.NewProgram(
		newBridgeDialModel(url, func() tea.Msg {
			return bridgeDialedMsg{err: dial(ctx)}
		}),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := final.(bridgeDialModel)
	if !ok {
		return fmt.Errorf("unexpected bridge dial model type %T", final)
	}

	return result.err
}
