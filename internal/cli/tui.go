package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/umlpad/pkg/pipeline"
	"github.com/matzehuels/umlpad/pkg/render"
)

// View styles
var (
	viewDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	viewErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	viewBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)

	phaseStyles = map[pipeline.Phase]lipgloss.Style{
		pipeline.PhaseIdle:       lipgloss.NewStyle().Foreground(colorGreen),
		pipeline.PhaseDebouncing: lipgloss.NewStyle().Foreground(colorYellow),
		pipeline.PhaseInFlight:   lipgloss.NewStyle().Foreground(colorCyan),
	}
)

// controller is the part of the coordinator the view drives.
type controller interface {
	RenderNow()
	SetFormat(render.Format)
}

// =============================================================================
// WatchModel - Live render status
// =============================================================================

type (
	stateMsg   pipeline.State
	closedMsg  struct{}
	writtenMsg struct {
		id   uint64
		path string
		size int
		err  error
	}
)

// WatchModel is the bubbletea model for `umlpad watch`.
type WatchModel struct {
	ctrl    controller
	updates <-chan pipeline.State
	writer  *imageWriter
	input   string

	State       pipeline.State
	ShowDetails bool
	Written     string
	WrittenSize int
	WriteErr    error
	Width       int

	applied uint64
}

// NewWatchModel creates the watch view.
func NewWatchModel(ctrl controller, updates <-chan pipeline.State, writer *imageWriter, input string) WatchModel {
	return WatchModel{ctrl: ctrl, updates: updates, writer: writer, input: input, Width: 72}
}

func (m WatchModel) Init() tea.Cmd {
	return waitForState(m.updates)
}

func waitForState(ch <-chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return stateMsg(st)
	}
}

func writeResult(w *imageWriter, id uint64, res render.Result) tea.Cmd {
	return func() tea.Msg {
		path, err := w.write(res)
		return writtenMsg{id: id, path: path, size: len(res.Image), err: err}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		st := pipeline.State(msg)
		m.State = st
		cmds := []tea.Cmd{waitForState(m.updates)}
		if st.LastAppliedRequestID != m.applied {
			m.applied = st.LastAppliedRequestID
			if st.Current.OK() && m.writer != nil {
				cmds = append(cmds, writeResult(m.writer, st.LastAppliedRequestID, st.Current))
			}
		}
		return m, tea.Batch(cmds...)

	case writtenMsg:
		m.Written, m.WrittenSize, m.WriteErr = msg.path, msg.size, msg.err
		return m, nil

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.ctrl.RenderNow()
		case "f":
			m.ctrl.SetFormat(m.State.Format.Toggle())
		case "d":
			m.ShowDetails = !m.ShowDetails
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width - 4
		if m.Width < 40 {
			m.Width = 40
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("umlpad") + " " + viewDimStyle.Render(m.input))
	b.WriteString("\n\n")

	phase := phaseStyles[m.State.Phase].Render(string(m.State.Phase))
	b.WriteString(viewLabelStyle.Render("state") + " " + phase + "\n")
	b.WriteString(viewLabelStyle.Render("format") + " " + StyleValue.Render(string(m.State.Format)) + "\n")
	b.WriteString(viewLabelStyle.Render("requests") + " " + viewDimStyle.Render(fmt.Sprintf(
		"latest #%d · applied #%d · stale %d",
		m.State.LatestRequestID, m.State.LastAppliedRequestID, m.State.StaleDropped)) + "\n\n")

	b.WriteString(viewBoxStyle.Width(m.Width).Render(m.resultView()))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("r render now  f toggle format  d details  q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m WatchModel) resultView() string {
	res := m.State.Current
	switch {
	case res.Failure != nil:
		f := res.Failure
		head := iconError + " " + f.ShortMessage
		if f.Line > 0 {
			head = fmt.Sprintf("%s line %d: %s", iconError, f.Line, f.ShortMessage)
		}
		lines := []string{viewErrorStyle.Render(head), viewDimStyle.Render("kind: " + string(f.Kind))}
		if m.ShowDetails && strings.TrimSpace(f.Details) != "" {
			lines = append(lines, "", viewDimStyle.Render(strings.TrimRight(f.Details, "\n")))
		}
		if m.State.LastSuccess.OK() {
			lines = append(lines, "", viewDimStyle.Render("previous image kept on disk"))
		}
		return strings.Join(lines, "\n")

	case res.OK():
		if m.WriteErr != nil {
			return viewErrorStyle.Render(iconError + " " + m.WriteErr.Error())
		}
		if m.Written == "" {
			return StyleSuccess.Render(iconSuccess) + " rendered"
		}
		return StyleSuccess.Render(iconSuccess) + " " + m.Written + " " +
			viewDimStyle.Render("("+humanize.Bytes(uint64(m.WrittenSize))+")")

	default:
		return viewDimStyle.Render("nothing rendered yet")
	}
}

// runWatchView runs the terminal view until the user quits or ctx ends.
func runWatchView(ctx context.Context, coord *pipeline.Coordinator, writer *imageWriter, input string) error {
	updates, cancel := coord.Subscribe()
	defer cancel()

	p := tea.NewProgram(NewWatchModel(coord, updates, writer, input), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
