package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
)

// AskPort is the TUI-facing subset of the pipeline.
type AskPort interface {
	Ask(ctx context.Context, question string) (domain.Answer, error)
}

type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

type entry struct {
	question string
	answer   string
	sources  []int
	failed   bool
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	service  AskPort
	input    textinput.Model
	viewport viewport.Model
	entries  []entry
	summary  string
	status   string
	waiting  bool
	ready    bool
}

// New creates a chat model over an initialized pipeline. summary is shown in
// the header until the first exchange.
func New(service AskPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, summary: summary, status: "Document loaded. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case answerMsg:
		m.waiting = false
		e := entry{question: msg.question}
		if msg.err != nil {
			e.answer = msg.err.Error()
			e.failed = true
			m.status = "Ask failed. You can retry the question."
		} else {
			e.answer = msg.answer.Text
			for _, f := range msg.answer.Sources {
				e.sources = append(e.sources, f.Index)
			}
			if len(e.sources) == 0 {
				m.status = "Answered without document grounding."
			} else {
				m.status = fmt.Sprintf("Answered from %d fragment(s).", len(e.sources))
			}
		}
		m.entries = append(m.entries, e)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.waiting {
				return m, nil
			}
			if strings.EqualFold(q, "exit") {
				return m, tea.Quit
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			svc := m.service
			return m, func() tea.Msg {
				ans, err := svc.Ask(context.Background(), q)
				return answerMsg{question: q, answer: ans, err: err}
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docchat")
	summary := summaryStyle.Render(m.summary)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(questionStyle.Render("You: "+e.question) + "\n")
		if e.failed {
			b.WriteString(errorStyle.Render("Error: "+e.answer) + "\n")
			continue
		}
		b.WriteString(e.answer + "\n")
		if len(e.sources) > 0 {
			refs := make([]string, len(e.sources))
			for j, idx := range e.sources {
				refs[j] = fmt.Sprintf("#%d", idx)
			}
			b.WriteString(sourceStyle.Render("sources: "+strings.Join(refs, ", ")) + "\n")
		}
	}
	return b.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
