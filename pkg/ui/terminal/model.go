package terminal

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/markdown"
	"github.com/adrianliechti/wingman-ask/pkg/question"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type rejectMsg ask.Rejection

type styles struct {
	frame    lipgloss.Style
	title    lipgloss.Style
	option   lipgloss.Style
	selected lipgloss.Style
	file     lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		frame:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		option:   r.NewStyle().Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("70")),
		file:     r.NewStyle().Foreground(lipgloss.Color("66")),
		err:      r.NewStyle().Foreground(lipgloss.Color("9")),
		help:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

type model struct {
	question *question.Question
	styles   styles
	style    string

	maxFileBytes int

	send func(ask.Event)

	body   string
	cursor int

	text textarea.Model
	path textinput.Model

	attaching   bool
	attachments []string

	err   string
	width int
}

func newModel(q *question.Question, s styles, style string, maxFileBytes int, send func(ask.Event)) model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.Focus()

	ta.Placeholder = "Type your answer..."

	if q.IsChoice() {
		ta.Placeholder = "Type your own answer, or a note for the chosen option..."
	}

	ti := textinput.New()
	ti.Prompt = "image: "
	ti.Placeholder = "path to a png, jpeg, gif or bmp file"

	return model{
		question: q,
		styles:   s,
		style:    style,

		maxFileBytes: maxFileBytes,

		send: send,

		body: markdown.RenderString(q.Body, style, 72),

		text: ta,
		path: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

		width := max(min(msg.Width-8, 100), 20)

		m.text.SetWidth(width)
		m.path.Width = width - len(m.path.Prompt)

		if m.question.Body != "" {
			m.body = markdown.RenderString(m.question.Body, m.style, width)
		}

		return m, nil

	case rejectMsg:
		m.err = msg.Message

		for i := len(msg.Dropped) - 1; i >= 0; i-- {
			if idx := msg.Dropped[i]; idx >= 0 && idx < len(m.attachments) {
				m.attachments = slices.Delete(m.attachments, idx, idx+1)
			}
		}

		return m, nil

	case tea.KeyMsg:
		if m.attaching {
			return m.updateAttach(msg)
		}

		switch msg.String() {
		case "esc", "ctrl+c":
			m.send(ask.Cancelled{})
			return m, nil

		case "ctrl+s":
			m.err = ""
			m.send(ask.Submitted{})
			return m, nil

		case "ctrl+o":
			m.attaching = true
			m.text.Blur()
			return m, m.path.Focus()

		case "up", "down":
			if m.question.IsChoice() {
				return m.move(msg.String()), nil
			}
		}
	}

	before := m.text.Value()

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)

	if value := m.text.Value(); value != before {
		m.send(ask.TextChanged{Text: value})
	}

	return m, cmd
}

func (m model) move(key string) model {
	n := len(m.question.Options)

	if n == 0 {
		return m
	}

	if key == "up" {
		m.cursor = (m.cursor - 1 + n) % n
	} else {
		m.cursor = (m.cursor + 1) % n
	}

	m.send(ask.OptionSelected{Value: m.question.Options[m.cursor].Value})

	return m
}

func (m model) updateAttach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.attaching = false
		m.path.Reset()
		m.path.Blur()

		return m, m.text.Focus()

	case "enter":
		path := m.path.Value()

		m.attaching = false
		m.path.Reset()
		m.path.Blur()

		data, name, err := readImage(path, m.maxFileBytes)

		if err != nil {
			m.err = err.Error()
			return m, m.text.Focus()
		}

		m.err = ""
		m.attachments = append(m.attachments, name)

		m.send(ask.ImageAttached{
			Data:     data,
			MimeType: http.DetectContentType(data),
		})

		return m, m.text.Focus()
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)

	return m, cmd
}

// readImage reads at most limit+1 bytes so oversized files are still
// reported as such.
func readImage(path string, limit int) ([]byte, string, error) {
	path = strings.Trim(strings.TrimSpace(path), `"'`)

	if path == "" {
		return nil, "", errNoFile
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}

	f, err := os.Open(path)

	if err != nil {
		return nil, "", err
	}

	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))

	if err != nil {
		return nil, "", err
	}

	return data, filepath.Base(path), nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(m.question.Title))
	b.WriteString("\n")

	if m.question.Body != "" {
		b.WriteString(m.body)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.question.IsChoice() {
		for i, o := range m.question.Options {
			if i == m.cursor {
				b.WriteString(m.styles.selected.Render("> " + o.Label))
			} else {
				b.WriteString(m.styles.option.Render("  " + o.Label))
			}

			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	b.WriteString(m.text.View())
	b.WriteString("\n")

	for _, name := range m.attachments {
		b.WriteString(m.styles.file.Render("📎 " + name))
		b.WriteString("\n")
	}

	if m.attaching {
		b.WriteString(m.path.View())
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(m.styles.err.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())

	return m.styles.frame.Render(b.String())
}

func (m model) helpView() string {
	if m.attaching {
		return m.styles.help.Render("enter: attach | esc: back")
	}

	help := "ctrl+s: submit | ctrl+o: attach image | esc: cancel"

	if m.question.IsChoice() {
		help = "↑/↓: choose | " + help
	}

	return m.styles.help.Render(help)
}
