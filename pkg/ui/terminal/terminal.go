package terminal

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/question"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DefaultDevice = "/dev/tty"

var _ ask.UI = (*UI)(nil)

// UI shows questions as a full screen dialog on the controlling terminal,
// leaving stdin and stdout to the MCP transport.
type UI struct {
	device string
	style  string

	maxFileBytes int
}

type Option func(*UI)

func WithDevice(path string) Option {
	return func(u *UI) {
		u.device = path
	}
}

// WithStyle sets the glamour style used for the question body.
func WithStyle(style string) Option {
	return func(u *UI) {
		u.style = style
	}
}

// WithMaxFileBytes bounds how much of an attached file is read.
func WithMaxFileBytes(n int) Option {
	return func(u *UI) {
		u.maxFileBytes = n
	}
}

func New(options ...Option) *UI {
	u := &UI{
		device: DefaultDevice,
		style:  "dark",

		maxFileBytes: ask.DefaultMaxImageBytes,
	}

	for _, option := range options {
		option(u)
	}

	return u
}

func (u *UI) Render(q *question.Question) (ask.Dialog, error) {
	tty, err := os.OpenFile(u.device, os.O_RDWR, 0)

	if err != nil {
		return nil, err
	}

	d := &dialog{
		tty: tty,

		events: make(chan ask.Event, 16),

		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}

	if q.IsChoice() && len(q.Options) > 0 {
		d.events <- ask.OptionSelected{Value: q.Options[0].Value}
	}

	renderer := lipgloss.NewRenderer(tty)

	m := newModel(q, newStyles(renderer), u.style, u.maxFileBytes, d.send)

	d.program = tea.NewProgram(m,
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	go d.run()

	return d, nil
}

type dialog struct {
	tty     *os.File
	program *tea.Program

	events chan ask.Event

	once   sync.Once
	quit   chan struct{}
	exited chan struct{}
}

func (d *dialog) Events() <-chan ask.Event {
	return d.events
}

func (d *dialog) Reject(r ask.Rejection) {
	select {
	case <-d.quit:
		return
	default:
	}

	d.program.Send(rejectMsg(r))
}

func (d *dialog) Close() error {
	d.once.Do(func() {
		close(d.quit)
		d.program.Quit()
	})

	select {
	case <-d.exited:
	case <-time.After(2 * time.Second):
		d.program.Kill()
		<-d.exited
	}

	return d.tty.Close()
}

func (d *dialog) run() {
	defer close(d.exited)
	defer close(d.events)

	d.program.Run()
}

// send is called from the program's update loop; it gives up once the
// dialog is closing so the program can always exit.
func (d *dialog) send(e ask.Event) {
	select {
	case d.events <- e:
	case <-d.quit:
	}
}

var errNoFile = errors.New("no file given")
