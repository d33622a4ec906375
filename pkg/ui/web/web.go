package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/question"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/browser"
)

const DefaultAddr = "127.0.0.1:0"

var _ ask.UI = (*UI)(nil)

// UI shows questions as a page served on a loopback address and opened in
// the default browser.
type UI struct {
	addr string
	open func(url string) error

	limits ask.Limits
	logger *slog.Logger

	mu       sync.Mutex
	server   *http.Server
	baseURL  string
	dialogs  map[string]*dialog
	handler  http.Handler
	shutdown bool
}

type Option func(*UI)

func WithAddr(addr string) Option {
	return func(u *UI) {
		u.addr = addr
	}
}

// WithOpener replaces the browser launcher, e.g. to print the URL instead.
func WithOpener(open func(url string) error) Option {
	return func(u *UI) {
		u.open = open
	}
}

func WithLimits(limits ask.Limits) Option {
	return func(u *UI) {
		u.limits = limits
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(u *UI) {
		u.logger = logger
	}
}

func New(options ...Option) *UI {
	u := &UI{
		addr: DefaultAddr,
		open: openBrowser,

		logger: slog.Default(),

		dialogs: make(map[string]*dialog),
	}

	for _, option := range options {
		option(u)
	}

	if u.limits.MaxImageBytes <= 0 {
		u.limits.MaxImageBytes = ask.DefaultMaxImageBytes
	}

	if u.limits.MaxImages <= 0 {
		u.limits.MaxImages = ask.DefaultMaxImages
	}

	u.handler = u.routes()

	return u
}

func openBrowser(url string) error {
	// stdout belongs to the MCP transport
	browser.Stdout = os.Stderr
	browser.Stderr = os.Stderr

	return browser.OpenURL(url)
}

func (u *UI) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/q/{id}", u.handlePage)
	r.Post("/q/{id}", u.handleSubmit)

	return r
}

func (u *UI) Handler() http.Handler {
	return u.handler
}

func (u *UI) Render(q *question.Question) (ask.Dialog, error) {
	baseURL, err := u.start()

	if err != nil {
		return nil, err
	}

	d := newDialog(uuid.NewString(), q, func(d *dialog) {
		u.mu.Lock()
		delete(u.dialogs, d.id)
		u.mu.Unlock()
	})

	u.mu.Lock()
	u.dialogs[d.id] = d
	u.mu.Unlock()

	url := baseURL + "/q/" + d.id

	u.logger.Info("question page ready", "url", url)

	if err := u.open(url); err != nil {
		d.Close()
		return nil, err
	}

	return d, nil
}

func (u *UI) start() (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.shutdown {
		return "", errors.New("web ui is closed")
	}

	if u.server != nil {
		return u.baseURL, nil
	}

	l, err := net.Listen("tcp", u.addr)

	if err != nil {
		return "", err
	}

	u.server = &http.Server{
		Handler: u.handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	u.baseURL = "http://" + l.Addr().String()

	go func(s *http.Server) {
		if err := s.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			u.logger.Error("web ui stopped", "error", err)
		}
	}(u.server)

	return u.baseURL, nil
}

// Close stops the server and closes all open dialogs.
func (u *UI) Close() error {
	u.mu.Lock()

	u.shutdown = true

	server := u.server
	u.server = nil

	var dialogs []*dialog

	for _, d := range u.dialogs {
		dialogs = append(dialogs, d)
	}

	u.mu.Unlock()

	for _, d := range dialogs {
		d.Close()
	}

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func (u *UI) lookup(id string) *dialog {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.dialogs[id]
}
