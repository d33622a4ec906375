package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/prompt"
	"github.com/adrianliechti/wingman-ask/pkg/resource"
	"github.com/adrianliechti/wingman-ask/pkg/tool"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

const (
	Name    = "wingman-ask"
	Version = "1.0.0"
)

type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger

	tools []string
}

type Option func(*config)

type config struct {
	instructions string
	logger       *slog.Logger

	tools     []tool.Tool
	resources []resource.Resource
	prompts   []prompt.Prompt
}

func WithInstructions(instructions string) Option {
	return func(c *config) {
		c.instructions = instructions
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithTools(tools ...tool.Tool) Option {
	return func(c *config) {
		c.tools = append(c.tools, tools...)
	}
}

func WithResources(resources ...resource.Resource) Option {
	return func(c *config) {
		c.resources = append(c.resources, resources...)
	}
}

func WithPrompts(prompts ...prompt.Prompt) Option {
	return func(c *config) {
		c.prompts = append(c.prompts, prompts...)
	}
}

func New(options ...Option) *Server {
	c := &config{
		logger: slog.Default(),
	}

	for _, option := range options {
		option(c)
	}

	serverOptions := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	}

	if c.instructions != "" {
		serverOptions = append(serverOptions, server.WithInstructions(c.instructions))
	}

	s := &Server{
		mcp:    server.NewMCPServer(Name, Version, serverOptions...),
		logger: c.logger,
	}

	for _, t := range c.tools {
		s.addTool(t)
	}

	for _, r := range c.resources {
		s.addResource(r)
	}

	for _, p := range c.prompts {
		s.addPrompt(p)
	}

	return s
}

func (s *Server) addTool(t tool.Tool) {
	schema, _ := json.Marshal(t.Schema)

	def := mcp.Tool{
		Name:           t.Name,
		Description:    t.Description,
		RawInputSchema: schema,
	}

	s.tools = append(s.tools, t.Name)

	s.mcp.AddTool(def, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := convertArgs(request.Params.Arguments)

		if err != nil {
			return nil, err
		}

		started := time.Now()

		result, err := t.Execute(ctx, args)

		if err != nil {
			s.logger.Warn("tool call failed", "tool", t.Name, "duration", time.Since(started), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		s.logger.Info("tool call completed", "tool", t.Name, "duration", time.Since(started))

		return convertResult(result), nil
	})
}

func (s *Server) addResource(r resource.Resource) {
	res := mcp.NewResource(r.URI, r.Name,
		mcp.WithResourceDescription(r.Description),
		mcp.WithMIMEType(r.ContentType),
	)

	s.mcp.AddResource(res, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := r.Content(ctx)

		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      r.URI,
				MIMEType: r.ContentType,
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) addPrompt(p prompt.Prompt) {
	options := []mcp.PromptOption{
		mcp.WithPromptDescription(p.Description),
	}

	for _, a := range p.Arguments {
		argOptions := []mcp.ArgumentOption{
			mcp.ArgumentDescription(a.Description),
		}

		if a.Required {
			argOptions = append(argOptions, mcp.RequiredArgument())
		}

		options = append(options, mcp.WithArgument(a.Name, argOptions...))
	}

	s.mcp.AddPrompt(mcp.NewPrompt(p.Name, options...), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text, err := p.Render(ctx, request.Params.Arguments)

		if err != nil {
			return nil, err
		}

		return mcp.NewGetPromptResult(p.Description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	})
}

// ServeStdio serves the protocol on the given streams until ctx is done or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("serving mcp over stdio", "tools", s.tools)

	err := stdio.Listen(ctx, in, out)

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// ServeSSE serves the protocol over HTTP server-sent events until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(s.mcp,
		server.WithBaseURL("http://"+addr),
	)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.handler(sse),

		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving mcp over sse", "addr", addr, "tools", s.tools)

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sse.Shutdown(shutdownCtx)

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handler(sse http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /.well-known/wingman-ask", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"name":    Name,
			"version": Version,

			"tools": s.tools,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data)
	})

	mux.Handle("/sse", sse)
	mux.Handle("/message", sse)

	return cors.AllowAll().Handler(mux)
}

func convertArgs(val any) (map[string]any, error) {
	data, err := json.Marshal(val)

	if err != nil {
		return nil, err
	}

	var args map[string]any

	if err := json.Unmarshal(data, &args); err == nil {
		if args == nil {
			args = map[string]any{}
		}

		return args, nil
	}

	return map[string]any{
		"input": val,
	}, nil
}

func convertResult(val any) *mcp.CallToolResult {
	result := &mcp.CallToolResult{}

	switch v := val.(type) {
	case string:
		result.Content = append(result.Content, mcp.NewTextContent(v))

	case *tool.Result:
		for _, c := range v.Content {
			if c.IsImage() {
				result.Content = append(result.Content, mcp.NewImageContent(base64.StdEncoding.EncodeToString(c.Data), c.MimeType))
				continue
			}

			result.Content = append(result.Content, mcp.NewTextContent(c.Text))
		}

	default:
		data, _ := json.Marshal(v)
		result.Content = append(result.Content, mcp.NewTextContent(string(data)))
	}

	return result
}
