package ask

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/adrianliechti/wingman-ask/app"
	"github.com/adrianliechti/wingman-ask/pkg/ask"
)

// Run shows the question stored at path ("-" reads stdin) and writes the
// answer as JSON to out.
func Run(ctx context.Context, a *app.App, path string, timeout time.Duration, out io.Writer) error {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return err
	}

	q, err := a.Parser.Parse(string(data))

	if err != nil {
		return err
	}

	answer, err := a.Bridge.Ask(ctx, q, timeout)

	if errors.Is(err, ask.ErrCancelled) || errors.Is(err, ask.ErrTimedOut) {
		a.Logger.Warn("no answer obtained", "error", err)
	}

	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(answer)
}
