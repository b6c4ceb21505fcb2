package browser

import (
	"context"
	"errors"
	"os/exec"
	"runtime"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
)

// Runner executes a command and waits for it
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Opener reveals a directory in the platform file browser
type Opener struct {
	goos   string
	runner Runner
}

var _ interfaces.Revealer = (*Opener)(nil)

type Option func(*Opener)

// WithRunner replaces command execution, mainly for tests
func WithRunner(r Runner) Option {
	return func(o *Opener) {
		o.runner = r
	}
}

// WithGOOS overrides the detected operating system
func WithGOOS(goos string) Option {
	return func(o *Opener) {
		o.goos = goos
	}
}

func New(opts ...Option) *Opener {
	o := &Opener{
		goos:   runtime.GOOS,
		runner: execRunner,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Command returns the program used to open a directory on goos
func Command(goos string) string {
	switch goos {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

func (o *Opener) Reveal(ctx context.Context, dir string) error {
	if dir == "" {
		return goerr.New("directory is required")
	}

	name := Command(o.goos)
	if err := o.runner(ctx, name, dir); err != nil {
		// explorer.exe exits with 1 even when the window opened
		if o.goos == "windows" {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
				return nil
			}
		}
		return goerr.Wrap(err, "failed to open directory", goerr.V("dir", dir), goerr.V("command", name))
	}
	return nil
}
