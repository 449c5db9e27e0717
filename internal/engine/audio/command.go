package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CommandPlayer plays the asset through an external program and keeps a
// ClockPlayer for position reporting.
//
// The argv template may contain {file} and {start} (seconds, three
// decimals), for example:
//
//	ffplay -nodisp -autoexit -loglevel quiet -ss {start} {file}
type CommandPlayer struct {
	*ClockPlayer

	mu     sync.Mutex
	argv   []string
	path   string
	cmd    *exec.Cmd
	logger *zap.Logger
}

// NewCommandPlayer creates a player that runs argv for sound.
func NewCommandPlayer(argv []string, logger *zap.Logger, opts ...ClockOption) (*CommandPlayer, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("audio command: empty argv")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("audio command %q: %w", argv[0], err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPlayer{
		ClockPlayer: NewClockPlayer(opts...),
		argv:        append([]string(nil), argv...),
		logger:      logger,
	}, nil
}

// Open records the asset path.
func (c *CommandPlayer) Open(ctx context.Context, asset Asset) error {
	if err := c.ClockPlayer.Open(ctx, asset); err != nil {
		return err
	}
	c.mu.Lock()
	c.path = asset.Path
	c.mu.Unlock()
	return nil
}

// Play starts the clock and the external program at the current position.
func (c *CommandPlayer) Play() error {
	wasPlaying := c.Playing()
	if err := c.ClockPlayer.Play(); err != nil {
		return err
	}
	if wasPlaying {
		return nil
	}
	return c.spawn(c.Position())
}

// Pause stops the clock and the external program.
func (c *CommandPlayer) Pause() {
	c.ClockPlayer.Pause()
	c.kill()
}

// Seek restarts the external program at the new position while playing.
func (c *CommandPlayer) Seek(seconds float64) error {
	playing := c.Playing()
	c.kill()
	if err := c.ClockPlayer.Seek(seconds); err != nil {
		return err
	}
	if playing {
		return c.spawn(c.Position())
	}
	return nil
}

// Close stops everything.
func (c *CommandPlayer) Close() error {
	c.kill()
	return c.ClockPlayer.Close()
}

func (c *CommandPlayer) spawn(start float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	args := expandArgv(c.argv, c.path, start)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		c.ClockPlayer.Pause()
		return fmt.Errorf("start %s: %w", args[0], err)
	}
	c.cmd = cmd
	c.logger.Debug("audio command started", zap.String("cmd", args[0]), zap.Float64("start", start))

	go func() {
		if err := cmd.Wait(); err != nil {
			c.logger.Debug("audio command exited", zap.Error(err))
		}
	}()
	return nil
}

func (c *CommandPlayer) kill() {
	c.mu.Lock()
	cmd := c.cmd
	c.cmd = nil
	c.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill() // best-effort; the process may have exited
	}
}

func expandArgv(argv []string, path string, start float64) []string {
	startStr := strconv.FormatFloat(start, 'f', 3, 64)
	out := make([]string, len(argv))
	for i, a := range argv {
		a = strings.ReplaceAll(a, "{file}", path)
		out[i] = strings.ReplaceAll(a, "{start}", startStr)
	}
	return out
}
