package flutter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"airlift/internal/release"
	"airlift/internal/services"
)

// BuildRequest describes one framework build.
type BuildRequest struct {
	ProjectRoot string
	Platform    release.Platform
	Flavor      string
}

// BuildOutput is the result of a successful build: where the artifact landed.
type BuildOutput struct {
	Platform     release.Platform
	ArtifactPath string
}

// Toolchain defines the build operations the publish workflow needs.
type Toolchain interface {
	Build(ctx context.Context, req BuildRequest) (*BuildOutput, error)
	// Revision resolves the toolchain's current version-control revision.
	Revision(ctx context.Context) (string, error)
}

// Executor abstracts command execution for testability. Run streams each
// output line to onLine and returns once the command exits.
type Executor interface {
	Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(c *Client) {
		if executor != nil {
			c.exec = executor
		}
	}
}

// WithRoot pins the Flutter SDK checkout used for revision resolution.
func WithRoot(root string) Option {
	return func(c *Client) {
		c.root = strings.TrimSpace(root)
	}
}

// Client wraps the flutter and git command-line tools.
type Client struct {
	binary    string
	gitBinary string
	root      string
	exec      Executor
}

// New constructs a Flutter toolchain client.
func New(binary, gitBinary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("flutter binary required")
	}
	gitBinary = strings.TrimSpace(gitBinary)
	if gitBinary == "" {
		gitBinary = "git"
	}
	client := &Client{
		binary:    binary,
		gitBinary: gitBinary,
		exec:      execRunner{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Build runs the platform framework build. It blocks until the toolchain
// exits; cancellation is the caller's responsibility via ctx.
func (c *Client) Build(ctx context.Context, req BuildRequest) (*BuildOutput, error) {
	if strings.TrimSpace(req.ProjectRoot) == "" {
		return nil, errors.New("project root required")
	}

	args := buildArgs(req.Platform)
	if flavor := strings.TrimSpace(req.Flavor); flavor != "" {
		args = append(args, "--flavor", flavor)
	}

	tail := newLineTail(20)
	err := c.exec.Run(ctx, req.ProjectRoot, c.binary, args, tail.add)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "build", strings.Join(append([]string{c.binary}, args...), " "), tail.String(), err)
	}

	return &BuildOutput{
		Platform:     req.Platform,
		ArtifactPath: req.Platform.ArtifactPath(req.ProjectRoot),
	}, nil
}

// Revision resolves the Flutter SDK's current git revision. Any failure is
// fatal to the publish workflow and reported verbatim.
func (c *Client) Revision(ctx context.Context) (string, error) {
	root, err := c.resolveRoot()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "revision", "locate flutter sdk", "", err)
	}

	var lines []string
	err = c.exec.Run(ctx, root, c.gitBinary, []string{"rev-parse", "HEAD"}, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "revision", "git rev-parse HEAD", strings.Join(lines, "; "), err)
	}
	if len(lines) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "revision", "git rev-parse HEAD", "no output", nil)
	}
	return lines[0], nil
}

// resolveRoot returns the configured SDK root, or derives it from the flutter
// binary location (<root>/bin/flutter).
func (c *Client) resolveRoot() (string, error) {
	if c.root != "" {
		return c.root, nil
	}
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return "", fmt.Errorf("flutter binary %q not found on PATH: %w", c.binary, err)
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Dir(filepath.Dir(path)), nil
}

func buildArgs(platform release.Platform) []string {
	if platform == release.PlatformIOS {
		return []string{"build", "ios-framework", "--release"}
	}
	return []string{"build", "aar", "--release"}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read %s output: %w", binary, err)
	}
	return cmd.Wait()
}

// lineTail keeps the last n output lines so build failures carry the
// toolchain's diagnostic text without buffering full logs.
type lineTail struct {
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	t.lines = append(t.lines, trimmed)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "; ")
}

var _ Toolchain = (*Client)(nil)
