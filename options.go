package thermoraw

import (
	"log/slog"

	"github.com/omicstools/thermoraw/internal/executor"
)

// Option configures a Parser before installation validation runs.
type Option func(*Parser)

// WithExecutable sets the ThermoRawFileParser shell command. Multi-token
// templates such as "mono ThermoRawFileParser.exe" are split on
// whitespace.
func WithExecutable(executable string) Option {
	return func(p *Parser) {
		p.executable = executable
	}
}

// WithDockerImage routes every invocation through "docker run" with the
// given image instead of launching the executable directly on the host.
func WithDockerImage(image string) Option {
	return func(p *Parser) {
		p.dockerImage = image
	}
}

// WithLogger sets the logger used for debug-level command tracing. The
// default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// withRunner swaps the process launcher. Test seam.
func withRunner(r executor.Runner) Option {
	return func(p *Parser) {
		p.runner = r
	}
}
