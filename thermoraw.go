// Package thermoraw is a typed client for the ThermoRawFileParser
// command line tool. It validates that a compatible version is
// installed, builds invocations for the tool's conversion and query
// modes, launches the tool directly or through docker, and decodes the
// JSON the tool exchanges over temporary files and standard output.
//
// The tool itself must be installed separately, either as a host
// executable or as a docker image.
package thermoraw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/mapstructure"

	"github.com/omicstools/thermoraw/internal/executor"
	"github.com/omicstools/thermoraw/internal/invocation"
)

const (
	// DefaultExecutable is the ThermoRawFileParser shell command used
	// when none is configured.
	DefaultExecutable = "thermorawfileparser"

	// VersionRequirement is the semantic version range the installed
	// tool must satisfy.
	VersionRequirement = ">= 1.3.3"
)

// Parser is a handle to a validated ThermoRawFileParser installation.
// Its configuration is immutable after New returns; the installed
// version is set exactly once during validation. Methods may be called
// concurrently, each call runs one independent external process.
type Parser struct {
	executable  string
	dockerImage string
	requirement *semver.Constraints

	installedVersion string

	logger *slog.Logger
	runner executor.Runner
}

// New configures a Parser and synchronously validates the installation
// by probing the tool's reported version. No operation can run against
// an unvalidated handle: a missing executable or image, a failed probe,
// or a version outside VersionRequirement all fail construction with
// an InstallationError.
func New(ctx context.Context, opts ...Option) (*Parser, error) {
	p := &Parser{
		executable: DefaultExecutable,
		logger:     slog.New(slog.DiscardHandler),
		runner:     executor.OSRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}

	req, err := semver.NewConstraint(VersionRequirement)
	if err != nil {
		return nil, &InstallationError{Detail: "parsing version requirement", Cause: err}
	}
	p.requirement = req

	if err := p.validateInstall(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// InstalledVersion returns the version string the tool reported during
// construction.
func (p *Parser) InstalledVersion() string { return p.installedVersion }

func (p *Parser) validateInstall(ctx context.Context) error {
	res, err := p.Run(ctx, []string{"--version"}, nil, false)
	if err != nil {
		var ie *InstallationError
		if errors.As(err, &ie) {
			return err
		}
		return &InstallationError{Detail: "probing installed version", Cause: err}
	}
	if res.ExitCode != 0 {
		return &InstallationError{Detail: strings.TrimSpace(res.Stderr)}
	}

	installed := strings.TrimSpace(res.Stdout)
	v, err := semver.NewVersion(installed)
	if err != nil {
		return &InstallationError{
			Detail: fmt.Sprintf("cannot parse reported version %q", installed),
			Cause:  err,
		}
	}
	if !p.requirement.Check(v) {
		return &InstallationError{
			Detail: fmt.Sprintf("installed version %s does not match requirement %s",
				installed, VersionRequirement),
		}
	}

	p.installedVersion = installed
	p.logger.Debug("validated thermorawfileparser installation", "version", installed)
	return nil
}

// Parse converts a raw file to one of the supported output formats.
// FormatNone leaves the format flag out, using the tool's default.
// Extra options are passed through verbatim and unvalidated after the
// structured arguments; they are an untyped extension point, see the
// ThermoRawFileParser usage docs for what the tool accepts.
func (p *Parser) Parse(ctx context.Context, inputFile string, format OutputFormat, options ...string) error {
	abs, err := filepath.Abs(inputFile)
	if err != nil {
		return fmt.Errorf("resolving input path %s: %w", inputFile, err)
	}

	args := []string{"-i", abs}
	if format != FormatNone {
		code, err := format.code()
		if err != nil {
			return err
		}
		args = append(args, "-f", code)
	}
	args = append(args, options...)

	_, err = p.run(ctx, invocation.Invocation{Args: args, Paths: []string{abs}}, true)
	return err
}

// Metadata returns the raw file's metadata: named property groups, each
// holding a list of controlled-vocabulary annotations. The tool writes
// the metadata to a temporary JSON file scoped to this call.
func (p *Parser) Metadata(ctx context.Context, inputFile string) (Metadata, error) {
	abs, err := filepath.Abs(inputFile)
	if err != nil {
		return nil, fmt.Errorf("resolving input path %s: %w", inputFile, err)
	}

	tmpDir, err := os.MkdirTemp("", "thermoraw-meta-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outFile := filepath.Join(tmpDir, "meta.json")
	inv := invocation.Invocation{
		Args:  []string{"-i", abs, "-c", outFile, "-m", "0"},
		Paths: []string{abs, outFile},
	}
	if _, err := p.run(ctx, inv, true); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		// Exit code 0 but no output file: the tool misbehaved.
		return nil, &RunError{
			Command: p.command(inv),
			Cause:   fmt.Errorf("reading metadata output: %w", err),
		}
	}
	return decodeMetadata(p.command(inv), data)
}

// Query retrieves specific spectra by scan number in ProXI format. The
// scans expression mixes single scans and inclusive ranges, e.g.
// "1-5,20,25-30", and is passed through to the tool uninterpreted.
// Extra options are passed through verbatim after the structured ones.
func (p *Parser) Query(ctx context.Context, inputFile, scans string, options ...string) ([]Spectrum, error) {
	abs, err := filepath.Abs(inputFile)
	if err != nil {
		return nil, fmt.Errorf("resolving input path %s: %w", inputFile, err)
	}

	args := []string{"query", "-i", abs, "-n", scans, "-s"}
	args = append(args, options...)
	inv := invocation.Invocation{Args: args, Paths: []string{abs}}

	res, err := p.run(ctx, inv, true)
	if err != nil {
		return nil, err
	}

	var spectra []Spectrum
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &spectra); err != nil {
		return nil, &RunError{
			Command: p.command(inv),
			Stderr:  res.Stderr,
			Cause:   fmt.Errorf("decoding query response: %w", err),
		}
	}
	return spectra, nil
}

// XIC retrieves one extracted ion chromatogram per query. The query
// list is serialized to a temporary JSON file scoped to this call. When
// base64Encoded is true the tool encodes the retention-time and
// intensity vectors as base64; FloatSeries decodes both shapes.
func (p *Parser) XIC(ctx context.Context, inputFile string, queries []XICQuery, base64Encoded bool) (*XICResponse, error) {
	abs, err := filepath.Abs(inputFile)
	if err != nil {
		return nil, fmt.Errorf("resolving input path %s: %w", inputFile, err)
	}

	tmpDir, err := os.MkdirTemp("", "thermoraw-xic-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	payload, err := json.Marshal(queries)
	if err != nil {
		return nil, fmt.Errorf("encoding xic queries: %w", err)
	}
	queryFile := filepath.Join(tmpDir, "query.json")
	if err := os.WriteFile(queryFile, payload, 0o600); err != nil {
		return nil, fmt.Errorf("writing xic query file: %w", err)
	}

	args := []string{"xic", "-i", abs, "-j", queryFile, "-s"}
	if base64Encoded {
		args = append(args, "--base64")
	}
	inv := invocation.Invocation{Args: args, Paths: []string{abs, queryFile}}

	res, err := p.run(ctx, inv, true)
	if err != nil {
		return nil, err
	}

	var resp XICResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &resp); err != nil {
		return nil, &RunError{
			Command: p.command(inv),
			Stderr:  res.Stderr,
			Cause:   fmt.Errorf("decoding xic response: %w", err),
		}
	}
	return &resp, nil
}

// Run executes the tool with the given arguments and returns the raw
// outcome. It is the untyped escape hatch under the typed operations:
// args are passed through unvalidated, and files lists every path the
// process must be able to see (required under docker execution, where
// their parent directories are bind-mounted). With strict set, a
// non-zero exit becomes a RunError; without it the raw outcome is
// returned as-is.
func (p *Parser) Run(ctx context.Context, args []string, files []string, strict bool) (*ProcessResult, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving path %s: %w", f, err)
		}
		paths = append(paths, abs)
	}
	return p.run(ctx, invocation.Invocation{Args: args, Paths: paths}, strict)
}

func (p *Parser) run(ctx context.Context, inv invocation.Invocation, strict bool) (*ProcessResult, error) {
	cmd := p.command(inv)
	p.logger.Debug("running thermorawfileparser", "command", cmd)

	res, err := p.runner.Run(ctx, cmd, "", nil)
	if err != nil {
		if executor.IsNotFound(err) {
			return nil, &InstallationError{
				Detail: fmt.Sprintf("cannot launch %q", cmd[0]),
				Cause:  err,
			}
		}
		return nil, &RunError{Command: cmd, Cause: err}
	}

	if strict && res.ExitCode != 0 {
		return nil, &RunError{Command: cmd, Stderr: res.Stderr}
	}

	return &ProcessResult{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, nil
}

// command assembles the full command line for an invocation. In docker
// mode every distinct parent directory of the invocation's path set is
// bind-mounted at an identical path inside the container.
func (p *Parser) command(inv invocation.Invocation) []string {
	tokens := strings.Fields(p.executable)

	var cmd []string
	if p.dockerImage != "" {
		cmd = append(cmd, "docker", "run")
		cmd = append(cmd, inv.DockerArgs()...)
		cmd = append(cmd, p.dockerImage)
	}
	cmd = append(cmd, tokens...)
	return append(cmd, inv.Args...)
}

// decodeMetadata parses the tool's metadata JSON. Annotation values
// occasionally arrive as numbers rather than strings, so records are
// decoded weakly.
func decodeMetadata(command []string, data []byte) (Metadata, error) {
	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &RunError{
			Command: command,
			Cause:   fmt.Errorf("decoding metadata JSON: %w", err),
		}
	}

	meta := make(Metadata, len(raw))
	for group, records := range raw {
		anns := make([]Annotation, 0, len(records))
		for _, rec := range records {
			var ann Annotation
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				WeaklyTypedInput: true,
				Result:           &ann,
			})
			if err != nil {
				return nil, fmt.Errorf("building metadata decoder: %w", err)
			}
			if err := dec.Decode(rec); err != nil {
				return nil, &RunError{
					Command: command,
					Cause:   fmt.Errorf("decoding %s annotation: %w", group, err),
				}
			}
			anns = append(anns, ann)
		}
		meta[group] = anns
	}
	return meta, nil
}
