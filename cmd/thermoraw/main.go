// Command thermoraw is a thin CLI front-end over the thermoraw library:
// it validates the ThermoRawFileParser installation, runs one operation,
// and prints JSON results to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/omicstools/thermoraw"
)

var cli struct {
	Executable  string `help:"ThermoRawFileParser shell command." default:"thermorawfileparser" env:"THERMORAW_EXECUTABLE"`
	DockerImage string `help:"Run the tool through docker with this image." env:"THERMORAW_DOCKER_IMAGE"`
	Verbose     bool   `short:"v" help:"Enable debug logging."`

	Parse    ParseCmd    `cmd:"" help:"Convert a raw file to a supported output format."`
	Metadata MetadataCmd `cmd:"" help:"Print raw file metadata as JSON."`
	Query    QueryCmd    `cmd:"" help:"Retrieve spectra by scan number as JSON."`
	XIC      XICCmd      `cmd:"" name:"xic" help:"Retrieve extracted ion chromatograms as JSON."`
	Version  VersionCmd  `cmd:"" help:"Print the installed tool version."`
}

// ParseCmd converts a raw file.
type ParseCmd struct {
	Input   string   `arg:"" help:"Path to input raw file."`
	Format  string   `short:"f" help:"Output format (mgf, mzml, indexed_mzml, parquet, scan_info)."`
	Options []string `help:"Extra options passed through to the tool verbatim." name:"option"`
}

func (c *ParseCmd) Run(p *thermoraw.Parser) error {
	return p.Parse(context.Background(), c.Input, thermoraw.OutputFormat(c.Format), c.Options...)
}

// MetadataCmd prints raw file metadata.
type MetadataCmd struct {
	Input string `arg:"" help:"Path to input raw file."`
}

func (c *MetadataCmd) Run(p *thermoraw.Parser) error {
	meta, err := p.Metadata(context.Background(), c.Input)
	if err != nil {
		return err
	}
	return printJSON(meta)
}

// QueryCmd retrieves spectra by scan number.
type QueryCmd struct {
	Input   string   `arg:"" help:"Path to input raw file."`
	Scans   string   `arg:"" help:"Scan numbers, e.g. \"1-5,20,25-30\"."`
	Options []string `help:"Extra options passed through to the tool verbatim." name:"option"`
}

func (c *QueryCmd) Run(p *thermoraw.Parser) error {
	spectra, err := p.Query(context.Background(), c.Input, c.Scans, c.Options...)
	if err != nil {
		return err
	}
	return printJSON(spectra)
}

// XICCmd retrieves chromatograms for a JSON query list.
type XICCmd struct {
	Input  string `arg:"" help:"Path to input raw file."`
	Query  string `arg:"" help:"JSON array of queries, e.g. '[{\"mz\":488.5384,\"tolerance\":10,\"tolerance_unit\":\"ppm\"}]'."`
	Base64 bool   `help:"Request base64-encoded chromatogram vectors."`
}

func (c *XICCmd) Run(p *thermoraw.Parser) error {
	queries, err := parseXICQueries(c.Query)
	if err != nil {
		return err
	}
	xic, err := p.XIC(context.Background(), c.Input, queries, c.Base64)
	if err != nil {
		return err
	}
	return printJSON(xic)
}

// VersionCmd prints the validated tool version.
type VersionCmd struct{}

func (c *VersionCmd) Run(p *thermoraw.Parser) error {
	fmt.Println(p.InstalledVersion())
	return nil
}

func parseXICQueries(s string) ([]thermoraw.XICQuery, error) {
	var queries []thermoraw.XICQuery
	if err := json.Unmarshal([]byte(s), &queries); err != nil {
		return nil, fmt.Errorf("parsing xic query list: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("xic query list is empty")
	}
	return queries, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("thermoraw"),
		kong.Description("Typed CLI wrapper around ThermoRawFileParser."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []thermoraw.Option{
		thermoraw.WithExecutable(cli.Executable),
		thermoraw.WithLogger(logger),
	}
	if cli.DockerImage != "" {
		opts = append(opts, thermoraw.WithDockerImage(cli.DockerImage))
	}

	p, err := thermoraw.New(context.Background(), opts...)
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(kctx.Run(p))
}
