package thermoraw

import (
	"slices"
	"strings"
)

// OutputFormat names one of the conversion targets ThermoRawFileParser
// supports. The zero value means no explicit format, letting the tool
// use its default.
type OutputFormat string

const (
	FormatNone        OutputFormat = ""
	FormatMGF         OutputFormat = "mgf"
	FormatMzML        OutputFormat = "mzml"
	FormatIndexedMzML OutputFormat = "indexed_mzml"
	FormatParquet     OutputFormat = "parquet"
	FormatScanInfo    OutputFormat = "scan_info"
)

// formatCodes maps friendly format names to the tool's -f codes.
var formatCodes = map[OutputFormat]string{
	FormatMGF:         "0",
	FormatMzML:        "1",
	FormatIndexedMzML: "2",
	FormatParquet:     "3",
	FormatScanInfo:    "4",
}

// code returns the tool-specific format code, matching names
// case-insensitively.
func (f OutputFormat) code() (string, error) {
	c, ok := formatCodes[OutputFormat(strings.ToLower(string(f)))]
	if !ok {
		return "", &UnknownFormatError{Format: string(f)}
	}
	return c, nil
}

func supportedFormats() []string {
	names := make([]string, 0, len(formatCodes))
	for f := range formatCodes {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return names
}
