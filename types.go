package thermoraw

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Annotation is one controlled-vocabulary metadata record.
type Annotation struct {
	Accession string `json:"accession" mapstructure:"accession"`
	CVLabel   string `json:"cvLabel"   mapstructure:"cvLabel"`
	Name      string `json:"name"      mapstructure:"name"`
	Value     string `json:"value"     mapstructure:"value"`
}

// Metadata groups annotations by named property group, e.g.
// "FileProperties" or "InstrumentProperties".
type Metadata map[string][]Annotation

// Spectrum is one spectrum in ProXI format: parallel m/z and intensity
// arrays plus scan-identifying fields.
type Spectrum struct {
	USI         string       `json:"usi,omitempty"`
	Status      string       `json:"status,omitempty"`
	Attributes  []Annotation `json:"attributes,omitempty"`
	Mzs         []float64    `json:"mzs"`
	Intensities []float64    `json:"intensities"`
}

// XICQuery selects one extracted-ion-chromatogram window: a target mass
// with a tolerance magnitude and unit (e.g. "ppm").
type XICQuery struct {
	Mz            float64 `json:"mz"`
	Tolerance     float64 `json:"tolerance"`
	ToleranceUnit string  `json:"tolerance_unit"`
}

// XICResponse is the tool's chromatogram response: output metadata plus
// one content entry per query.
type XICResponse struct {
	OutputMeta XICOutputMeta     `json:"OutputMeta"`
	Content    []XICChromatogram `json:"Content"`
}

// XICOutputMeta describes how the response payload is encoded.
type XICOutputMeta struct {
	Base64   bool   `json:"base64"`
	TimeUnit string `json:"timeunit"`
}

// XICChromatogram is one extracted ion chromatogram: the resolved mass
// and retention-time window plus parallel time/intensity series.
type XICChromatogram struct {
	Meta           XICWindow   `json:"Meta"`
	RetentionTimes FloatSeries `json:"RetentionTimes"`
	Intensities    FloatSeries `json:"Intensities"`
}

// XICWindow holds the mass window and retention-time bounds the tool
// resolved for a query.
type XICWindow struct {
	MzStart float64 `json:"MzStart"`
	MzEnd   float64 `json:"MzEnd"`
	RtStart float64 `json:"RtStart"`
	RtEnd   float64 `json:"RtEnd"`
}

// FloatSeries is a numeric vector that the tool emits either as a plain
// JSON array or, when base64 encoding is requested, as a base64 string
// of little-endian float64 values. Both shapes decode into []float64.
type FloatSeries []float64

func (s *FloatSeries) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]float64)(s))
	}
	var enc string
	if err := json.Unmarshal(data, &enc); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return fmt.Errorf("decoding base64 float series: %w", err)
	}
	if len(raw)%8 != 0 {
		return fmt.Errorf("base64 float series has %d bytes, not a multiple of 8", len(raw))
	}
	out := make(FloatSeries, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	*s = out
	return nil
}

// ProcessResult is the raw outcome of one tool invocation, exposed by
// the Run escape hatch for callers that opt out of strict checking.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
