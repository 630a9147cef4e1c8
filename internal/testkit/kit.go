package testkit

import (
	"kalpha/adapters/logging"
	"kalpha/adapters/rng"
	"kalpha/domain/reliability"
	"kalpha/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	rng      *rng.Adapter
	recorder *logging.Recorder
}

// NewTestKit creates a new test kit instance
func NewTestKit() (*TestKit, error) {
	return &TestKit{
		rng:      rng.NewAdapter(),
		recorder: &logging.Recorder{},
	}, nil
}

// RNGAdapter returns the deterministic stream adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return t.rng
}

// Diagnostics returns a sink that records everything the engine narrates
func (t *TestKit) Diagnostics() *logging.Recorder {
	return t.recorder
}

// Fixture is a ratings matrix with a known coefficient
type Fixture struct {
	Name          string
	Level         reliability.Level
	Normalization reliability.Normalization
	Rows          [][]float64 // NaN marks a missing rating
	Alpha         float64
}

// Matrix returns the fixture rows as a rating matrix
func (f Fixture) Matrix() reliability.Matrix {
	return reliability.FromFloats(f.Rows)
}

// reliabilityData is the four-observer, twelve-unit example from Krippendorff's
// "Computing Krippendorff's Alpha-Reliability", one row per unit.
var reliabilityData = [][]float64{
	{1, 1, nan, 1},
	{2, 2, 3, 2},
	{3, 3, 3, 3},
	{3, 3, 3, 3},
	{2, 2, 2, 2},
	{1, 2, 3, 4},
	{4, 4, 4, 4},
	{1, 1, 2, 1},
	{2, 2, 2, 2},
	{nan, 5, 5, 5},
	{nan, nan, 1, 1},
	{nan, 3, nan, nan},
}

// Fixtures returns the golden matrices. Values are pair-weighted observed
// disagreement over the expected disagreement of the pairable marginals.
func Fixtures() []Fixture {
	return []Fixture{
		{Name: "perfect agreement", Level: reliability.Nominal, Alpha: 1.0,
			Rows: [][]float64{{1, 1, 1, 1}, {2, 2, 2, 2}, {3, 3, 3, 3}}},
		{Name: "systematic disagreement", Level: reliability.Nominal, Alpha: -0.5,
			Rows: [][]float64{{1, 2}, {2, 1}}},
		{Name: "single disagreement", Level: reliability.Nominal, Alpha: 0.0,
			Rows: [][]float64{{1, 1}, {1, 2}}},
		{Name: "single disagreement pairable", Level: reliability.Nominal, Normalization: reliability.NormalizePairable, Alpha: 0.75,
			Rows: [][]float64{{1, 1}, {1, 2}}},
		{Name: "reliability data nominal", Level: reliability.Nominal, Alpha: 0.7200956937799043, Rows: reliabilityData},
		{Name: "reliability data ordinal", Level: reliability.Ordinal, Alpha: 0.7305228600395887, Rows: reliabilityData},
		{Name: "reliability data interval", Level: reliability.Interval, Alpha: 0.8353896103896103, Rows: reliabilityData},
		{Name: "reliability data ratio", Level: reliability.Ratio, Alpha: 0.7789848451399404, Rows: reliabilityData},
	}
}
