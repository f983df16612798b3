// Package config holds every tunable of a foldmatch run in one value.
//
// A Config is built once (usually by Load, which layers a settings file,
// FOLDMATCH_* environment variables and command line flags over Default)
// and then passed explicitly to each component. Nothing in foldmatch reads
// settings from package level state.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Extract configures the descriptor extractor.
type Extract struct {
	// number of residues averaged into one characteristic vector
	Window int `mapstructure:"window"`

	// residues whose CA occupancy is below this are skipped
	MinOccupancy float64 `mapstructure:"min-occupancy"`

	// C(i)-N(i+1) distances above this mark a chain break
	MaxPeptideBond float64 `mapstructure:"max-peptide-bond"`
}

// Classify configures secondary structure assignment.
type Classify struct {
	// a model is acceptable when its penalty is at most its sensitivity
	HelixSensitivity  float64 `mapstructure:"helix-sensitivity"`
	StrandSensitivity float64 `mapstructure:"strand-sensitivity"`

	// strand penalties up to AmbiguityFactor x sensitivity are settled
	// with 3-D neighbours
	AmbiguityFactor float64 `mapstructure:"ambiguity-factor"`
	NeighborCutoff  float64 `mapstructure:"neighbor-cutoff"`
	StrandSupport   float64 `mapstructure:"strand-support"`

	MinHelixLength  int `mapstructure:"min-helix-length"`
	MinStrandLength int `mapstructure:"min-strand-length"`

	// strands whose packing score reaches SheetPacking share a sheet
	SheetPacking float64 `mapstructure:"sheet-packing"`
}

// Product configures the product graph.
type Product struct {
	// "minmax" or "robust"
	Scaling string `mapstructure:"scaling"`

	// "correlation" or "euclidean"
	Metric string `mapstructure:"metric"`

	// forbidden edge type pairs, e.g., "HE:HE"
	Restrict []string `mapstructure:"restrict"`
}

// Search configures the ladder search and how many attempts run.
type Search struct {
	Cycles     int   `mapstructure:"cycles"`
	Breadth    int   `mapstructure:"breadth"`
	Top        int   `mapstructure:"top"`
	Deep       bool  `mapstructure:"deep"`
	DeepFactor int   `mapstructure:"deep-factor"`
	MaxSeeds   int   `mapstructure:"max-seeds"`
	EarlyStop  int   `mapstructure:"early-stop"`
	Attempts   int   `mapstructure:"attempts"`
	Workers    int   `mapstructure:"workers"`
	Seed       int64 `mapstructure:"seed"`

	// edge compatibility between the two structural graphs
	AngleTolerance    float64 `mapstructure:"angle-tolerance"`
	DistanceTolerance float64 `mapstructure:"distance-tolerance"`
	MaxLengthDiff     int     `mapstructure:"max-length-diff"`

	// near misses within RepairFactor x Fit.RMSDMax get boundary shifts
	// of up to RepairShift residues
	RepairFactor float64       `mapstructure:"repair-factor"`
	RepairShift  int           `mapstructure:"repair-shift"`
	RepairBudget time.Duration `mapstructure:"repair-budget"`

	// zero means unlimited
	AttemptBudget time.Duration `mapstructure:"attempt-budget"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Fit configures superposition.
type Fit struct {
	RMSDMax       float64 `mapstructure:"rmsd-max"`
	CutoffSD      float64 `mapstructure:"cutoff-sd"`
	MaxIterations int     `mapstructure:"max-iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
	WithCB        bool    `mapstructure:"with-cb"`
}

// Select configures the final verdict on the best candidate.
type Select struct {
	MinCorePercentage float64 `mapstructure:"min-core-percentage"`
	CoreTolerance     float64 `mapstructure:"core-tolerance"`
}

// Sequence configures the optional sequence similarity gate.
type Sequence struct {
	Enabled  bool    `mapstructure:"enabled"`
	MinScore float64 `mapstructure:"min-score"`
	Gap      int     `mapstructure:"gap"`
}

// Config is the root-level settings value.
type Config struct {
	Extract  Extract  `mapstructure:"extract"`
	Classify Classify `mapstructure:"classify"`
	Product  Product  `mapstructure:"product"`
	Search   Search   `mapstructure:"search"`
	Fit      Fit      `mapstructure:"fit"`
	Select   Select   `mapstructure:"select"`
	Sequence Sequence `mapstructure:"sequence"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		Extract: Extract{
			Window:         3,
			MinOccupancy:   0.5,
			MaxPeptideBond: 2.0,
		},
		Classify: Classify{
			HelixSensitivity:  1.0,
			StrandSensitivity: 1.0,
			AmbiguityFactor:   3.0,
			NeighborCutoff:    5.5,
			StrandSupport:     1.0,
			MinHelixLength:    7,
			MinStrandLength:   3,
			SheetPacking:      0.3,
		},
		Product: Product{
			Scaling: "minmax",
			Metric:  "correlation",
		},
		Search: Search{
			Cycles:            8,
			Breadth:           3,
			Top:               5,
			DeepFactor:        3,
			MaxSeeds:          24,
			Attempts:          4,
			Workers:           4,
			Seed:              1,
			AngleTolerance:    25,
			DistanceTolerance: 3,
			MaxLengthDiff:     10,
			RepairFactor:      1.5,
			RepairShift:       2,
			RepairBudget:      200 * time.Millisecond,
		},
		Fit: Fit{
			RMSDMax:       0.8,
			CutoffSD:      2.0,
			MaxIterations: 10,
			Tolerance:     1e-4,
		},
		Select: Select{
			MinCorePercentage: 25,
			CoreTolerance:     2.0,
		},
		Sequence: Sequence{
			MinScore: 0.2,
			Gap:      -4,
		},
	}
}

// Load returns Default overlaid with whatever v knows about: a settings
// file it has read, FOLDMATCH_* environment variables (e.g.,
// FOLDMATCH_SEARCH_CYCLES) and flags bound with BindPFlag. The result is
// validated.
func Load(v *viper.Viper) (Config, error) {
	c := Default()
	setDefaults(v, "", reflect.ValueOf(c))
	v.SetEnvPrefix("foldmatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// setDefaults registers every leaf of val under its mapstructure key so
// that viper resolves environment variables for keys absent from files.
func setDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if len(prefix) > 0 {
			key = prefix + "." + key
		}
		field := val.Field(i)
		if field.Kind() == reflect.Struct {
			setDefaults(v, key, field)
			continue
		}
		v.SetDefault(key, field.Interface())
	}
}

// Validate reports every nonsensical value. All returned errors wrap
// ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs,
				fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}

	e := c.Extract
	check(e.Window >= 2, "extract.window must be at least 2, got %d", e.Window)
	check(e.MinOccupancy >= 0 && e.MinOccupancy <= 1,
		"extract.min-occupancy must be in [0, 1], got %g", e.MinOccupancy)
	check(e.MaxPeptideBond > 0,
		"extract.max-peptide-bond must be positive, got %g", e.MaxPeptideBond)

	s := c.Classify
	check(s.HelixSensitivity > 0, "classify.helix-sensitivity must be positive")
	check(s.StrandSensitivity > 0, "classify.strand-sensitivity must be positive")
	check(s.AmbiguityFactor >= 1,
		"classify.ambiguity-factor must be at least 1, got %g", s.AmbiguityFactor)
	check(s.NeighborCutoff > 0, "classify.neighbor-cutoff must be positive")
	check(s.StrandSupport > 0, "classify.strand-support must be positive")
	check(s.MinHelixLength >= 3,
		"classify.min-helix-length must be at least 3, got %d", s.MinHelixLength)
	check(s.MinStrandLength >= 3,
		"classify.min-strand-length must be at least 3, got %d", s.MinStrandLength)
	check(s.SheetPacking > 0 && s.SheetPacking <= 1,
		"classify.sheet-packing must be in (0, 1], got %g", s.SheetPacking)

	p := c.Product
	check(p.Scaling == "minmax" || p.Scaling == "robust",
		"product.scaling must be 'minmax' or 'robust', got '%s'", p.Scaling)
	check(p.Metric == "correlation" || p.Metric == "euclidean",
		"product.metric must be 'correlation' or 'euclidean', got '%s'", p.Metric)
	for _, r := range p.Restrict {
		_, _, err := ParseRestriction(r)
		check(err == nil, "product.restrict: %v", err)
	}

	r := c.Search
	check(r.Cycles >= 1, "search.cycles must be at least 1, got %d", r.Cycles)
	check(r.Breadth >= 1, "search.breadth must be at least 1, got %d", r.Breadth)
	check(r.Top >= 1, "search.top must be at least 1, got %d", r.Top)
	check(r.DeepFactor >= 1, "search.deep-factor must be at least 1")
	check(r.MaxSeeds >= 1, "search.max-seeds must be at least 1")
	check(r.EarlyStop >= 0, "search.early-stop must not be negative")
	check(r.Attempts >= 1, "search.attempts must be at least 1")
	check(r.Workers >= 1, "search.workers must be at least 1")
	check(r.AngleTolerance > 0, "search.angle-tolerance must be positive")
	check(r.DistanceTolerance > 0, "search.distance-tolerance must be positive")
	check(r.MaxLengthDiff >= 0, "search.max-length-diff must not be negative")
	check(r.RepairFactor >= 1, "search.repair-factor must be at least 1")
	check(r.RepairShift >= 0, "search.repair-shift must not be negative")
	check(r.RepairBudget >= 0 && r.AttemptBudget >= 0 && r.Timeout >= 0,
		"search time budgets must not be negative")

	f := c.Fit
	check(f.RMSDMax > 0, "fit.rmsd-max must be positive, got %g", f.RMSDMax)
	check(f.CutoffSD > 0, "fit.cutoff-sd must be positive")
	check(f.MaxIterations >= 1, "fit.max-iterations must be at least 1")
	check(f.Tolerance >= 0, "fit.tolerance must not be negative")

	sel := c.Select
	check(sel.MinCorePercentage >= 0 && sel.MinCorePercentage <= 100,
		"select.min-core-percentage must be in [0, 100], got %g",
		sel.MinCorePercentage)
	check(sel.CoreTolerance > 0, "select.core-tolerance must be positive")

	check(c.Sequence.Gap <= 0, "sequence.gap must not be positive")

	return errors.Join(errs...)
}

// ParseRestriction splits a restriction of the form "HE:HE" into the edge
// tag of the first and of the second structure. Tags are "HH", "HE" or
// "EE", case insensitive, the same order sgraph gives them. Cross edges
// only ever join edges with equal tags, so both tags must be the same.
func ParseRestriction(s string) (string, string, error) {
	pieces := strings.Split(strings.ToUpper(strings.TrimSpace(s)), ":")
	if len(pieces) != 2 || !validTag(pieces[0]) || !validTag(pieces[1]) {
		return "", "", fmt.Errorf("bad restriction '%s', expected e.g. 'HE:HE'", s)
	}
	if pieces[0] != pieces[1] {
		return "", "", fmt.Errorf("restriction '%s' can never apply: cross "+
			"edges join edges of the same type only", s)
	}
	return pieces[0], pieces[1], nil
}

func validTag(tag string) bool {
	switch tag {
	case "HH", "HE", "EE":
		return true
	}
	return false
}
