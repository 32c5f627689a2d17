// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the engine's Config struct and its three
// loading paths: zero-value defaults, a YAML document, and a
// map[string]interface{} overlay (e.g. parsed CLI flags), applied
// through spf13/cast so that a string "16" from a flag and a YAML int
// both land correctly in an int field.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/indy/internal/errkind"
)

// NaryRestriction selects how C8 prunes a merge candidate's column
// ids across its dep and ref sides.
type NaryRestriction int

const (
	// RestrictionNone applies no repetition/disjointness restriction.
	RestrictionNone NaryRestriction = iota
	// RestrictionNoRepetitions rejects a candidate if any column id
	// appears more than once across dep and ref combined.
	RestrictionNoRepetitions
	// RestrictionDepRefDisjoint rejects a candidate if any column id
	// appears on both the dep and ref sides.
	RestrictionDepRefDisjoint
)

// CandidateGenerator selects among the mind/apriori/binder generator
// variants. All three use the same Apriori merge in internal/candidate;
// the only behavioural difference is that Binder implies
// excludeVoidIndsFromCandidateGeneration (see Resolved).
type CandidateGenerator int

const (
	// GeneratorMind selects the mind variant (plain Apriori merge).
	GeneratorMind CandidateGenerator = iota
	// GeneratorApriori selects the plain Apriori merge.
	GeneratorApriori
	// GeneratorBinder selects the binder variant: the plain Apriori
	// merge with ExcludeVoidIndsFromCandidateGeneration set to true
	// regardless of the value configured explicitly.
	GeneratorBinder
)

// Config is the full set of options recognised by the engine (spec §6).
// Every field has a documented default; Load* functions start from
// Default() and apply overrides on top.
type Config struct {
	// NumColumnBits sizes the column-index field of a packed column id.
	NumColumnBits int `yaml:"numColumnBits"`
	// MaxArity upper-bounds discovered IND arity; -1 means exhaust.
	MaxArity int `yaml:"maxArity"`
	// OnlyCountInds stops the run after the unary pass and reports a count.
	OnlyCountInds bool `yaml:"onlyCountInds"`
	// MaxColumns caps the number of columns read per table; -1 means no cap.
	MaxColumns int `yaml:"maxColumns"`
	// SampleRows caps the number of rows read per table; -1 means all rows.
	SampleRows int `yaml:"sampleRows"`
	// IsDropNulls discards null cells instead of emitting a sentinel.
	// spec.md does not state a default for this field (see DESIGN.md);
	// Default() documents the choice made here instead of leaving it
	// ambiguous.
	IsDropNulls bool `yaml:"isDropNulls"`
	// IsNotUseGroupOperators hints to the execution substrate to avoid
	// its native group-by operator (e.g. for substrates without one).
	IsNotUseGroupOperators bool `yaml:"isNotUseGroupOperators"`
	// IsExcludeVoidIndsFromCandidateGeneration: see C8. Forced true when
	// CandidateGenerator is GeneratorBinder.
	IsExcludeVoidIndsFromCandidateGeneration bool `yaml:"isExcludeVoidIndsFromCandidateGeneration"`
	// NaryRestriction selects the C8 pruning rule for arity >= 2.
	NaryRestriction NaryRestriction `yaml:"-"`
	// CandidateGenerator selects the C8 generator variant.
	CandidateGenerator CandidateGenerator `yaml:"-"`

	// CSV controls, propagated to the reference row-iterator implementation.
	FieldSeparator          rune   `yaml:"-"`
	QuoteChar               rune   `yaml:"-"`
	NullString              string `yaml:"nullString"`
	DropDifferingLines      bool   `yaml:"dropDifferingLines"`
	IgnoreLeadingWhiteSpace bool   `yaml:"ignoreLeadingWhiteSpace"`
	UseStrictQuotes         bool   `yaml:"useStrictQuotes"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		NumColumnBits:      16,
		MaxArity:           -1,
		OnlyCountInds:      false,
		MaxColumns:         -1,
		SampleRows:         -1,
		IsDropNulls:        true,
		NaryRestriction:    RestrictionNone,
		CandidateGenerator: GeneratorApriori,
		FieldSeparator:     ',',
		QuoteChar:          '"',
		NullString:         "",
		DropDifferingLines: true,
	}
}

// LoadYAML parses a YAML document on top of Default().
func LoadYAML(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errkind.Configuration.New(fmt.Sprintf("parsing yaml config: %v", err))
	}
	return c, nil
}

// LoadYAMLFile reads and parses a YAML config file on top of Default().
func LoadYAMLFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errkind.Configuration.New(fmt.Sprintf("reading config file %q: %v", path, err))
	}
	return LoadYAML(data)
}

// ApplyOverlay coerces each entry of overlay into the matching field of
// c using spf13/cast, so that string-valued CLI flags ("16", "true")
// and native YAML-decoded values are both accepted. Unknown keys are
// ignored so callers may pass through unrelated flags.
func (c Config) ApplyOverlay(overlay map[string]interface{}) (Config, error) {
	for k, v := range overlay {
		var err error
		switch k {
		case "numColumnBits":
			c.NumColumnBits, err = cast.ToIntE(v)
		case "maxArity":
			c.MaxArity, err = cast.ToIntE(v)
		case "onlyCountInds":
			c.OnlyCountInds, err = cast.ToBoolE(v)
		case "maxColumns":
			c.MaxColumns, err = cast.ToIntE(v)
		case "sampleRows":
			c.SampleRows, err = cast.ToIntE(v)
		case "isDropNulls":
			c.IsDropNulls, err = cast.ToBoolE(v)
		case "isNotUseGroupOperators":
			c.IsNotUseGroupOperators, err = cast.ToBoolE(v)
		case "isExcludeVoidIndsFromCandidateGeneration":
			c.IsExcludeVoidIndsFromCandidateGeneration, err = cast.ToBoolE(v)
		case "dropDifferingLines":
			c.DropDifferingLines, err = cast.ToBoolE(v)
		case "ignoreLeadingWhiteSpace":
			c.IgnoreLeadingWhiteSpace, err = cast.ToBoolE(v)
		case "useStrictQuotes":
			c.UseStrictQuotes, err = cast.ToBoolE(v)
		case "nullString":
			c.NullString, err = cast.ToStringE(v)
		default:
			continue
		}
		if err != nil {
			return Config{}, errkind.Configuration.New(fmt.Sprintf("option %q: %v", k, err))
		}
	}
	return c, nil
}

// Validate checks the invariants spec §4.7/§6 require before any pass
// runs: numColumnBits in [1, 31], maxArity not 0, a recognised nary
// restriction (RestrictionNone included) when maxArity is not 1, and a
// recognised candidate generator.
func (c Config) Validate() error {
	if c.NumColumnBits < 1 || c.NumColumnBits > 31 {
		return errkind.Configuration.New(fmt.Sprintf("numColumnBits must be in [1, 31], got %d", c.NumColumnBits))
	}
	if c.MaxArity == 0 {
		return errkind.Configuration.New("maxArity must be -1 (exhaust) or >= 1")
	}
	if c.MaxArity != 1 {
		// c.MaxArity < 0 means "exhaust"; either way an n-ary pass will
		// run, so the restriction must be one C8 knows how to apply.
		if c.NaryRestriction != RestrictionNone && c.NaryRestriction != RestrictionNoRepetitions && c.NaryRestriction != RestrictionDepRefDisjoint {
			return errkind.Configuration.New("naryRestriction is not a recognised value")
		}
	}
	switch c.CandidateGenerator {
	case GeneratorMind, GeneratorApriori, GeneratorBinder:
	default:
		return errkind.Configuration.New("candidateGenerator is not a recognised value")
	}
	return nil
}

// Resolved applies generator-specific defaults that aren't expressible
// as a static zero value: binder always excludes void INDs from
// candidate generation regardless of what was configured explicitly.
func (c Config) Resolved() Config {
	if c.CandidateGenerator == GeneratorBinder {
		c.IsExcludeVoidIndsFromCandidateGeneration = true
	}
	return c
}
