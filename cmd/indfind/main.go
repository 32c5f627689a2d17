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

// Command indfind is the CLI surface over the IND discovery engine: it
// wires tabsource.CSVTable inputs and the substrate.Local reference
// executor into internal/controller and prints every discovered IND
// (and, at -v, every IAR) to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/config"
	"github.com/dolthub/indy/internal/controller"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/tabsource"
)

var rootCmd = &cobra.Command{
	Use:   "indfind [flags] table.csv [table.csv ...]",
	Short: "Discover inclusion dependencies across CSV tables",
	Long:  `indfind reads one or more CSV tables and reports every inclusion dependency R[A] ⊆ S[B] it can validate, up to the configured maximum arity.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndFind,
}

func init() {
	registerFlags(rootCmd)
}

// registerFlags declares every indfind flag on cmd. Factored out of
// init so tests can build isolated *cobra.Command instances instead
// of sharing rootCmd's package-level flag state.
func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("num-column-bits", 16, "size of the column-index field in a packed column id")
	flags.Int("max-arity", -1, "upper bound on discovered IND arity; -1 exhausts")
	flags.Bool("only-count-inds", false, "stop after the unary pass and print a count only")
	flags.Int("max-columns", -1, "cap on columns read per table; -1 means no cap")
	flags.Int("sample-rows", -1, "cap on rows read per table; -1 means all rows")
	flags.Bool("drop-nulls", true, "discard null cells instead of emitting a sentinel value")
	flags.Bool("not-use-group-operators", false, "hint to the execution substrate to avoid its native group-by operator")
	flags.Bool("exclude-void-inds", false, "exclude void-column candidates from n-ary generation (forced true for --candidate-generator=binder)")
	flags.String("nary-restriction", "none", "n-ary candidate restriction: none, no-repetitions, or dep-ref-disjoint")
	flags.String("candidate-generator", "apriori", "candidate generation strategy: mind, apriori, or binder")
	flags.String("field-separator", ",", "CSV field separator")
	flags.String("quote-char", `"`, `CSV quote character (the CSV reader always quotes with '"'; other values are ignored)`)
	flags.Bool("drop-differing-lines", true, "silently skip a row whose field count doesn't match the header")
	flags.Bool("ignore-leading-whitespace", false, "ignore leading whitespace in unquoted CSV fields")
	flags.Bool("strict-quotes", false, "reject bare quotes in unquoted CSV fields and non-doubled quotes in quoted fields")
	flags.String("null-string", "", "the textual value that marks a CSV cell as null")
	flags.BoolP("verbose", "v", false, "also print every IAR extracted during the run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "indfind:", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func runIndFind(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	tables, err := loadCSVTables(args, cfg)
	if err != nil {
		return err
	}

	summary, err := controller.Run(context.Background(), controller.Options{Config: cfg, Tables: tables})
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	printSummary(cmd, summary, tables, cfg.NumColumnBits, verbose)
	return nil
}

func configFromFlags(cmd *cobra.Command) (config.Config, error) {
	c := config.Default()
	flags := cmd.Flags()

	c.NumColumnBits, _ = flags.GetInt("num-column-bits")
	c.MaxArity, _ = flags.GetInt("max-arity")
	c.OnlyCountInds, _ = flags.GetBool("only-count-inds")
	c.MaxColumns, _ = flags.GetInt("max-columns")
	c.SampleRows, _ = flags.GetInt("sample-rows")
	c.IsDropNulls, _ = flags.GetBool("drop-nulls")
	c.IsNotUseGroupOperators, _ = flags.GetBool("not-use-group-operators")
	c.IsExcludeVoidIndsFromCandidateGeneration, _ = flags.GetBool("exclude-void-inds")
	c.DropDifferingLines, _ = flags.GetBool("drop-differing-lines")
	c.IgnoreLeadingWhiteSpace, _ = flags.GetBool("ignore-leading-whitespace")
	c.UseStrictQuotes, _ = flags.GetBool("strict-quotes")
	c.NullString, _ = flags.GetString("null-string")

	fieldSep, _ := flags.GetString("field-separator")
	if r, err := singleRune("field-separator", fieldSep); err != nil {
		return config.Config{}, err
	} else {
		c.FieldSeparator = r
	}
	quoteChar, _ := flags.GetString("quote-char")
	if r, err := singleRune("quote-char", quoteChar); err != nil {
		return config.Config{}, err
	} else {
		c.QuoteChar = r
	}

	restriction, _ := flags.GetString("nary-restriction")
	switch strings.ToLower(restriction) {
	case "none", "":
		c.NaryRestriction = config.RestrictionNone
	case "no-repetitions":
		c.NaryRestriction = config.RestrictionNoRepetitions
	case "dep-ref-disjoint":
		c.NaryRestriction = config.RestrictionDepRefDisjoint
	default:
		return config.Config{}, fmt.Errorf("unrecognised --nary-restriction %q", restriction)
	}

	generator, _ := flags.GetString("candidate-generator")
	switch strings.ToLower(generator) {
	case "mind":
		c.CandidateGenerator = config.GeneratorMind
	case "apriori", "":
		c.CandidateGenerator = config.GeneratorApriori
	case "binder":
		c.CandidateGenerator = config.GeneratorBinder
	default:
		return config.Config{}, fmt.Errorf("unrecognised --candidate-generator %q", generator)
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func singleRune(flag, s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("--%s must be exactly one character, got %q", flag, s)
	}
	return runes[0], nil
}

// loadCSVTables opens one tabsource.CSVTable per path, naming each
// table after its file's base name without extension.
func loadCSVTables(paths []string, cfg config.Config) ([]controller.TableSpec, error) {
	csvCfg := tabsource.CSVConfig{
		FieldSeparator:          cfg.FieldSeparator,
		QuoteChar:               cfg.QuoteChar,
		UseStrictQuotes:         cfg.UseStrictQuotes,
		IgnoreLeadingWhiteSpace: cfg.IgnoreLeadingWhiteSpace,
	}

	tables := make([]controller.TableSpec, 0, len(paths))
	for _, p := range paths {
		relation := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		t, err := tabsource.NewCSVTable(relation, p, csvCfg)
		if err != nil {
			return nil, err
		}
		tables = append(tables, controller.TableSpec{Relation: relation, Columns: t.ColumnNames(), Table: t})
	}
	return tables, nil
}

func printSummary(cmd *cobra.Command, summary *controller.Summary, tables []controller.TableSpec, numColumnBits int, verbose bool) {
	out := cmd.OutOrStdout()

	if summary.Count > 0 {
		fmt.Fprintf(out, "%d IND(s)\n", summary.Count)
		return
	}

	resolver := nameResolver(tables, numColumnBits)
	inds := append([]ind.IND(nil), summary.Inds...)
	ind.SortByStandard(inds)
	for _, x := range inds {
		fmt.Fprintln(out, x.Pretty(resolver))
	}

	if verbose {
		for _, iar := range summary.IARs {
			fmt.Fprintf(out, "IAR: %s ⇒ %s\n", iar.LHS.Pretty(resolver), iar.RHS.Pretty(resolver))
		}
	}
}

// nameResolver rebuilds the same column-id layout controller.Run uses
// internally (tables registered in order, under the same
// numColumnBits), purely for pretty-printing the ids in its Summary;
// the CLI has no other way to recover table/column names from bare
// ids.
func nameResolver(tables []controller.TableSpec, numColumnBits int) ind.NameResolver {
	codec, err := colid.NewCodec(numColumnBits)
	if err != nil {
		panic(err) // already validated by configFromFlags's c.Validate() call
	}
	reg := colid.NewRegistry(codec)
	for _, t := range tables {
		reg.AddTable(t.Relation, t.Columns)
	}
	return reg
}
