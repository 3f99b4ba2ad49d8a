package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fine-structures/spi.SDK/libspi/catalog"
	"github.com/fine-structures/spi.SDK/libspi/pipeline"
	"github.com/fine-structures/spi.SDK/libspi/stats"
	"github.com/fine-structures/spi.SDK/libspi/wordexpr"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spi",
		Short: "Computes stable invariants of free group words",
		Long: `spi computes the stable primitivity rank of a cyclically reduced free group word
(no-origami and spi-m variants) by enumerating subgraphs of its Whitehead graph and
solving the resulting linear program.`,
		SilenceUsage: true,
	}
	addConfigFlags(rootCmd)

	rootCmd.AddCommand(newSingleCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newScriptCmd())
	return rootCmd
}

// withCatalog opens the catalog named by cfg (if any) for the duration of fn.
func withCatalog(cfg spi.Config, readOnly bool, fn func(cat spi.Catalog) error) error {
	if cfg.Catalog == "" {
		return fn(nil)
	}

	ctx := spi.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	cat, err := catalog.OpenCatalog(ctx, spi.CatalogOpts{
		DbPathName: cfg.Catalog,
		ReadOnly:   readOnly,
	})
	if err != nil {
		return err
	}
	return fn(cat)
}

func newSingleCmd() *cobra.Command {
	var (
		support bool
		matrix  bool
		stream  bool
	)
	cmd := &cobra.Command{
		Use:   "single [word]",
		Short: "Computes the invariant of one word",
		Long: `Computes the invariant of one word, given as letters (abAB), indexed generators
(x1 x2 X1 X2), signed integers (1 2 -1 -2), or with commutators and powers ([a,b]^2).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			inv, err := spi.ParseInvariant(cfg.Invariant, cfg.Modulus)
			if err != nil {
				return err
			}
			word, err := wordexpr.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			return withCatalog(cfg, false, func(cat spi.Catalog) error {
				res, err := pipeline.Calculate(word, cfg.Rank, inv, pipeline.Opts{
					Minimize:    cfg.Minimize,
					KeepSupport: support,
					Stream:      stream,
					Catalog:     cat,
				})
				if err != nil {
					return err
				}
				printOpts := spi.PrintOpts{
					Graph:  true,
					Matrix: matrix,
					Origin: true,
				}
				return writeYAML(cmd.OutOrStdout(), newResultReport(res, printOpts))
			})
		},
	}
	cmd.Flags().BoolVar(&support, "support", false, "print the graphs carrying nonzero weight")
	cmd.Flags().BoolVar(&matrix, "matrix", false, "also print support graphs as adjacency matrices")
	cmd.Flags().BoolVar(&stream, "stream", false, "run enumeration and unfolding as a channel pipeline")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Computes statistics of the invariant over random words of each length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := stats.OptsFromConfig(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return withCatalog(cfg, false, func(cat spi.Catalog) error {
				opts.Calc.Catalog = cat
				all, err := stats.Sweep(context.Background(), opts, func(st *stats.LengthStats) {
					if asYAML {
						return
					}
					if st.Finite > 0 {
						fmt.Fprintf(out, "Length %d: Mean = %g, StdDev = %g, Finite = %d, Infinite = %d, Distinct = %d, Elapsed time: %v\n",
							st.Length, st.Mean, st.StdDev, st.Finite, st.Infinite, st.Distinct, st.Elapsed)
					} else {
						fmt.Fprintf(out, "Length %d: no finite samples, Elapsed time: %v\n", st.Length, st.Elapsed)
					}
				})
				if err != nil {
					return err
				}
				if asYAML {
					return writeYAML(out, &statsReport{
						Config: cfg,
						Length: all,
					})
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print a YAML report once the sweep completes")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var finiteOnly bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Lists the results stored in a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Catalog == "" {
				return errors.New("no catalog given (see --catalog)")
			}
			inv, err := spi.ParseInvariant(cfg.Invariant, cfg.Modulus)
			if err != nil {
				return err
			}
			sel := spi.ResultSelector{
				Invariant:  inv,
				Rank:       cfg.Rank,
				MinLength:  cfg.Stats.MinLength,
				MaxLength:  cfg.Stats.MaxLength,
				FiniteOnly: finiteOnly,
			}

			return withCatalog(cfg, true, func(cat spi.Catalog) error {
				var reports []*resultReport
				for res := range spi.SelectFromCatalog(cat, sel) {
					reports = append(reports, newResultReport(res, spi.DefaultPrintOpts))
				}
				return writeYAML(cmd.OutOrStdout(), reports)
			})
		},
	}
	cmd.Flags().BoolVar(&finiteOnly, "finite", false, "skip infinite results")
	return cmd
}

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script [file.py]",
		Short: "Runs a gpython script with the _spi module (or a REPL if no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathname := ""
			if len(args) > 0 {
				pathname = args[0]
			}
			return runScript(pathname)
		},
	}
}
