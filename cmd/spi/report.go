package main

import (
	"io"
	"strings"

	"github.com/fine-structures/spi.SDK/libspi/stats"
	"github.com/fine-structures/spi.SDK/libspi/wordexpr"
	"github.com/fine-structures/spi.SDK/spi"
	"gopkg.in/yaml.v3"
)

// resultReport is the YAML form of a spi.Result.
type resultReport struct {
	Word         string          `yaml:"word"`
	Letters      string          `yaml:"letters"`
	Rank         int             `yaml:"rank"`
	Invariant    string          `yaml:"invariant"`
	Value        float64         `yaml:"value"`
	Fraction     string          `yaml:"fraction"`
	Infinite     bool            `yaml:"infinite,omitempty"`
	MinimalWord  string          `yaml:"minimal_word,omitempty"`
	NumSubgraphs int             `yaml:"subgraphs"`
	NumUnfolded  int             `yaml:"unfolded"`
	NumFiltered  int             `yaml:"filtered"`
	NumRows      int             `yaml:"equations"`
	Elapsed      string          `yaml:"elapsed,omitempty"`
	Cached       bool            `yaml:"cached,omitempty"`
	Support      []supportReport `yaml:"support,omitempty"`
}

type supportReport struct {
	Weight float64 `yaml:"weight"`
	Graph  string  `yaml:"graph"`
}

type statsReport struct {
	Config spi.Config           `yaml:"config"`
	Length []*stats.LengthStats `yaml:"lengths"`
}

func newResultReport(res *spi.Result, printOpts spi.PrintOpts) *resultReport {
	rep := &resultReport{
		Word:         res.Word.String(),
		Letters:      wordexpr.Format(res.Word),
		Rank:         res.Rank,
		Invariant:    res.Invariant.String(),
		Value:        res.Value,
		Fraction:     "inf",
		Infinite:     res.Infinite,
		NumSubgraphs: res.NumSubgraphs,
		NumUnfolded:  res.NumUnfolded,
		NumFiltered:  res.NumFiltered,
		NumRows:      res.NumRows,
		Cached:       res.Cached,
	}
	if rat := res.Rat(); rat != nil {
		rep.Fraction = rat.RatString()
	}
	if res.MinimalWord != nil {
		rep.MinimalWord = wordexpr.Format(res.MinimalWord)
	}
	if res.Elapsed > 0 {
		rep.Elapsed = res.Elapsed.String()
	}

	buf := strings.Builder{}
	for i, X := range res.Support {
		X.WriteAsString(&buf, printOpts)
		rep.Support = append(rep.Support, supportReport{
			Weight: res.Weights[i],
			Graph:  buf.String(),
		})
		buf.Reset()
	}
	return rep
}

func writeYAML(out io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
