// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// length-dist summarises the distribution of spliced isoform lengths in
// an isoform table, optionally rendering a histogram.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	table     = flag.String("table", "", "input isoform table file name (required)")
	hist      = flag.String("hist", "", "histogram output file name (format from extension)")
	bins      = flag.Int("bins", 50, "number of histogram bins")
	dist      = flag.Bool("dist", false, "only output identifier and length pairs")
	keepGoing = flag.Bool("keep-going", false, "skip malformed table lines instead of aborting")
)

func main() {
	flag.Parse()
	if *table == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*table)
	if err != nil {
		log.Fatalf("failed to open isoform table: %v", err)
	}
	recs, ferrs, err := isoform.ReadTable(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read isoform table: %v", err)
	}
	for _, fe := range ferrs {
		log.Printf("malformed isoform: %v", fe)
	}
	if len(ferrs) != 0 && !*keepGoing {
		log.Fatalf("%d malformed isoforms in %q", len(ferrs), *table)
	}
	if len(recs) == 0 {
		log.Fatalf("no isoforms in %q", *table)
	}

	lengths := make([]float64, len(recs))
	for i, r := range recs {
		lengths[i] = float64(r.SplicedLen())
		if *dist {
			fmt.Printf("%s\t%d\n", r.ID, r.SplicedLen())
		}
	}
	if *dist {
		return
	}

	sort.Float64s(lengths)
	mean, sd := stat.MeanStdDev(lengths, nil)
	fmt.Printf("n\t%d\n", len(lengths))
	fmt.Printf("min\t%.0f\n", lengths[0])
	fmt.Printf("max\t%.0f\n", lengths[len(lengths)-1])
	fmt.Printf("mean\t%.2f\n", mean)
	fmt.Printf("median\t%.1f\n", stat.Quantile(0.5, stat.Empirical, lengths, nil))
	fmt.Printf("sd\t%.2f\n", sd)

	if *hist != "" {
		err = saveHist(lengths, *bins, *hist)
		if err != nil {
			log.Fatalf("failed to render histogram: %v", err)
		}
	}
}

// saveHist renders a histogram of the given lengths to the named file,
// with the image format chosen by the file extension.
func saveHist(lengths []float64, bins int, file string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = "spliced isoform lengths"
	p.X.Label.Text = "length (bp)"
	p.Y.Label.Text = "count"
	h, err := plotter.NewHist(plotter.Values(lengths), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, file)
}
