// Copyright ©2022 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// density renders a rings plot of binned circRNA isoform density over
// the hg19 karyotype. Chromosome names in the isoform table may carry
// the "chr" prefix or not.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/feat/genome"
	"github.com/biogo/biogo/feat/genome/human/hg19"
	"github.com/biogo/graphics/rings"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	table     = flag.String("table", "", "input isoform table file name (required)")
	length    = flag.Int("length", 1e6, "density bin length")
	format    = flag.String("format", "svg", "output format: eps, jpg, jpeg, pdf, png, svg or tiff")
	keepGoing = flag.Bool("keep-going", false, "skip malformed table lines instead of aborting")
)

func main() {
	flag.Parse()
	if *table == "" || *length <= 0 {
		flag.Usage()
		os.Exit(1)
	}
	switch *format {
	case "eps", "jpg", "jpeg", "pdf", "png", "svg", "tiff":
	default:
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

	p, err := plot.New()
	if err != nil {
		log.Fatalf("failed to create plot: %v", err)
	}

	tracks, err := layout(bins(recs, *length), 15*vg.Centimeter)
	if err != nil {
		log.Fatalf("failed to lay out plot: %v", err)
	}
	p.Add(tracks...)
	p.HideAxes()

	font, err := vg.MakeFont("Helvetica", 14)
	if err != nil {
		log.Fatalf("failed to load font: %v", err)
	}
	p.Title.Text = filepath.Base(*table)
	p.Title.TextStyle = draw.TextStyle{Color: color.Gray{0}, Font: font}

	out := filepath.Base(*table) + "." + *format
	err = p.Save(19*vg.Centimeter, 25*vg.Centimeter, out)
	if err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
}

// A bin is a fixed width window on a chromosome scored by the number of
// isoform spans whose midpoint falls within it.
type bin struct {
	start, end int
	width      int
	chrom      feat.Feature
	events     int
}

func (b *bin) Start() int             { return b.start }
func (b *bin) End() int               { return b.end }
func (b *bin) Len() int               { return b.end - b.start }
func (b *bin) Name() string           { return "" }
func (b *bin) Description() string    { return "isoform density bin" }
func (b *bin) Location() feat.Feature { return b.chrom }

// Scores returns the event count scaled to the full bin width so that
// truncated terminal bins report density rather than raw counts.
func (b *bin) Scores() []float64 {
	return []float64{float64(b.events) * float64(b.width) / float64(b.Len())}
}

// bins partitions the hg19 chromosomes into length sized windows and
// counts the isoform spans whose midpoint falls in each window.
func bins(recs []*isoform.Record, length int) []rings.Scorer {
	index := make(map[string]int)
	for i, c := range hg19.Chromosomes {
		name := strings.ToLower(c.Chr)
		index[name] = i
		index[strings.TrimPrefix(name, "chr")] = i
	}

	var n int
	gs := make([][]*bin, len(hg19.Chromosomes))
	for i, c := range hg19.Chromosomes {
		w := make([]*bin, (c.Len()-1)/length+1)
		n += len(w)
		for j := range w {
			w[j] = &bin{
				start: j * length,
				end:   min(c.Len(), (j+1)*length),
				width: length,
				chrom: c,
			}
		}
		gs[i] = w
	}

	missing := make(map[string]bool)
	for _, r := range recs {
		ci, ok := index[strings.ToLower(r.Chrom)]
		if !ok {
			if !missing[r.Chrom] {
				missing[r.Chrom] = true
				log.Printf("no hg19 chromosome for %q", r.Chrom)
			}
			continue
		}
		start, end := r.Span()
		mid := (feat.OneToZero(start) + end) / 2
		w := gs[ci]
		w[min(mid/length, len(w)-1)].events++
	}

	s := make([]rings.Scorer, 0, n)
	for _, c := range gs {
		for _, b := range c {
			s = append(s, b)
		}
	}
	return s
}

// layout returns the plotters rendering the karyotype ring, Giemsa
// bands, centromeres, chromosome labels and the isoform density trace.
func layout(scores []rings.Scorer, diameter vg.Length) ([]plot.Plotter, error) {
	var p []plot.Plotter

	radius := diameter / 2

	// Relative sizes.
	const (
		gap = 0.005

		label = 117. / 110.

		traceInner = 70. / 110.
		traceOuter = 97. / 110.

		karyotypeInner = 100. / 110.
		karyotypeOuter = 1.

		large = 6. / 110.
		small = 2. / 110.
	)

	sty := plotter.DefaultLineStyle
	sty.Width /= 2

	chr := make([]feat.Feature, len(hg19.Chromosomes))
	for i, c := range hg19.Chromosomes {
		chr[i] = c
	}
	hs, err := rings.NewGappedBlocks(
		chr,
		rings.Arc{Theta: rings.Complete / 4 * rings.CounterClockwise, Phi: rings.Complete * rings.Clockwise},
		radius*karyotypeInner, radius*karyotypeOuter, gap,
	)
	if err != nil {
		return nil, err
	}
	hs.LineStyle = sty
	p = append(p, hs)

	// Centromere position is taken from the p to q band transition.
	bands := make([]feat.Feature, len(hg19.Bands))
	cens := make([]feat.Feature, 0, len(hg19.Chromosomes))
	for i, b := range hg19.Bands {
		bands[i] = giemsaBand{b}
		s := b.Start()
		if b.Band[0] == 'q' && (s == 0 || hg19.Bands[i-1].Band[0] == 'p') {
			cens = append(cens, giemsaBand{&genome.Band{Band: "cen", Desc: "Band", StartPos: s, EndPos: s, Giemsa: "acen", Chr: b.Location()}})
		}
	}
	b, err := rings.NewBlocks(bands, hs, radius*karyotypeInner, radius*karyotypeOuter)
	if err != nil {
		return nil, fmt.Errorf("bands: %v", err)
	}
	p = append(p, b)
	c, err := rings.NewBlocks(cens, hs, radius*karyotypeInner, radius*karyotypeOuter)
	if err != nil {
		return nil, fmt.Errorf("centromeres: %v", err)
	}
	p = append(p, c)

	font, err := vg.MakeFont("Helvetica", radius*large)
	if err != nil {
		return nil, err
	}
	lb, err := rings.NewLabels(hs, radius*label, rings.NameLabels(hs.Set)...)
	if err != nil {
		return nil, err
	}
	lb.TextStyle = draw.TextStyle{Color: color.Gray16{0}, Font: font}
	p = append(p, lb)

	smallFont, err := vg.MakeFont("Helvetica", radius*small)
	if err != nil {
		return nil, err
	}
	lines := []draw.LineStyle{sty}
	lines[0].Color = color.Gray16{0}
	tr, err := rings.NewScores(scores, hs, radius*traceInner, radius*traceOuter,
		&rings.Trace{
			LineStyles: lines,
			Join:       true,
			Axis: &rings.Axis{
				Angle:     rings.Complete / 4,
				Grid:      plotter.DefaultGridLineStyle,
				LineStyle: sty,
				Tick: rings.TickConfig{
					Marker:    plot.DefaultTicks{},
					LineStyle: sty,
					Length:    2,
					Label:     draw.TextStyle{Color: color.Gray16{0}, Font: smallFont},
				},
			},
		},
	)
	if err != nil {
		return nil, err
	}
	p = append(p, tr)

	return p, nil
}

// giemsaBand renders a karyotype band with its conventional Giemsa
// staining colour.
type giemsaBand struct {
	*genome.Band
}

func (b giemsaBand) FillColor() color.Color {
	switch b.Giemsa {
	case "acen":
		return color.RGBA{R: 0xff, A: 0xff}
	case "gvar":
		return color.RGBA{R: 0xff, G: 0x8c, A: 0xff}
	case "stalk":
		return color.RGBA{G: 0x8c, A: 0x80}
	case "gneg":
		return color.Gray{0xff}
	case "gpos25":
		return color.Gray{0xbf}
	case "gpos33":
		return color.Gray{0xaa}
	case "gpos50":
		return color.Gray{0x7f}
	case "gpos66":
		return color.Gray{0x55}
	case "gpos75":
		return color.Gray{0x3f}
	default: // gpos100 and any unannotated stain.
		return color.Gray{0x0}
	}
}

func (b giemsaBand) LineStyle() draw.LineStyle {
	if b.Giemsa == "acen" {
		return draw.LineStyle{Color: color.RGBA{R: 0xff, A: 0xff}, Width: 1}
	}
	return draw.LineStyle{}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
