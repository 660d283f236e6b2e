// Copyright ©2022 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// loci groups isoforms whose genomic spans overlap on the same chromosome
// and strand, writing one locus per line with its extent, size and
// members. Isoforms of a circRNA locus share a back-splice region, so
// span overlap collects the isoforms of a gene into a single group.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/store/interval"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	table     = flag.String("table", "", "input isoform table file name (required)")
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

	for _, l := range group(recs) {
		ids := make([]string, len(l.members))
		for i, r := range l.members {
			ids[i] = r.ID
		}
		fmt.Printf("%s\t%d\t%d\t%s\t%d\t%s\n",
			l.chrom, l.start, l.end, strand(l.strand), len(l.members), strings.Join(ids, ","))
	}
}

// A locus is a maximal set of isoforms connected by span overlap on one
// chromosome and strand. Coordinates are 0-based half-open.
type locus struct {
	chrom      string
	strand     seq.Strand
	start, end int
	members    []*isoform.Record
}

type key struct {
	chrom  string
	strand seq.Strand
}

// spanInterval adapts an isoform's genomic span for interval tree
// storage, in 0-based half-open coordinates.
type spanInterval struct {
	id         uintptr
	start, end int
}

func (iv spanInterval) ID() uintptr { return iv.id }
func (iv spanInterval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.start, End: iv.end}
}
func (iv spanInterval) Overlap(b interval.IntRange) bool {
	return iv.end > b.Start && iv.start < b.End
}

// group returns the loci formed by recs, sorted by position. Members of
// a locus keep the order they have in recs.
func group(recs []*isoform.Record) []locus {
	ivs := make([]spanInterval, len(recs))
	trees := make(map[key]*interval.IntTree)
	for i, r := range recs {
		start, end := r.Span()
		ivs[i] = spanInterval{id: uintptr(i), start: feat.OneToZero(start), end: end}
		k := key{chrom: r.Chrom, strand: r.Strand}
		t, ok := trees[k]
		if !ok {
			t = &interval.IntTree{}
			trees[k] = t
		}
		t.Insert(ivs[i], true)
	}
	for _, t := range trees {
		t.AdjustRanges()
	}

	g := simple.NewUndirectedGraph()
	for i, r := range recs {
		if g.Node(int64(i)) == nil {
			g.AddNode(simple.Node(i))
		}
		for _, to := range trees[key{chrom: r.Chrom, strand: r.Strand}].Get(ivs[i]) {
			j := int(to.(spanInterval).id)
			if j <= i {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	var loci []locus
	for _, c := range topo.ConnectedComponents(g) {
		m := make([]int, len(c))
		for i, n := range c {
			m[i] = int(n.ID())
		}
		sort.Ints(m)
		l := locus{
			chrom:  recs[m[0]].Chrom,
			strand: recs[m[0]].Strand,
			start:  ivs[m[0]].start,
			end:    ivs[m[0]].end,
		}
		for _, idx := range m {
			l.members = append(l.members, recs[idx])
			if ivs[idx].start < l.start {
				l.start = ivs[idx].start
			}
			if ivs[idx].end > l.end {
				l.end = ivs[idx].end
			}
		}
		loci = append(loci, l)
	}
	sort.Slice(loci, func(i, j int) bool {
		if loci[i].chrom != loci[j].chrom {
			return loci[i].chrom < loci[j].chrom
		}
		if loci[i].start != loci[j].start {
			return loci[i].start < loci[j].start
		}
		return loci[i].strand > loci[j].strand
	})
	return loci
}

func strand(s seq.Strand) string {
	if s == seq.Minus {
		return "-"
	}
	return "+"
}
