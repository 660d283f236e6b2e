// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// stitch writes the spliced sequence of each isoform in a table to
// standard output, reading exon blocks directly from a reference fasta
// instead of calling out to bedtools. It is useful for cross-checking
// extraction output and for references small enough to hold in memory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/biogo/seq/sequtils"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	ref       = flag.String("ref", "", "input reference sequence file name (required)")
	table     = flag.String("table", "", "input isoform table file name (required)")
	keepGoing = flag.Bool("keep-going", false, "skip malformed table lines instead of aborting")
)

func main() {
	flag.Parse()
	if *ref == "" || *table == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have isoform table and reference set")
		flag.Usage()
		os.Exit(1)
	}

	seqs, err := readContigs(*ref)
	if err != nil {
		log.Fatalf("failed to read reference file: %v", err)
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

	for _, r := range recs {
		s, err := splice(seqs, r)
		if err != nil {
			log.Fatalf("failed to splice %q: %v", r.ID, err)
		}
		fmt.Printf("%60a\n", s)
	}
}

func readContigs(file string) (map[string]*linear.Seq, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	seqs := make(map[string]*linear.Seq)
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		seqs[s.ID] = s
	}
	return seqs, sc.Error()
}

// splice returns the sequence of r stitched together from its union
// blocks, reverse complemented if r is on the minus strand.
func splice(seqs map[string]*linear.Seq, r *isoform.Record) (*linear.Seq, error) {
	chrom, ok := seqs[r.Chrom]
	if !ok {
		return nil, fmt.Errorf("no sequence for chromosome %q", r.Chrom)
	}
	var ff fs
	for _, b := range r.Blocks() {
		if b.End > chrom.Len() {
			return nil, fmt.Errorf("block %d..%d beyond end of %q (%d)", b.Start, b.End, r.Chrom, chrom.Len())
		}
		ff = append(ff, fe{s: feat.OneToZero(b.Start), e: b.End})
	}
	s := linear.NewSeq(r.ID, nil, alphabet.DNA)
	err := sequtils.Stitch(s, chrom, ff)
	if err != nil {
		return nil, err
	}
	if r.Strand == seq.Minus {
		s.RevComp()
	}
	s.ID = r.ID
	return s, nil
}

type fe struct {
	s, e   int
	orient feat.Orientation
	feat.Feature
}

func (f fe) Start() int                    { return f.s }
func (f fe) End() int                      { return f.e }
func (f fe) Len() int                      { return f.e - f.s }
func (f fe) Orientation() feat.Orientation { return f.orient }

type fs []feat.Feature

func (f fs) Features() []feat.Feature { return []feat.Feature(f) }
