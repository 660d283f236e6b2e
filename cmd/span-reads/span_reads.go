// Copyright ©2022 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// span-reads reports the number of mapped reads overlapping the genomic
// span of each isoform in a table, from a coordinate sorted and indexed
// BAM file. The counts give a coarse expression signal for each isoform
// locus before any junction aware quantification.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	table     = flag.String("table", "", "input isoform table file name (required)")
	bamFile   = flag.String("bam", "", "input bam file name with a .bai index alongside (required)")
	pad       = flag.Int("pad", 0, "extend the counted span by this many bases each side")
	keepGoing = flag.Bool("keep-going", false, "skip malformed table lines instead of aborting")
)

func main() {
	flag.Parse()
	if *table == "" || *bamFile == "" {
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

	c, err := newCounter(*bamFile)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	for _, r := range recs {
		start, end := r.Span()
		n, err := c.overlapping(r.Chrom, feat.OneToZero(start)-*pad, end+*pad)
		if err != nil {
			log.Fatalf("failed to count reads for %q: %v", r.ID, err)
		}
		fmt.Printf("%s\t%d\n", r.ID, n)
	}
}

// counter is a BAM/BAI reader that counts mapped reads overlapping a
// genomic interval.
type counter struct {
	f    *os.File
	r    *bam.Reader
	refs map[string]*sam.Reference
	idx  *bam.Index
}

// newCounter returns a counter based on path and path.bai.
func newCounter(path string) (*counter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bam file: %v", err)
	}
	r, err := bam.NewReader(f, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open bam stream: %v", err)
	}

	ir, err := os.Open(path + ".bai")
	if err != nil {
		return nil, fmt.Errorf("failed to open bai file: %v", err)
	}
	idx, err := bam.ReadIndex(ir)
	if err != nil {
		return nil, fmt.Errorf("failed to open bai data: %v", err)
	}
	ir.Close()

	refs := make(map[string]*sam.Reference)
	for _, ref := range r.Header().Refs() {
		refs[ref.Name()] = ref
	}
	return &counter{f: f, r: r, refs: refs, idx: idx}, nil
}

// overlapping returns the number of mapped reads overlapping the 0-based
// half-open interval start..end on the named reference.
func (c *counter) overlapping(name string, start, end int) (int, error) {
	ref, ok := c.refs[name]
	if !ok {
		return -1, fmt.Errorf("could not find reference for %q", name)
	}
	chunks, err := c.idx.Chunks(ref, max(0, start), min(ref.Len(), end))
	if err != nil {
		return -1, fmt.Errorf("failed to get chunks: %v", err)
	}
	it, err := bam.NewIterator(c.r, chunks)
	if err != nil {
		return -1, fmt.Errorf("failed to create iterator: %v", err)
	}
	defer it.Close()

	var n int
	for it.Next() {
		rec := it.Record()
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		if rec.Start() < end && start < rec.End() {
			n++
		}
	}
	return n, it.Error()
}

// Close closes the bam.Reader held by the counter.
func (c *counter) Close() error {
	err := c.r.Close()
	if err != nil {
		return err
	}
	return c.f.Close()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
