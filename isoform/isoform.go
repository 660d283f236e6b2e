// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isoform decodes packed circRNA isoform identifiers into genomic
// interval records.
//
// An identifier is a |-delimited string with four fields: a chromosome
// name, a comma separated list of exon start coordinates, a comma
// separated list of exon end coordinates of the same length, and a strand
// symbol, for example
//
//	chr1|1,10,32|5,20,50|+
//
// Coordinates are 1-based and fully closed, the convention used by the
// circRNA callers that produce these tables. Conversion to 0-based
// half-open BED coordinates happens when a record is rendered as BED.
package isoform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"
)

// An Exon is a single exon interval in 1-based closed coordinates.
type Exon struct {
	Start, End int
}

// Len returns the length of the exon in bases.
func (e Exon) Len() int { return e.End - e.Start + 1 }

// A Record is a circRNA isoform decoded from its packed identifier.
// Exons are held in the order they are listed in the identifier.
type Record struct {
	ID     string // Complete identifier as read from the table.
	Chrom  string
	Strand seq.Strand
	Exons  []Exon
}

// Parse returns the Record decoded from the packed identifier s.
func Parse(s string) (*Record, error) {
	fields := strings.Split(s, "|")
	if len(fields) != 4 {
		return nil, fmt.Errorf("expected 4 fields in %q, got %d", s, len(fields))
	}
	starts, err := splitInts(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid start coordinates in %q: %v", s, err)
	}
	ends, err := splitInts(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid end coordinates in %q: %v", s, err)
	}
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%d starts but %d ends in %q", len(starts), len(ends), s)
	}
	var strand seq.Strand
	switch fields[3] {
	case "+":
		strand = seq.Plus
	case "-":
		strand = seq.Minus
	default:
		return nil, fmt.Errorf("illegal strand %q in %q", fields[3], s)
	}
	r := &Record{ID: s, Chrom: fields[0], Strand: strand, Exons: make([]Exon, len(starts))}
	for i, start := range starts {
		if start < 1 || ends[i] < start {
			return nil, fmt.Errorf("illegal exon %d..%d in %q", start, ends[i], s)
		}
		r.Exons[i] = Exon{Start: start, End: ends[i]}
	}
	return r, nil
}

func splitInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", f)
		}
		ints[i] = v
	}
	return ints, nil
}

// Span returns the extent of the isoform from the leftmost exon start to
// the rightmost exon end, in 1-based closed coordinates.
func (r *Record) Span() (start, end int) {
	start = r.Exons[0].Start
	end = r.Exons[0].End
	for _, e := range r.Exons[1:] {
		if e.Start < start {
			start = e.Start
		}
		if e.End > end {
			end = e.End
		}
	}
	return start, end
}

// Blocks returns the union of the isoform's exons, sorted by start with
// overlapping exons merged. Exons sharing a base are merged; exons
// separated by at least one base are not.
func (r *Record) Blocks() []Exon {
	blocks := make([]Exon, len(r.Exons))
	copy(blocks, r.Exons)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	merged := blocks[:1]
	for _, e := range blocks[1:] {
		last := &merged[len(merged)-1]
		if e.Start <= last.End {
			if e.End > last.End {
				last.End = e.End
			}
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// SplicedLen returns the length of the isoform's spliced sequence, the
// sum of its block lengths.
func (r *Record) SplicedLen() int {
	var n int
	for _, b := range r.Blocks() {
		n += b.Len()
	}
	return n
}
