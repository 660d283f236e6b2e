// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isoform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq"
)

// A Bed12 is the 12 column BED representation of an isoform: its union
// blocks laid out on the genomic span, named by the complete packed
// identifier. Coordinates are 0-based half-open.
type Bed12 struct {
	Chrom       string
	ChromStart  int
	ChromEnd    int
	Name        string
	Strand      seq.Strand
	BlockSizes  []int
	BlockStarts []int // Relative to ChromStart.
}

// Bed returns the BED12 representation of the record.
func (r *Record) Bed() *Bed12 {
	blocks := r.Blocks()
	start, end := r.Span()
	b := &Bed12{
		Chrom:       r.Chrom,
		ChromStart:  feat.OneToZero(start),
		ChromEnd:    end,
		Name:        r.ID,
		Strand:      r.Strand,
		BlockSizes:  make([]int, len(blocks)),
		BlockStarts: make([]int, len(blocks)),
	}
	for i, bl := range blocks {
		b.BlockSizes[i] = bl.Len()
		b.BlockStarts[i] = feat.OneToZero(bl.Start) - b.ChromStart
	}
	return b
}

// String renders b as its twelve tab separated BED columns. The score
// column is always "." and the thick bounds cover the whole feature,
// matching the conventions of the circRNA tools consuming these records.
func (b *Bed12) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%s\t.\t%s\t%d\t%d\t0\t%d\t%s\t%s",
		b.Chrom, b.ChromStart, b.ChromEnd, b.Name,
		bedStrand(b.Strand),
		b.ChromStart, b.ChromEnd,
		len(b.BlockSizes),
		commaJoin(b.BlockSizes), commaJoin(b.BlockStarts),
	)
}

func bedStrand(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	}
	return "."
}

func commaJoin(vs []int) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}
