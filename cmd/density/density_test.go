// Copyright ©2022 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/biogo/biogo/feat/genome/human/hg19"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

func TestBins(t *testing.T) {
	const window = 1e6
	ids := []string{
		"chr1|100|200|+",
		"1|1500000|1500100|+",
		"1|1700000|1700100|-",
		"scaffold_17|1|100|+",
	}
	recs := make([]*isoform.Record, len(ids))
	for i, id := range ids {
		r, err := isoform.Parse(id)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", id, err)
		}
		recs[i] = r
	}

	s := bins(recs, window)

	chr1 := (hg19.Chromosomes[0].Len()-1)/window + 1
	var total int
	for _, c := range hg19.Chromosomes {
		total += (c.Len()-1)/window + 1
	}
	if len(s) != total {
		t.Fatalf("unexpected number of bins: got:%d want:%d", len(s), total)
	}

	counts := make(map[int]int)
	for i, sc := range s {
		b := sc.(*bin)
		if b.events != 0 {
			counts[i] = b.events
		}
	}
	// Both chr1 naming conventions land on chromosome 1, the unplaced
	// scaffold is dropped.
	want := map[int]int{0: 1, 1: 2}
	if len(counts) != len(want) {
		t.Fatalf("unexpected bin counts: got:%v want:%v", counts, want)
	}
	for i, n := range want {
		if counts[i] != n {
			t.Errorf("unexpected count for bin %d: got:%d want:%d", i, counts[i], n)
		}
	}
	if chr1 < 2 {
		t.Fatalf("unexpected chr1 bin count: %d", chr1)
	}

	if got := s[0].Scores()[0]; got != 1 {
		t.Errorf("unexpected score for full bin: got:%v want:1", got)
	}
}
