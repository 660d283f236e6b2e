// Copyright ©2022 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"testing"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

type testLocus struct {
	chrom      string
	start, end int
	strand     string
	members    []string
}

var groupTests = []struct {
	ids  []string
	want []testLocus
}{
	{
		// Overlapping spans on one strand form a single locus.
		ids: []string{
			"chr1|100|200|+",
			"chr1|150|300|+",
			"chr1|250|400|+",
		},
		want: []testLocus{
			{"chr1", 99, 400, "+", []string{"chr1|100|200|+", "chr1|150|300|+", "chr1|250|400|+"}},
		},
	},
	{
		// Strands are kept apart, as are chromosomes.
		ids: []string{
			"chr1|100|200|+",
			"chr1|100|200|-",
			"chr2|100|200|+",
		},
		want: []testLocus{
			{"chr1", 99, 200, "+", []string{"chr1|100|200|+"}},
			{"chr1", 99, 200, "-", []string{"chr1|100|200|-"}},
			{"chr2", 99, 200, "+", []string{"chr2|100|200|+"}},
		},
	},
	{
		// Disjoint spans form separate loci; exon structure is
		// irrelevant, only the span extent counts.
		ids: []string{
			"chr1|500|600|+",
			"chr1|100,180|120,200|+",
			"chr1|110|130|+",
		},
		want: []testLocus{
			{"chr1", 99, 200, "+", []string{"chr1|100,180|120,200|+", "chr1|110|130|+"}},
			{"chr1", 499, 600, "+", []string{"chr1|500|600|+"}},
		},
	},
	{
		// Abutting half-open spans do not overlap.
		ids: []string{
			"chr1|100|200|+",
			"chr1|201|300|+",
		},
		want: []testLocus{
			{"chr1", 99, 200, "+", []string{"chr1|100|200|+"}},
			{"chr1", 200, 300, "+", []string{"chr1|201|300|+"}},
		},
	},
	{
		// Chained overlap is transitive.
		ids: []string{
			"chr1|100|200|+",
			"chr1|300|400|+",
			"chr1|190|310|+",
		},
		want: []testLocus{
			{"chr1", 99, 400, "+", []string{"chr1|100|200|+", "chr1|300|400|+", "chr1|190|310|+"}},
		},
	},
}

func TestGroup(t *testing.T) {
	for _, test := range groupTests {
		recs := make([]*isoform.Record, len(test.ids))
		for i, id := range test.ids {
			r, err := isoform.Parse(id)
			if err != nil {
				t.Fatalf("unexpected error parsing %q: %v", id, err)
			}
			recs[i] = r
		}
		var got []testLocus
		for _, l := range group(recs) {
			ids := make([]string, len(l.members))
			for i, r := range l.members {
				ids[i] = r.ID
			}
			got = append(got, testLocus{l.chrom, l.start, l.end, strand(l.strand), ids})
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("unexpected loci for %v:\ngot: %v\nwant:%v", test.ids, got, test.want)
		}
	}
}
