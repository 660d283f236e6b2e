// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var spliceTests = []struct {
	id      string
	want    string
	wantErr bool
}{
	{id: "chr1|1|4|+", want: "ACGT"},
	{id: "chr1|1|10|+", want: "ACGTACGTAA"},
	// Blocks are spliced in genomic order.
	{id: "chr1|1,7|4,9|+", want: "ACGTGTA"},
	{id: "chr1|7,1|9,4|+", want: "ACGTGTA"},
	// Minus strand isoforms are reverse complemented after splicing.
	{id: "chr1|1,7|4,9|-", want: "TACACGT"},
	// Overlapping exons are counted once.
	{id: "chr1|2,4|5,8|+", want: "CGTACGT"},

	{id: "chr1|1|11|+", wantErr: true},
	{id: "chr2|1|4|+", wantErr: true},
}

func TestSplice(t *testing.T) {
	seqs := map[string]*linear.Seq{
		"chr1": linear.NewSeq("chr1", alphabet.BytesToLetters([]byte("ACGTACGTAA")), alphabet.DNA),
	}
	for _, test := range spliceTests {
		r, err := isoform.Parse(test.id)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", test.id, err)
		}
		s, err := splice(seqs, r)
		if test.wantErr {
			if err == nil {
				t.Errorf("expected error splicing %q", test.id)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error splicing %q: %v", test.id, err)
			continue
		}
		if got := s.Seq.String(); got != test.want {
			t.Errorf("unexpected sequence for %q: got:%q want:%q", test.id, got, test.want)
		}
		if s.ID != test.id {
			t.Errorf("unexpected sequence id for %q: got:%q", test.id, s.ID)
		}
	}
}
