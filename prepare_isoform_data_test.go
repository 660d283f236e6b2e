// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/chiangtw/prepare-isoform-data/bedtools"
	"github.com/chiangtw/prepare-isoform-data/isoform"
)

func mustParse(t *testing.T, ids ...string) []*isoform.Record {
	t.Helper()
	recs := make([]*isoform.Record, len(ids))
	for i, id := range ids {
		r, err := isoform.Parse(id)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", id, err)
		}
		recs[i] = r
	}
	return recs
}

func TestVerify(t *testing.T) {
	recs := mustParse(t, "chr1|1|5|+", "chr2|3|9|-")
	ok := []bedtools.Seq{{Name: "chr1|1|5|+", Seq: "ACGTA"}, {Name: "chr2|3|9|-", Seq: "GGGCCCA"}}
	if err := verify(recs, ok); err != nil {
		t.Errorf("unexpected error for matching sequences: %v", err)
	}

	for _, seqs := range [][]bedtools.Seq{
		ok[:1],
		append(append([]bedtools.Seq(nil), ok...), bedtools.Seq{Name: "chr3|1|2|+", Seq: "AC"}),
		{ok[1], ok[0]},
		{ok[0], {Name: "chr2|3|9|+", Seq: "GGGCCCA"}},
	} {
		err := verify(recs, seqs)
		if err == nil {
			t.Errorf("expected error for %v", seqs)
			continue
		}
		var xerr *bedtools.ExtractionError
		if !errors.As(err, &xerr) {
			t.Errorf("unexpected error type for %v: %T", seqs, err)
		}
	}
}

var extendedTests = []struct {
	seq  string
	n    int
	want string
}{
	{seq: "ACGTACGT", n: 3, want: "ACGTACGTACG"},
	{seq: "ACGTACGT", n: 8, want: "ACGTACGTACGTACGT"},
	// Sequences shorter than the extension gain a whole copy.
	{seq: "ACG", n: 30, want: "ACGACG"},
	{seq: "ACGT", n: 0, want: "ACGT"},
	{seq: "", n: 30, want: ""},
}

func TestExtended(t *testing.T) {
	for _, test := range extendedTests {
		if got := extended(test.seq, test.n); got != test.want {
			t.Errorf("unexpected extension of %q by %d: got:%q want:%q",
				test.seq, test.n, got, test.want)
		}
	}
}

func TestWriteBed(t *testing.T) {
	dir, err := ioutil.TempDir("", "prepare_isoform_data")
	if err != nil {
		t.Fatalf("unexpected error creating work directory: %v", err)
	}
	defer os.RemoveAll(dir)

	recs := mustParse(t, "10|100036449|100036604|+", "chr1|1,10,32|5,20,50|+")
	bed := filepath.Join(dir, "isoforms.bed")
	lengths := filepath.Join(dir, "isoforms.length.tsv")
	err = writeBed(recs, bed, lengths)
	if err != nil {
		t.Fatalf("unexpected error writing bed: %v", err)
	}

	got, err := ioutil.ReadFile(bed)
	if err != nil {
		t.Fatalf("unexpected error reading bed: %v", err)
	}
	wantBed := "10\t100036448\t100036604\t10|100036449|100036604|+\t.\t+\t100036448\t100036604\t0\t1\t156\t0\n" +
		"chr1\t0\t50\tchr1|1,10,32|5,20,50|+\t.\t+\t0\t50\t0\t3\t5,11,19\t0,9,31\n"
	if string(got) != wantBed {
		t.Errorf("unexpected bed content:\ngot:\n%s\nwant:\n%s", got, wantBed)
	}

	got, err = ioutil.ReadFile(lengths)
	if err != nil {
		t.Fatalf("unexpected error reading lengths: %v", err)
	}
	wantLengths := "10|100036449|100036604|+\t156\nchr1|1,10,32|5,20,50|+\t35\n"
	if string(got) != wantLengths {
		t.Errorf("unexpected length content:\ngot:\n%s\nwant:\n%s", got, wantLengths)
	}
}

func TestIsoformsFrom(t *testing.T) {
	dir, err := ioutil.TempDir("", "prepare_isoform_data")
	if err != nil {
		t.Fatalf("unexpected error creating work directory: %v", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "isoforms.tsv")
	err = ioutil.WriteFile(file, []byte("chr1|1|5|+\nnot-an-identifier\nchr2|3|9|-\n"), 0644)
	if err != nil {
		t.Fatalf("unexpected error writing table: %v", err)
	}

	_, err = isoformsFrom(file, false)
	if err == nil {
		t.Error("expected error for malformed table")
	}

	recs, err := isoformsFrom(file, true)
	if err != nil {
		t.Fatalf("unexpected error for keep-going read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("unexpected number of records: got:%d want:2", len(recs))
	}
	if recs[0].ID != "chr1|1|5|+" || recs[1].ID != "chr2|3|9|-" {
		t.Errorf("unexpected records: got:%v,%v", recs[0].ID, recs[1].ID)
	}
}
