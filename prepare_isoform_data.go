// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// prepare_isoform_data converts a table of packed circRNA isoform
// identifiers into BED12 records and extracts the spliced, strand
// corrected isoform sequences from a reference genome using bedtools
// getfasta.
//
// Identifiers have the form
//
//	chr1|1,10,32|5,20,50|+
//
// with 1-based closed exon coordinates, one or more identifiers to a
// line. The program writes five files under the output directory:
// isoforms.bed holds the BED12 representation of each isoform,
// isoforms.length.tsv the spliced length of each isoform,
// isoforms.getfasta.tsv the raw bedtools output, isoforms.fa the spliced
// sequences and isoforms.ext.fa the spliced sequences with their leading
// bases appended so that reads crossing the back-splice junction can be
// mapped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/chiangtw/prepare-isoform-data/bedtools"
	"github.com/chiangtw/prepare-isoform-data/isoform"
)

var (
	table        = flag.String("table", "", "input isoform table file name (required)")
	ref          = flag.String("reference", "", "input reference sequence file name (required)")
	outDir       = flag.String("out-dir", "isoform_data", "output directory, created if absent")
	bedtoolsPath = flag.String("bedtools", "", "path to bedtools if not in $PATH")
	timeout      = flag.Duration("timeout", 10*time.Minute, "maximum bedtools run time (0 for no limit)")
	extend       = flag.Int("extend", 30, "length of the back-splice extension in the ext fasta output")
	keepGoing    = flag.Bool("keep-going", false, "skip malformed table lines instead of aborting")

	errFile = flag.String("err", "", "output log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *table == "" || *ref == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have isoform table and reference set")
		flag.Usage()
		os.Exit(1)
	}
	if *extend < 0 {
		fmt.Fprintln(os.Stderr, "invalid argument: extension length must not be negative")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	if _, err := os.Stat(*ref); err != nil {
		log.Fatalf("failed to read reference: %v", err)
	}

	log.Printf("reading isoforms from %q", *table)
	recs, err := isoformsFrom(*table, *keepGoing)
	if err != nil {
		log.Fatalf("failed to read isoform table: %v", err)
	}

	err = os.MkdirAll(*outDir, 0755)
	if err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	bed := filepath.Join(*outDir, "isoforms.bed")
	lengths := filepath.Join(*outDir, "isoforms.length.tsv")
	log.Printf("writing %q and %q", bed, lengths)
	err = writeBed(recs, bed, lengths)
	if err != nil {
		log.Fatalf("failed to write bed file: %v", err)
	}

	log.Printf("extracting %d isoform sequences from %q", len(recs), *ref)
	seqs, err := extract(recs, *bedtoolsPath, *ref, bed, filepath.Join(*outDir, "isoforms.getfasta.tsv"), *timeout)
	if err != nil {
		log.Fatalf("failed extraction: %v", err)
	}

	fa := filepath.Join(*outDir, "isoforms.fa")
	extFa := filepath.Join(*outDir, "isoforms.ext.fa")
	log.Printf("writing %q and %q", fa, extFa)
	err = writeFasta(seqs, fa, extFa, *extend)
	if err != nil {
		log.Fatalf("failed to write fasta file: %v", err)
	}
}

// isoformsFrom returns the isoform records held in the named table.
// All malformed lines are logged; unless keepGoing is true, a table
// containing any malformed line is rejected after reporting.
func isoformsFrom(file string, keepGoing bool) ([]*isoform.Record, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, ferrs, err := isoform.ReadTable(f)
	if err != nil {
		return nil, err
	}
	for _, fe := range ferrs {
		log.Printf("malformed isoform: %v", fe)
	}
	if len(ferrs) != 0 && !keepGoing {
		return nil, fmt.Errorf("%d malformed isoforms in %q", len(ferrs), file)
	}
	return recs, nil
}

// writeBed writes the BED12 representation of recs to bed, and a tab
// separated table of identifier and spliced length pairs to lengths.
func writeBed(recs []*isoform.Record, bed, lengths string) error {
	bf, err := os.Create(bed)
	if err != nil {
		return err
	}
	lf, err := os.Create(lengths)
	if err != nil {
		return err
	}

	for _, r := range recs {
		_, err = fmt.Fprintf(bf, "%v\n", r.Bed())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(lf, "%s\t%d\n", r.ID, r.SplicedLen())
		if err != nil {
			return err
		}
	}
	err = bf.Close()
	if err != nil {
		return err
	}
	return lf.Close()
}

// extract runs bedtools getfasta over the intervals in bed against the
// ref sequence, leaving the raw tab delimited output in raw, and returns
// the parsed sequences after confirming they correspond one to one, in
// order, with recs. The tool is found in $PATH unless path is set. A
// zero timeout runs without a deadline.
func extract(recs []*isoform.Record, path, ref, bed, raw string, timeout time.Duration) ([]bedtools.Seq, error) {
	g := bedtools.GetFasta{
		Cmd: path,

		Ref: ref, Bed: bed, Out: raw,

		Name: true, TabOut: true, Stranded: true, Split: true,
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd, err := g.BuildCommandContext(ctx)
	if err != nil {
		return nil, &bedtools.ExtractionError{Err: err}
	}
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &bedtools.ExtractionError{Err: err}
	}

	f, err := os.Open(raw)
	if err != nil {
		return nil, &bedtools.ExtractionError{Err: err}
	}
	defer f.Close()
	seqs, err := bedtools.ParseTab(f)
	if err != nil {
		return nil, &bedtools.ExtractionError{Err: err}
	}
	err = verify(recs, seqs)
	if err != nil {
		return nil, err
	}
	return seqs, nil
}

// verify confirms that seqs corresponds one to one, in order, with recs.
func verify(recs []*isoform.Record, seqs []bedtools.Seq) error {
	if len(seqs) != len(recs) {
		return &bedtools.ExtractionError{Err: fmt.Errorf("%d sequences for %d isoforms", len(seqs), len(recs))}
	}
	for i, s := range seqs {
		if s.Name != recs[i].ID {
			return &bedtools.ExtractionError{Err: fmt.Errorf("sequence %d is %q, want %q", i+1, s.Name, recs[i].ID)}
		}
	}
	return nil
}

// writeFasta writes the extracted sequences to file, and the sequences
// with their first extend bases appended to extFile, wrapped to 60
// columns. Sequences shorter than extend are extended by a whole copy.
func writeFasta(seqs []bedtools.Seq, file, extFile string, extend int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	ef, err := os.Create(extFile)
	if err != nil {
		return err
	}

	w := fasta.NewWriter(f, 60)
	ew := fasta.NewWriter(ef, 60)
	for _, s := range seqs {
		_, err = w.Write(linear.NewSeq(s.Name, alphabet.BytesToLetters([]byte(s.Seq)), alphabet.DNA))
		if err != nil {
			return err
		}
		_, err = ew.Write(linear.NewSeq(s.Name, alphabet.BytesToLetters([]byte(extended(s.Seq, extend))), alphabet.DNA))
		if err != nil {
			return err
		}
	}
	err = f.Close()
	if err != nil {
		return err
	}
	return ef.Close()
}

// extended returns s with its first n bases appended, allowing reads to
// be mapped across the back-splice junction of a circular sequence.
func extended(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return s + s[:n]
}
