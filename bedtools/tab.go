// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bedtools

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A Seq is a single named sequence from getfasta -tab output.
type Seq struct {
	Name string
	Seq  string
}

// An ExtractionError describes a failure to materialise sequences with
// bedtools: a failed or interrupted run, or output that does not match
// the requested intervals.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("bedtools: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParseTab parses tab delimited getfasta output from r, one name and
// sequence pair per line. Names are cleaned of the "(+)" or "(-)" suffix
// added under -s and of the "::chrom:start-end" position suffix added by
// newer bedtools releases under -name, leaving the name column of the
// interval the sequence was extracted for. Lines are read whole, so
// sequence length is not limited.
func ParseTab(r io.Reader) ([]Seq, error) {
	var (
		seqs []Seq
		br   = bufio.NewReader(r)
	)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			i := strings.IndexByte(line, '\t')
			if i < 0 {
				return nil, fmt.Errorf("bedtools: no sequence field on line %d", n)
			}
			seqs = append(seqs, Seq{Name: cleanName(line[:i]), Seq: line[i+1:]})
		}
		if err == io.EOF {
			return seqs, nil
		}
	}
}

// cleanName strips the decorations getfasta adds to the BED name column.
func cleanName(name string) string {
	if strings.HasSuffix(name, "(+)") || strings.HasSuffix(name, "(-)") {
		name = name[:len(name)-3]
	}
	if i := strings.Index(name, "::"); i >= 0 {
		name = name[:i]
	}
	return name
}
