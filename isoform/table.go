// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isoform

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A FormatError describes a malformed isoform table entry.
type FormatError struct {
	Line int // 1-based line number in the table, or zero for a bare identifier.
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ReadTable reads isoform records from r. Each whitespace-separated
// identifier on a line is one record and blank lines are skipped.
// Malformed identifiers are returned as FormatErrors carrying their line
// number and do not stop the read; records retain the order they have in
// the table. The error return reports read failure only.
func ReadTable(r io.Reader) ([]*Record, []*FormatError, error) {
	var (
		recs  []*Record
		ferrs []*FormatError
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		for _, id := range strings.Fields(sc.Text()) {
			rec, err := Parse(id)
			if err != nil {
				ferrs = append(ferrs, &FormatError{Line: n, Err: err})
				continue
			}
			recs = append(recs, rec)
		}
	}
	return recs, ferrs, sc.Err()
}
