// Copyright ©2021 The prepare-isoform-data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bedtools provides interaction with the bedtools getfasta
// sequence extraction tool.
package bedtools

import (
	"context"
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("bedtools: missing required argument")

// GetFasta defines parameters for the bedtools getfasta command.
type GetFasta struct {
	// Usage: bedtools getfasta [options] -fi <fasta> -bed <bed/gff/vcf>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}bedtools{{end}}{{split}}getfasta"` // bedtools getfasta

	// Input files:
	Ref string `buildarg:"{{if .}}-fi{{split}}{{.}}{{end}}"`  // -fi: input fasta
	Bed string `buildarg:"{{if .}}-bed{{split}}{{.}}{{end}}"` // -bed: intervals in BED/GFF/VCF format

	// Output file options:
	Out string `buildarg:"{{if .}}-fo{{split}}{{.}}{{end}}"` // -fo: outfile (stdout if empty)

	Name     bool `buildarg:"{{if .}}-name{{end}}"`  // -name: use the name column for sequence headers
	TabOut   bool `buildarg:"{{if .}}-tab{{end}}"`   // -tab: write tab delimited name/sequence pairs
	Stranded bool `buildarg:"{{if .}}-s{{end}}"`     // -s: reverse complement minus strand features
	Split    bool `buildarg:"{{if .}}-split{{end}}"` // -split: splice together BED12 blocks
}

// BuildCommand returns an exec.Cmd built from the parameters in g.
func (g GetFasta) BuildCommand() (*exec.Cmd, error) {
	cl, err := g.commandLine()
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// BuildCommandContext returns an exec.Cmd built from the parameters in g
// running under ctx. The process is killed if ctx is cancelled before the
// command completes.
func (g GetFasta) BuildCommandContext(ctx context.Context) (*exec.Cmd, error) {
	cl, err := g.commandLine()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, cl[0], cl[1:]...), nil
}

func (g GetFasta) commandLine() ([]string, error) {
	if g.Ref == "" || g.Bed == "" {
		return nil, ErrMissingRequired
	}
	return external.Must(external.Build(g)), nil
}
