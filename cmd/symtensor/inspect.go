package main

import (
	"fmt"
	"math"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/symtensor/internal/serialization"
)

func newInspectCmd() *cobra.Command {
	var skipVerify bool
	cmd := &cobra.Command{
		Use:   "inspect <file.symt>",
		Short: "Print the header and per-irrep norms of a block file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], !skipVerify)
		},
	}
	cmd.Flags().BoolVar(&skipVerify, "no-verify", false, "skip checksum verification of sealed files")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, verify bool) error {
	r, err := serialization.NewMmapReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	checksum := "unsealed"
	if r.Sealed() {
		checksum = "sealed, not verified"
		if verify {
			if err := r.Verify(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			checksum = "sealed, verified"
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name:      %s\n", h.Name)
	fmt.Fprintf(out, "format:    v%d (written by symtensor %s)\n", h.FormatVersion, h.SymtensorVersion)
	fmt.Fprintf(out, "created:   %s\n", h.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "irreps:    %d\n", h.NumIrreps)
	fmt.Fprintf(out, "symmetry:  %d\n", h.MyIrrep)
	fmt.Fprintf(out, "checksum:  %s\n", checksum)
	if r.Sealed() {
		fmt.Fprintf(out, "sha256:    %s\n", r.Checksum())
	}
	metaKeys := make([]string, 0, len(h.Metadata))
	for k := range h.Metadata {
		metaKeys = append(metaKeys, k)
	}
	slices.Sort(metaKeys)
	for _, k := range metaKeys {
		fmt.Fprintf(out, "meta:      %s=%s\n", k, h.Metadata[k])
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IRREP\tROWS\tCOLS\tBYTES\tNORM\tMAX")
	for _, b := range h.Blocks {
		data, err := r.Block(b.Irrep)
		if err != nil {
			return err
		}
		var norm, maxAbs float64
		if len(data) > 0 {
			norm = floats.Norm(data, 2)
			maxAbs = floats.Norm(data, math.Inf(1))
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.6e\t%.6e\n", b.Irrep, b.Rows, b.Cols, b.Size, norm, maxAbs)
	}
	return tw.Flush()
}
