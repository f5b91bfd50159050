package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/export"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
)

func newExportCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "build the host wire extracts",
	}
	cmd.AddCommand(newExportIDsCommand(c), newExportCategoryCommand(c))

	return cmd
}

func newExportIDsCommand(c *cli) *cobra.Command {
	var (
		token uint32
		rng   export.Range
	)

	cmd := &cobra.Command{
		Use:   "ids id...",
		Short: "extract records by id",
		Args:  cobra.RangeArgs(1, export.MaxRequestEntries),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]export.Request, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				reqs = append(reqs, export.Request{ID: id, Range: rng})
			}

			engine, _, err := c.load()
			if err != nil {
				return err
			}

			chunk, err := engine.ExportByID(token, reqs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token %#x, %d frames, %d bytes\n", chunk.Token, chunk.Count, len(chunk.Data))
			fmt.Fprint(out, hex.Dump(chunk.Data))

			return nil
		},
	}
	cmd.Flags().Uint32Var(&token, "token", 0, "request token echoed in the reply")
	cmd.Flags().Uint16Var(&rng.Offset, "offset", 0, "byte offset within each record")
	cmd.Flags().Uint16Var(&rng.Length, "length", 0, "byte count, 0 selects the rest of the record")

	return cmd
}

func newExportCategoryCommand(c *cli) *cobra.Command {
	var rng export.Range

	cmd := &cobra.Command{
		Use:   "category name",
		Short: "extract every record of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := format.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q", args[0])
			}

			engine, _, err := c.load()
			if err != nil {
				return err
			}

			chunk, err := engine.ExportByCategory(cat, []export.Range{rng})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d records, %d bytes\n", cat, chunk.Records, len(chunk.Data))
			fmt.Fprint(out, hex.Dump(chunk.Data))

			return nil
		},
	}
	cmd.Flags().Uint16Var(&rng.Offset, "offset", 0, "byte offset within each record")
	cmd.Flags().Uint16Var(&rng.Length, "length", 0, "byte count, 0 selects the rest of the record")

	return cmd
}
