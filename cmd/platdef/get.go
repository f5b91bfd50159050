package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/dump"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
)

func newGetCommand(c *cli) *cobra.Command {
	var (
		category string
		ordinal  int
	)

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "print one record by id, or by category and ordinal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tbl, err := c.load()
			if err != nil {
				return err
			}

			var (
				rec table.Record
				ok  bool
			)

			switch {
			case len(args) == 1:
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if rec, ok = tbl.ByID(id); !ok {
					return fmt.Errorf("record 0x%04x not found", id)
				}
			case category != "":
				cat, valid := format.ParseCategory(category)
				if !valid {
					return fmt.Errorf("unknown category %q", category)
				}
				if rec, ok = tbl.ByCategoryIndex(cat, ordinal); !ok {
					return fmt.Errorf("%s has no record at ordinal %d", cat, ordinal)
				}
			default:
				return errors.New("give a record id or --category")
			}

			dump.WriteRecord(cmd.OutOrStdout(), rec, tbl.Bytes(rec))

			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name, e.g. PowerSupply")
	cmd.Flags().IntVar(&ordinal, "ordinal", 0, "position within the category")

	return cmd
}
