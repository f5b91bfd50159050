package main

import (
	"github.com/spf13/cobra"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/dump"
)

func newDumpCommand(c *cli) *cobra.Command {
	var asMsgpack bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print the table summary and category index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tbl, err := c.load()
			if err != nil {
				return err
			}

			snapshot := dump.NewSnapshot(tbl)
			if !asMsgpack {
				dump.WriteSnapshot(cmd.OutOrStdout(), snapshot)
				return nil
			}

			data, err := dump.Marshal(snapshot)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
	cmd.Flags().BoolVar(&asMsgpack, "msgpack", false, "write the snapshot as msgpack")

	return cmd
}
