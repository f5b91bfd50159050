package main

import (
	"github.com/spf13/cobra"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/dump"
)

func newTopologyCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "topology",
		Short: "print the I2C engines and the segments they route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, _, err := c.load()
			if err != nil {
				return err
			}
			dump.WriteTopology(cmd.OutOrStdout(), engine.Topology())

			return nil
		},
	}
}
