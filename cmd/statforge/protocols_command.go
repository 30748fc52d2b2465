package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"statforge/internal/protocols"
)

func newProtocolsCommand() *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:         "protocols",
		Short:       "List the available analysis protocols",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			list := protocols.All()
			if strings.TrimSpace(position) != "" {
				list = protocols.ProtocolsForPosition(position)
				if len(list) == 0 {
					return fmt.Errorf("no protocols for position %q", position)
				}
			}

			headers := []string{"Analysis Type", "Positions", "Markers", "Description"}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{
					p.AnalysisType(),
					strings.Join(p.AllowedPositions(), ", "),
					strings.Join(p.Markers(), ", "),
					p.Description(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Only list protocols for this position")
	return cmd
}
