package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
)

// addListFlags registers the pagination flags every list command shares.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "Page number (1-based)")
	cmd.Flags().Int("page-size", 0, "Results per page")
	cmd.Flags().String("ordering", "", "Sort field, prefix with '-' for descending")
}

func listParamsFromCmd(cmd *cobra.Command) client.ListParams {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	ordering, _ := cmd.Flags().GetString("ordering")
	return client.ListParams{
		Page:     page,
		PageSize: pageSize,
		Ordering: ordering,
	}
}

// parseID converts a positional <id> argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: expected a number", arg)
	}
	return id, nil
}
