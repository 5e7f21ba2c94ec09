package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var firmwareCmd = &cobra.Command{
	Use:   "firmware",
	Short: "Firmware rollout commands",
	Long:  "Commands for scheduling and tracking fleet firmware rollouts",
}

var firmwareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List firmware rollouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.FirmwareListParams{ListParams: listParamsFromCmd(cmd)}
		params.Status, _ = cmd.Flags().GetString("status")
		params.Version, _ = cmd.Flags().GetString("version")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListFirmwareUpdates(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list firmware updates: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(page.Items)
		}

		if len(page.Items) == 0 {
			fmt.Println("No firmware updates found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, u := range page.Items {
			rows = append(rows, []string{
				strconv.Itoa(u.ID), u.Version, u.Status, u.TargetGroup,
				fmt.Sprintf("%d/%d ok, %d failed", u.SuccessCount, u.TotalCount, u.FailureCount),
				u.ScheduledAt.Format("2006-01-02 15:04"),
			})
		}
		if err := formatter.Table([]string{"ID", "VERSION", "STATUS", "TARGET", "PROGRESS", "SCHEDULED"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d rollouts\n", len(page.Items), page.Total)
		return nil
	},
}

var firmwareShowCmd = &cobra.Command{
	Use:   "show <update-id>",
	Short: "Show rollout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		update, err := newClient().GetFirmwareUpdate(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get firmware update: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(update)
		}

		return formatter.KeyValues([][2]string{
			{"Rollout ID", strconv.Itoa(update.ID)},
			{"Version", update.Version},
			{"Description", update.Description},
			{"Status", update.Status},
			{"Target group", update.TargetGroup},
			{"Progress", fmt.Sprintf("%d/%d succeeded, %d failed", update.SuccessCount, update.TotalCount, update.FailureCount)},
			{"Scheduled", update.ScheduledAt.Format("2006-01-02 15:04:05")},
			{"Created", update.CreatedAt.Format("2006-01-02 15:04:05")},
		})
	},
}

var firmwareCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule a new rollout",
	RunE: func(cmd *cobra.Command, args []string) error {
		var input client.FirmwareUpdateInput
		input.Version, _ = cmd.Flags().GetString("version")
		input.Description, _ = cmd.Flags().GetString("description")
		input.TargetGroup, _ = cmd.Flags().GetString("target-group")
		input.ScheduledAt, _ = cmd.Flags().GetString("scheduled-at")
		if input.Version == "" {
			return fmt.Errorf("--version is required")
		}

		update, err := newClient().CreateFirmwareUpdate(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to schedule firmware update: %w", err)
		}

		fmt.Printf("Rollout %d scheduled for version %s\n", update.ID, update.Version)
		return nil
	},
}

var firmwareUpdateCmd = &cobra.Command{
	Use:   "update <update-id>",
	Short: "Edit a scheduled rollout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var input client.FirmwareUpdateInput
		input.Version, _ = cmd.Flags().GetString("version")
		input.Description, _ = cmd.Flags().GetString("description")
		input.TargetGroup, _ = cmd.Flags().GetString("target-group")
		input.ScheduledAt, _ = cmd.Flags().GetString("scheduled-at")

		update, err := newClient().UpdateFirmwareUpdate(context.Background(), id, input)
		if err != nil {
			return fmt.Errorf("failed to update firmware rollout: %w", err)
		}

		fmt.Printf("Rollout %d updated\n", update.ID)
		return nil
	},
}

var firmwareCancelCmd = &cobra.Command{
	Use:   "cancel <update-id>",
	Short: "Cancel a rollout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		update, err := newClient().CancelFirmwareUpdate(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to cancel firmware update: %w", err)
		}

		fmt.Printf("Rollout %d is now %s\n", update.ID, update.Status)
		return nil
	},
}

var firmwareStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the rollout status roll-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().FirmwareStats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get firmware stats: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(stats)
		}

		return formatter.KeyValues([][2]string{
			{"Pending", strconv.Itoa(stats.Pending)},
			{"In progress", strconv.Itoa(stats.InProgress)},
			{"Completed", strconv.Itoa(stats.Completed)},
			{"Failed", strconv.Itoa(stats.Failed)},
			{"Cancelled", strconv.Itoa(stats.Cancelled)},
		})
	},
}

func addFirmwareInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("version", "", "Firmware version")
	cmd.Flags().String("description", "", "Rollout description")
	cmd.Flags().String("target-group", "", "Target vehicle group")
	cmd.Flags().String("scheduled-at", "", "Rollout start time (RFC 3339)")
}

func init() {
	firmwareCmd.AddCommand(firmwareListCmd)
	firmwareCmd.AddCommand(firmwareShowCmd)
	firmwareCmd.AddCommand(firmwareCreateCmd)
	firmwareCmd.AddCommand(firmwareUpdateCmd)
	firmwareCmd.AddCommand(firmwareCancelCmd)
	firmwareCmd.AddCommand(firmwareStatsCmd)
	rootCmd.AddCommand(firmwareCmd)

	addListFlags(firmwareListCmd)
	firmwareListCmd.Flags().String("status", "", "Filter by status")
	firmwareListCmd.Flags().String("version", "", "Filter by version")
	firmwareListCmd.Flags().String("search", "", "Search by version or description")

	addFirmwareInputFlags(firmwareCreateCmd)
	addFirmwareInputFlags(firmwareUpdateCmd)

	output.AddFormatFlag(firmwareListCmd)
	output.AddFormatFlag(firmwareShowCmd)
	output.AddFormatFlag(firmwareStatsCmd)
}
