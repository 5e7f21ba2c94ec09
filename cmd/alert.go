package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Fleet alert commands",
	Long:  "Commands for triaging the alerts raised by vehicles",
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.AlertListParams{ListParams: listParamsFromCmd(cmd)}
		params.Severity, _ = cmd.Flags().GetString("severity")
		params.Status, _ = cmd.Flags().GetString("status")
		params.Vehicle, _ = cmd.Flags().GetString("vehicle")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListAlerts(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
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
			fmt.Println("No alerts found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, a := range page.Items {
			rows = append(rows, []string{
				strconv.Itoa(a.ID), a.Severity, a.Status, a.VehicleName, a.AlertType,
				a.RaisedAt.Format("2006-01-02 15:04"),
			})
		}
		if err := formatter.Table([]string{"ID", "SEVERITY", "STATUS", "VEHICLE", "TYPE", "RAISED"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d alerts\n", len(page.Items), page.Total)
		return nil
	},
}

var alertShowCmd = &cobra.Command{
	Use:   "show <alert-id>",
	Short: "Show alert details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		alert, err := newClient().GetAlert(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get alert: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(alert)
		}

		pairs := [][2]string{
			{"Alert ID", strconv.Itoa(alert.ID)},
			{"Severity", alert.Severity},
			{"Status", alert.Status},
			{"Vehicle", fmt.Sprintf("%s (%d)", alert.VehicleName, alert.Vehicle)},
			{"Type", alert.AlertType},
			{"Message", alert.Message},
			{"Raised", alert.RaisedAt.Format("2006-01-02 15:04:05")},
		}
		if !alert.ResolvedAt.IsZero() {
			pairs = append(pairs,
				[2]string{"Resolved", alert.ResolvedAt.Format("2006-01-02 15:04:05")},
				[2]string{"Resolved by", alert.ResolvedBy},
			)
		}
		return formatter.KeyValues(pairs)
	},
}

var alertResolveCmd = &cobra.Command{
	Use:   "resolve <alert-id>",
	Short: "Mark an alert resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		alert, err := newClient().ResolveAlert(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to resolve alert: %w", err)
		}

		fmt.Printf("Alert %d is now %s\n", alert.ID, alert.Status)
		return nil
	},
}

var alertDismissCmd = &cobra.Command{
	Use:   "dismiss <alert-id>",
	Short: "Dismiss an alert without resolution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		alert, err := newClient().DismissAlert(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to dismiss alert: %w", err)
		}

		fmt.Printf("Alert %d is now %s\n", alert.ID, alert.Status)
		return nil
	},
}

var alertSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the open-alert roll-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := newClient().AlertSummary(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get alert summary: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(summary)
		}

		return formatter.KeyValues([][2]string{
			{"Open", strconv.Itoa(summary.Open)},
			{"Critical", strconv.Itoa(summary.Critical)},
			{"Warning", strconv.Itoa(summary.Warning)},
			{"Info", strconv.Itoa(summary.Info)},
		})
	},
}

func init() {
	alertCmd.AddCommand(alertListCmd)
	alertCmd.AddCommand(alertShowCmd)
	alertCmd.AddCommand(alertResolveCmd)
	alertCmd.AddCommand(alertDismissCmd)
	alertCmd.AddCommand(alertSummaryCmd)
	rootCmd.AddCommand(alertCmd)

	addListFlags(alertListCmd)
	alertListCmd.Flags().String("severity", "", "Filter by severity")
	alertListCmd.Flags().String("status", "", "Filter by status")
	alertListCmd.Flags().String("vehicle", "", "Filter by vehicle id")
	alertListCmd.Flags().String("search", "", "Search alert messages")

	output.AddFormatFlag(alertListCmd)
	output.AddFormatFlag(alertShowCmd)
	output.AddFormatFlag(alertSummaryCmd)
}
