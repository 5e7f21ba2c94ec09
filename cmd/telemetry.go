package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "OBD telemetry commands",
	Long:  "Commands for browsing the OBD telemetry reported by vehicles",
}

var telemetryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List telemetry samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.TelemetryListParams{ListParams: listParamsFromCmd(cmd)}
		params.Vehicle, _ = cmd.Flags().GetString("vehicle")
		params.Parameter, _ = cmd.Flags().GetString("parameter")
		params.Start, _ = cmd.Flags().GetString("since")
		params.End, _ = cmd.Flags().GetString("until")

		page, err := newClient().ListTelemetry(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list telemetry: %w", err)
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
			fmt.Println("No telemetry found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, s := range page.Items {
			rows = append(rows, []string{
				s.RecordedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(s.Vehicle),
				s.Parameter,
				fmt.Sprintf("%g %s", s.Value, s.Unit),
			})
		}
		if err := formatter.Table([]string{"RECORDED", "VEHICLE", "PARAMETER", "VALUE"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d samples\n", len(page.Items), page.Total)
		return nil
	},
}

var telemetryLatestCmd = &cobra.Command{
	Use:   "latest <vehicle-id>",
	Short: "Show the latest sample per parameter for a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		samples, err := newClient().LatestTelemetry(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get latest telemetry: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(samples)
		}

		if len(samples) == 0 {
			fmt.Println("No telemetry reported yet")
			return nil
		}
		rows := make([][]string, 0, len(samples))
		for _, s := range samples {
			rows = append(rows, []string{
				s.Parameter,
				fmt.Sprintf("%g %s", s.Value, s.Unit),
				s.RecordedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return formatter.Table([]string{"PARAMETER", "VALUE", "RECORDED"}, rows)
	},
}

var telemetryParametersCmd = &cobra.Command{
	Use:   "parameters",
	Short: "List the telemetry parameter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := newClient().TelemetryParameters(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list telemetry parameters: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(params)
		}

		rows := make([][]string, 0, len(params))
		for _, p := range params {
			rows = append(rows, []string{
				p.Name, p.Label, p.Unit, fmt.Sprintf("%g - %g", p.MinValue, p.MaxValue),
			})
		}
		return formatter.Table([]string{"NAME", "LABEL", "UNIT", "RANGE"}, rows)
	},
}

func init() {
	telemetryCmd.AddCommand(telemetryListCmd)
	telemetryCmd.AddCommand(telemetryLatestCmd)
	telemetryCmd.AddCommand(telemetryParametersCmd)
	rootCmd.AddCommand(telemetryCmd)

	addListFlags(telemetryListCmd)
	telemetryListCmd.Flags().String("vehicle", "", "Filter by vehicle id")
	telemetryListCmd.Flags().String("parameter", "", "Filter by parameter name")
	telemetryListCmd.Flags().String("since", "", "Only samples recorded at or after this time")
	telemetryListCmd.Flags().String("until", "", "Only samples recorded at or before this time")

	output.AddFormatFlag(telemetryListCmd)
	output.AddFormatFlag(telemetryLatestCmd)
	output.AddFormatFlag(telemetryParametersCmd)
}
