package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Vehicle management commands",
	Long:  "Commands for inspecting and managing the vehicles of the fleet",
}

var vehicleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.VehicleListParams{ListParams: listParamsFromCmd(cmd)}
		params.Status, _ = cmd.Flags().GetString("status")
		params.VehicleType, _ = cmd.Flags().GetString("type")
		params.Operator, _ = cmd.Flags().GetString("operator")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListVehicles(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list vehicles: %w", err)
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
			fmt.Println("No vehicles found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, v := range page.Items {
			rows = append(rows, []string{
				strconv.Itoa(v.ID), v.Name, v.VIN, v.LicensePlate, v.VehicleType, v.Status, v.FirmwareVersion,
			})
		}
		if err := formatter.Table([]string{"ID", "NAME", "VIN", "PLATE", "TYPE", "STATUS", "FIRMWARE"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d vehicles\n", len(page.Items), page.Total)
		return nil
	},
}

var vehicleShowCmd = &cobra.Command{
	Use:   "show <vehicle-id>",
	Short: "Show vehicle details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		vehicle, err := newClient().GetVehicle(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get vehicle: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(vehicle)
		}

		return formatter.KeyValues([][2]string{
			{"Vehicle ID", strconv.Itoa(vehicle.ID)},
			{"Name", vehicle.Name},
			{"VIN", vehicle.VIN},
			{"License plate", vehicle.LicensePlate},
			{"Make/Model", fmt.Sprintf("%s %s (%d)", vehicle.Make, vehicle.Model, vehicle.Year)},
			{"Type", vehicle.VehicleType},
			{"Status", vehicle.Status},
			{"Operator", vehicle.OperatorName},
			{"Firmware", vehicle.FirmwareVersion},
			{"Last seen", vehicle.LastSeenAt.Format("2006-01-02 15:04:05")},
		})
	},
}

var vehicleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new vehicle",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := vehicleInputFromFlags(cmd)
		if input.VIN == "" {
			return fmt.Errorf("--vin is required")
		}

		vehicle, err := newClient().CreateVehicle(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to create vehicle: %w", err)
		}

		fmt.Printf("Vehicle %d created\n", vehicle.ID)
		return nil
	},
}

var vehicleUpdateCmd = &cobra.Command{
	Use:   "update <vehicle-id>",
	Short: "Update a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		vehicle, err := newClient().UpdateVehicle(context.Background(), id, vehicleInputFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to update vehicle: %w", err)
		}

		fmt.Printf("Vehicle %d updated\n", vehicle.ID)
		return nil
	},
}

var vehicleDeleteCmd = &cobra.Command{
	Use:   "delete <vehicle-id>",
	Short: "Delete a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := newClient().DeleteVehicle(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}

		fmt.Printf("Vehicle %d deleted\n", id)
		return nil
	},
}

var vehicleSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the fleet status roll-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := newClient().VehicleSummary(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get fleet summary: %w", err)
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
			{"Total", strconv.Itoa(summary.Total)},
			{"Active", strconv.Itoa(summary.Active)},
			{"Inactive", strconv.Itoa(summary.Inactive)},
			{"In maintenance", strconv.Itoa(summary.Maintenance)},
			{"Offline", strconv.Itoa(summary.Offline)},
		})
	},
}

func vehicleInputFromFlags(cmd *cobra.Command) client.VehicleInput {
	var input client.VehicleInput
	input.VIN, _ = cmd.Flags().GetString("vin")
	input.Name, _ = cmd.Flags().GetString("name")
	input.LicensePlate, _ = cmd.Flags().GetString("plate")
	input.Make, _ = cmd.Flags().GetString("make")
	input.Model, _ = cmd.Flags().GetString("model")
	input.Year, _ = cmd.Flags().GetInt("year")
	input.VehicleType, _ = cmd.Flags().GetString("type")
	input.Status, _ = cmd.Flags().GetString("status")
	input.Operator, _ = cmd.Flags().GetInt("operator")
	input.SIMCard, _ = cmd.Flags().GetInt("sim-card")
	return input
}

func addVehicleInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("vin", "", "Vehicle identification number")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("plate", "", "License plate")
	cmd.Flags().String("make", "", "Manufacturer")
	cmd.Flags().String("model", "", "Model")
	cmd.Flags().Int("year", 0, "Model year")
	cmd.Flags().String("type", "", "Vehicle type")
	cmd.Flags().String("status", "", "Status")
	cmd.Flags().Int("operator", 0, "Fleet operator id")
	cmd.Flags().Int("sim-card", 0, "SIM card id")
}

func init() {
	vehicleCmd.AddCommand(vehicleListCmd)
	vehicleCmd.AddCommand(vehicleShowCmd)
	vehicleCmd.AddCommand(vehicleCreateCmd)
	vehicleCmd.AddCommand(vehicleUpdateCmd)
	vehicleCmd.AddCommand(vehicleDeleteCmd)
	vehicleCmd.AddCommand(vehicleSummaryCmd)
	rootCmd.AddCommand(vehicleCmd)

	addListFlags(vehicleListCmd)
	vehicleListCmd.Flags().String("status", "", "Filter by status")
	vehicleListCmd.Flags().String("type", "", "Filter by vehicle type")
	vehicleListCmd.Flags().String("operator", "", "Filter by fleet operator id")
	vehicleListCmd.Flags().String("search", "", "Search by name, VIN or plate")

	addVehicleInputFlags(vehicleCreateCmd)
	addVehicleInputFlags(vehicleUpdateCmd)

	output.AddFormatFlag(vehicleListCmd)
	output.AddFormatFlag(vehicleShowCmd)
	output.AddFormatFlag(vehicleSummaryCmd)
}
