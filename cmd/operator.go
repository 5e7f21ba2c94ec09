package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Fleet operator commands",
	Long:  "Commands for managing the organizations operating parts of the fleet",
}

var operatorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fleet operators",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.FleetOperatorListParams{ListParams: listParamsFromCmd(cmd)}
		params.Region, _ = cmd.Flags().GetString("region")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListFleetOperators(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list operators: %w", err)
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
			fmt.Println("No operators found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, o := range page.Items {
			rows = append(rows, []string{
				strconv.Itoa(o.ID), o.Name, o.Region, o.ContactEmail, strconv.Itoa(o.VehicleCount),
			})
		}
		if err := formatter.Table([]string{"ID", "NAME", "REGION", "CONTACT", "VEHICLES"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d operators\n", len(page.Items), page.Total)
		return nil
	},
}

var operatorShowCmd = &cobra.Command{
	Use:   "show <operator-id>",
	Short: "Show operator details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		operator, err := newClient().GetFleetOperator(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get operator: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(operator)
		}

		return formatter.KeyValues([][2]string{
			{"Operator ID", strconv.Itoa(operator.ID)},
			{"Name", operator.Name},
			{"Region", operator.Region},
			{"Contact email", operator.ContactEmail},
			{"Contact phone", operator.ContactPhone},
			{"Vehicles", strconv.Itoa(operator.VehicleCount)},
		})
	},
}

var operatorCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a fleet operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := operatorInputFromFlags(cmd)
		if input.Name == "" {
			return fmt.Errorf("--name is required")
		}

		operator, err := newClient().CreateFleetOperator(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to create operator: %w", err)
		}

		fmt.Printf("Operator %d (%s) created\n", operator.ID, operator.Name)
		return nil
	},
}

var operatorUpdateCmd = &cobra.Command{
	Use:   "update <operator-id>",
	Short: "Update a fleet operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		operator, err := newClient().UpdateFleetOperator(context.Background(), id, operatorInputFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to update operator: %w", err)
		}

		fmt.Printf("Operator %d updated\n", operator.ID)
		return nil
	},
}

var operatorDeleteCmd = &cobra.Command{
	Use:   "delete <operator-id>",
	Short: "Delete a fleet operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := newClient().DeleteFleetOperator(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete operator: %w", err)
		}

		fmt.Printf("Operator %d deleted\n", id)
		return nil
	},
}

func operatorInputFromFlags(cmd *cobra.Command) client.FleetOperatorInput {
	var input client.FleetOperatorInput
	input.Name, _ = cmd.Flags().GetString("name")
	input.ContactEmail, _ = cmd.Flags().GetString("email")
	input.ContactPhone, _ = cmd.Flags().GetString("phone")
	input.Region, _ = cmd.Flags().GetString("region")
	return input
}

func addOperatorInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Operator name")
	cmd.Flags().String("email", "", "Contact email")
	cmd.Flags().String("phone", "", "Contact phone")
	cmd.Flags().String("region", "", "Region")
}

func init() {
	operatorCmd.AddCommand(operatorListCmd)
	operatorCmd.AddCommand(operatorShowCmd)
	operatorCmd.AddCommand(operatorCreateCmd)
	operatorCmd.AddCommand(operatorUpdateCmd)
	operatorCmd.AddCommand(operatorDeleteCmd)
	rootCmd.AddCommand(operatorCmd)

	addListFlags(operatorListCmd)
	operatorListCmd.Flags().String("region", "", "Filter by region")
	operatorListCmd.Flags().String("search", "", "Search by name")

	addOperatorInputFlags(operatorCreateCmd)
	addOperatorInputFlags(operatorUpdateCmd)

	output.AddFormatFlag(operatorListCmd)
	output.AddFormatFlag(operatorShowCmd)
}
