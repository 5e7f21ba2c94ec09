package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var simcardCmd = &cobra.Command{
	Use:   "simcard",
	Short: "SIM card management commands",
	Long:  "Commands for managing the SIM cards providing vehicle connectivity",
}

var simcardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List SIM cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.SIMCardListParams{ListParams: listParamsFromCmd(cmd)}
		params.Status, _ = cmd.Flags().GetString("status")
		params.Carrier, _ = cmd.Flags().GetString("carrier")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListSIMCards(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list SIM cards: %w", err)
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
			fmt.Println("No SIM cards found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, card := range page.Items {
			vehicle := ""
			if card.Vehicle != 0 {
				vehicle = strconv.Itoa(card.Vehicle)
			}
			rows = append(rows, []string{
				strconv.Itoa(card.ID), card.ICCID, card.Carrier, card.Status, vehicle,
				fmt.Sprintf("%.1f MB", card.DataUsageMB),
			})
		}
		if err := formatter.Table([]string{"ID", "ICCID", "CARRIER", "STATUS", "VEHICLE", "DATA USED"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d SIM cards\n", len(page.Items), page.Total)
		return nil
	},
}

var simcardShowCmd = &cobra.Command{
	Use:   "show <sim-id>",
	Short: "Show SIM card details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		card, err := newClient().GetSIMCard(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get SIM card: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(card)
		}

		return formatter.KeyValues([][2]string{
			{"SIM ID", strconv.Itoa(card.ID)},
			{"ICCID", card.ICCID},
			{"IMSI", card.IMSI},
			{"Phone number", card.PhoneNumber},
			{"Carrier", card.Carrier},
			{"Status", card.Status},
			{"Vehicle", strconv.Itoa(card.Vehicle)},
			{"Data used", fmt.Sprintf("%.1f MB", card.DataUsageMB)},
			{"Activated", card.ActivatedAt.Format("2006-01-02 15:04:05")},
		})
	},
}

var simcardSuspendCmd = &cobra.Command{
	Use:   "suspend <sim-id>",
	Short: "Suspend a SIM card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		card, err := newClient().SuspendSIMCard(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to suspend SIM card: %w", err)
		}

		fmt.Printf("SIM card %d is now %s\n", card.ID, card.Status)
		return nil
	},
}

var simcardActivateCmd = &cobra.Command{
	Use:   "activate <sim-id>",
	Short: "Activate a SIM card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		card, err := newClient().ActivateSIMCard(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to activate SIM card: %w", err)
		}

		fmt.Printf("SIM card %d is now %s\n", card.ID, card.Status)
		return nil
	},
}

var simcardCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new SIM card",
	RunE: func(cmd *cobra.Command, args []string) error {
		var input client.SIMCardInput
		input.ICCID, _ = cmd.Flags().GetString("iccid")
		input.IMSI, _ = cmd.Flags().GetString("imsi")
		input.PhoneNumber, _ = cmd.Flags().GetString("phone")
		input.Carrier, _ = cmd.Flags().GetString("carrier")
		input.Vehicle, _ = cmd.Flags().GetInt("vehicle")
		if input.ICCID == "" {
			return fmt.Errorf("--iccid is required")
		}

		card, err := newClient().CreateSIMCard(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to create SIM card: %w", err)
		}

		fmt.Printf("SIM card %d created\n", card.ID)
		return nil
	},
}

var simcardDeleteCmd = &cobra.Command{
	Use:   "delete <sim-id>",
	Short: "Delete a SIM card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := newClient().DeleteSIMCard(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete SIM card: %w", err)
		}

		fmt.Printf("SIM card %d deleted\n", id)
		return nil
	},
}

func init() {
	simcardCmd.AddCommand(simcardListCmd)
	simcardCmd.AddCommand(simcardShowCmd)
	simcardCmd.AddCommand(simcardSuspendCmd)
	simcardCmd.AddCommand(simcardActivateCmd)
	simcardCmd.AddCommand(simcardCreateCmd)
	simcardCmd.AddCommand(simcardDeleteCmd)
	rootCmd.AddCommand(simcardCmd)

	addListFlags(simcardListCmd)
	simcardListCmd.Flags().String("status", "", "Filter by status")
	simcardListCmd.Flags().String("carrier", "", "Filter by carrier")
	simcardListCmd.Flags().String("search", "", "Search by ICCID or phone number")

	simcardCreateCmd.Flags().String("iccid", "", "ICCID")
	simcardCreateCmd.Flags().String("imsi", "", "IMSI")
	simcardCreateCmd.Flags().String("phone", "", "Phone number")
	simcardCreateCmd.Flags().String("carrier", "", "Carrier")
	simcardCreateCmd.Flags().Int("vehicle", 0, "Vehicle id to assign the card to")

	output.AddFormatFlag(simcardListCmd)
	output.AddFormatFlag(simcardShowCmd)
}
