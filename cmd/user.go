package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Console user management commands",
	Long:  "Commands for managing the accounts that can sign in to the console",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.UserListParams{ListParams: listParamsFromCmd(cmd)}
		params.Group, _ = cmd.Flags().GetString("group")
		params.Active, _ = cmd.Flags().GetString("active")
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListUsers(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
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
			fmt.Println("No users found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, u := range page.Items {
			active := "no"
			if u.IsActive {
				active = "yes"
			}
			lastLogin := "never"
			if !u.LastLogin.IsZero() {
				lastLogin = u.LastLogin.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				strconv.Itoa(u.ID), u.Email, u.FirstName + " " + u.LastName, active, lastLogin,
			})
		}
		if err := formatter.Table([]string{"ID", "EMAIL", "NAME", "ACTIVE", "LAST LOGIN"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d users\n", len(page.Items), page.Total)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show user details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		user, err := newClient().GetUser(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(user)
		}

		groups := make([]string, 0, len(user.Groups))
		for _, g := range user.Groups {
			groups = append(groups, strconv.Itoa(g))
		}
		active := "no"
		if user.IsActive {
			active = "yes"
		}
		return formatter.KeyValues([][2]string{
			{"User ID", strconv.Itoa(user.ID)},
			{"Email", user.Email},
			{"Name", user.FirstName + " " + user.LastName},
			{"Active", active},
			{"Groups", strings.Join(groups, ", ")},
			{"Last login", user.LastLogin.Format("2006-01-02 15:04:05")},
		})
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := userInputFromFlags(cmd)
		if input.Email == "" {
			return fmt.Errorf("--email is required")
		}

		user, err := newClient().CreateUser(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("User %d (%s) created\n", user.ID, user.Email)
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		user, err := newClient().UpdateUser(context.Background(), id, userInputFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		fmt.Printf("User %d updated\n", user.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := newClient().DeleteUser(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		fmt.Printf("User %d deleted\n", id)
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your own password",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := promptPassword("New password: ")
		if err != nil {
			return err
		}

		if err := newClient().ChangePassword(context.Background(), current, next); err != nil {
			return fmt.Errorf("failed to change password: %w", err)
		}

		fmt.Println("Password changed")
		return nil
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func userInputFromFlags(cmd *cobra.Command) client.UserInput {
	var input client.UserInput
	input.Email, _ = cmd.Flags().GetString("email")
	input.FirstName, _ = cmd.Flags().GetString("first-name")
	input.LastName, _ = cmd.Flags().GetString("last-name")
	input.Password, _ = cmd.Flags().GetString("password")
	input.Groups, _ = cmd.Flags().GetIntSlice("groups")
	return input
}

func addUserInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("password", "", "Initial password")
	cmd.Flags().IntSlice("groups", nil, "Group ids")
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userPasswdCmd)
	rootCmd.AddCommand(userCmd)

	addListFlags(userListCmd)
	userListCmd.Flags().String("group", "", "Filter by group id")
	userListCmd.Flags().String("active", "", "Filter by active state (true/false)")
	userListCmd.Flags().String("search", "", "Search by name or email")

	addUserInputFlags(userCreateCmd)
	addUserInputFlags(userUpdateCmd)

	output.AddFormatFlag(userListCmd)
	output.AddFormatFlag(userShowCmd)
}
