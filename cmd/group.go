package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
	"fleetctl/pkg/output"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Permission group commands",
	Long:  "Commands for managing permission groups and their assignments",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.GroupListParams{ListParams: listParamsFromCmd(cmd)}
		params.Search, _ = cmd.Flags().GetString("search")

		page, err := newClient().ListGroups(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
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
			fmt.Println("No groups found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, g := range page.Items {
			rows = append(rows, []string{
				strconv.Itoa(g.ID), g.Name, strconv.Itoa(g.MemberCount),
			})
		}
		if err := formatter.Table([]string{"ID", "NAME", "MEMBERS"}, rows); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d groups\n", len(page.Items), page.Total)
		return nil
	},
}

var groupShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group and its permissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := newClient()
		group, err := c.GetGroup(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}
		permissions, err := c.GroupPermissions(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to get group permissions: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(map[string]any{
				"group":       group,
				"permissions": permissions,
			})
		}

		if err := formatter.KeyValues([][2]string{
			{"Group ID", strconv.Itoa(group.ID)},
			{"Name", group.Name},
			{"Members", strconv.Itoa(group.MemberCount)},
		}); err != nil {
			return err
		}
		if len(permissions) == 0 {
			fmt.Println("\nNo permissions assigned")
			return nil
		}
		fmt.Println()
		rows := make([][]string, 0, len(permissions))
		for _, p := range permissions {
			rows = append(rows, []string{strconv.Itoa(p.ID), p.Codename, p.Name})
		}
		return formatter.Table([]string{"ID", "CODENAME", "PERMISSION"}, rows)
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := newClient().CreateGroup(context.Background(), client.GroupInput{Name: args[0]})
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		fmt.Printf("Group %d (%s) created\n", group.ID, group.Name)
		return nil
	},
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename <group-id> <name>",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		group, err := newClient().UpdateGroup(context.Background(), id, client.GroupInput{Name: args[1]})
		if err != nil {
			return fmt.Errorf("failed to rename group: %w", err)
		}

		fmt.Printf("Group %d renamed to %s\n", group.ID, group.Name)
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := newClient().DeleteGroup(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}

		fmt.Printf("Group %d deleted\n", id)
		return nil
	},
}

var groupSetPermissionsCmd = &cobra.Command{
	Use:   "set-permissions <group-id>",
	Short: "Replace a group's permission assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ids, _ := cmd.Flags().GetIntSlice("permissions")

		if err := newClient().SetGroupPermissions(context.Background(), id, ids); err != nil {
			return fmt.Errorf("failed to set group permissions: %w", err)
		}

		fmt.Printf("Group %d now has %d permissions\n", id, len(ids))
		return nil
	},
}

var groupPermissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "List the permission catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		permissions, err := newClient().ListPermissions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list permissions: %w", err)
		}

		format, err := output.GetFormatFromCmd(cmd)
		if err != nil {
			return err
		}
		formatter := output.New(format)
		if formatter.IsJSON() {
			return formatter.Output(permissions)
		}

		rows := make([][]string, 0, len(permissions))
		for _, p := range permissions {
			rows = append(rows, []string{strconv.Itoa(p.ID), p.Codename, p.Name})
		}
		return formatter.Table([]string{"ID", "CODENAME", "PERMISSION"}, rows)
	},
}

func init() {
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupShowCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupRenameCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	groupCmd.AddCommand(groupSetPermissionsCmd)
	groupCmd.AddCommand(groupPermissionsCmd)
	rootCmd.AddCommand(groupCmd)

	addListFlags(groupListCmd)
	groupListCmd.Flags().String("search", "", "Search by name")

	groupSetPermissionsCmd.Flags().IntSlice("permissions", nil, "Permission ids to assign")

	output.AddFormatFlag(groupListCmd)
	output.AddFormatFlag(groupShowCmd)
	output.AddFormatFlag(groupPermissionsCmd)
}
