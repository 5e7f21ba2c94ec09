package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Tenant selection commands",
	Long:  "Select which company deployment the console talks to.",
}

var tenantUseCmd = &cobra.Command{
	Use:   "use <slug>",
	Short: "Switch to a tenant deployment",
	Long: `Resolve the tenant slug to its backend origin, verify the deployment
exists, and persist the selection for later invocations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		session := newClient().Session()

		skipCheck, _ := cmd.Flags().GetBool("no-verify")
		if !skipCheck {
			valid, err := session.ValidateDomain(context.Background(), slug)
			if err != nil {
				return fmt.Errorf("failed to validate tenant domain: %w", err)
			}
			if !valid {
				return fmt.Errorf("no deployment found for tenant %q", slug)
			}
		}

		origin := session.ApplyTenant(slug)
		fmt.Printf("Using tenant %s (%s)\n", slug, origin)
		return nil
	},
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		session := newClient().Session()

		slug := cfg.TenantSlug()
		if slug == "" {
			fmt.Printf("No tenant selected; using default origin %s\n", session.BaseURL())
			return nil
		}
		fmt.Printf("Tenant: %s\n", slug)
		fmt.Printf("Origin: %s\n", session.BaseURL())
		return nil
	},
}

var tenantValidateCmd = &cobra.Command{
	Use:   "validate <slug>",
	Short: "Check whether a tenant deployment exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		session := newClient().Session()

		valid, err := session.ValidateDomain(context.Background(), slug)
		if err != nil {
			return fmt.Errorf("failed to validate tenant domain: %w", err)
		}
		if valid {
			fmt.Printf("Tenant %s resolves to %s\n", slug, session.ResolveOrigin(slug))
		} else {
			fmt.Printf("No deployment found for tenant %q\n", slug)
		}
		return nil
	},
}

func init() {
	tenantUseCmd.Flags().Bool("no-verify", false, "Skip the validate-domain check")
	tenantCmd.AddCommand(tenantUseCmd)
	tenantCmd.AddCommand(tenantShowCmd)
	tenantCmd.AddCommand(tenantValidateCmd)
	rootCmd.AddCommand(tenantCmd)
}
