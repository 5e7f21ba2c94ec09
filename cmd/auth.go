package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fleetctl/pkg/client"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
}

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Authenticate with the fleet backend",
	Long: `Authenticate against the current tenant's backend with email and
password. Tokens are persisted so later invocations stay signed in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var email string
		if len(args) > 0 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			fmt.Scanln(&email)
		}

		password := loginPassword
		if password == "" {
			var err error
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		apiClient := newClient()
		result, err := apiClient.Session().LoginWithPassword(ctx, email, password)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		fmt.Printf("Authenticated as %s\n", email)
		if expiry, ok := client.TokenExpiry(result.AccessToken); ok {
			fmt.Printf("Access token expires at: %s\n", expiry.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if cfg.AccessToken() == "" {
			fmt.Println("Not authenticated. Run 'fleetctl auth login' to authenticate.")
			return nil
		}

		if slug := cfg.TenantSlug(); slug != "" {
			fmt.Printf("Tenant: %s\n", slug)
		}

		expiry, ok := client.TokenExpiry(cfg.AccessToken())
		if !ok {
			fmt.Println("Status: access token stored (no expiry claim)")
			return nil
		}

		fmt.Printf("Access token expires: %s\n", expiry.Format("2006-01-02 15:04:05"))
		now := time.Now()
		switch {
		case now.After(expiry):
			fmt.Println("Status: access token is expired (it will be refreshed on the next request)")
		case time.Until(expiry) < 5*time.Minute:
			fmt.Printf("Status: access token expires in %v\n", time.Until(expiry).Round(time.Second))
		default:
			fmt.Printf("Status: access token valid for %v\n", time.Until(expiry).Round(time.Second))
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if cfg.RefreshToken() == "" {
			return fmt.Errorf("no refresh token found, please login again with 'fleetctl auth login'")
		}

		apiClient := newClient()
		if err := apiClient.Session().Refresh(context.Background()); err != nil {
			return fmt.Errorf("token refresh failed: %w", err)
		}

		fmt.Println("Access token refreshed.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		newClient().Session().Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password for authentication (for non-interactive use)")
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(refreshCmd)
	authCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(authCmd)
}
