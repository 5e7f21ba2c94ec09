package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fleetctl/pkg/client"
	"fleetctl/pkg/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Operator console for the fleet-management backend",
	Long: `A command-line console for fleet operators: inspect and manage vehicles,
OBD telemetry, SIM cards, firmware rollouts, alerts, operators, users and
permissions on a tenant's fleet-management backend.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Local .env files override nothing, they only fill in unset vars.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fleetctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("tenant", "", "tenant slug selecting the backend deployment")
	rootCmd.PersistentFlags().String("api-url", "", "default backend origin used when no tenant is set")

	viper.BindPFlag("tenant.slug", rootCmd.PersistentFlags().Lookup("tenant"))
	viper.BindPFlag("api.default_origin", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func GetConfig() *config.Config {
	return cfg
}

// newClient builds the API client every command shares, wiring the
// logout side effect that stands in for the web console's redirect to
// the login page.
func newClient() *client.Client {
	return client.New(GetConfig(),
		client.WithLogger(log.Logger),
		client.WithLogoutHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'fleetctl auth login' to sign in again.")
		}),
	)
}
