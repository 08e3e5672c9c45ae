package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	devLogs  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restock",
	Short: "Restock - watch a product page and alert when it comes back in stock",
	Long: `Restock fetches a single product page, checks that the expected page came
back, and looks for purchase and unavailability phrases in its text.

The page reads as in stock only when a purchase phrase ("add to cart",
"buy now", ...) is present and no unavailability phrase ("sold out",
"out of stock", ...) is. When that happens a Discord webhook is notified.

Exit status is 0 for any completed check and 1 for a wrong page, a
network failure, or a failed notification.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("restock v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.restock/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "human-readable console logs instead of JSON")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and RESTOCK_* environment variables
func initConfig() {
	// .env is optional; existing environment variables win
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.restock")
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("RESTOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.development", rootCmd.PersistentFlags().Lookup("dev"))

	// DISCORD_WEBHOOK_URL is the variable the original cron job used
	_ = viper.BindEnv("notify.webhook_url", "RESTOCK_NOTIFY_WEBHOOK_URL", "DISCORD_WEBHOOK_URL")

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file %s: %v\n", cfgFile, err)
		}
	}
}
