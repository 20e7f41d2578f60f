package cmd

import (
	"fmt"
	"os"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/api"
	"github.com/partstash/partstash/pkg/session"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                   _       _            _
 _ __   __ _ _ __| |_ ___| |_ __ _ ___| |__
| '_ \ / _` + "`" + ` | '__| __/ __| __/ _` + "`" + ` / __| '_ \
| |_) | (_| | |  | |_\__ \ || (_| \__ \ | | |
| .__/ \__,_|_|   \__|___/\__\__,_|___/_| |_|
|_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partstash",
	Short: "An inventory manager for electronic parts, right from your terminal.",
	Long: LOGO + `partstash organizes projects into nestable boxes of parts, keeps
generated and manually-edited part attributes in sync with the inventory
service, and drives compliance report generation from the command line.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.partstash.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("api-url", "", "", "Inventory API base URL (overrides config)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".partstash")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.partstash.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("api.url", "https://api.partstash.io")
	viper.SetDefault("search.url", "https://components.octosearch.dev")
	viper.SetDefault("session.dir", "")
	viper.SetDefault("cache.path", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// openSession loads the persisted session once per invocation.
func openSession() (*session.Store, error) {
	return session.Open(viper.GetString("session.dir"))
}

// newAPIClient builds the authenticated API client from config and flags.
func newAPIClient() (*api.Client, *session.Store, error) {
	sess, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	baseURL, _ := rootCmd.PersistentFlags().GetString("api-url")
	if baseURL == "" {
		baseURL = viper.GetString("api.url")
	}
	return api.NewClient(baseURL, sess), sess, nil
}
