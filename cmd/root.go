package cmd

import (
	"errors"
	"log"

	"github.com/muhammadolammi/careermatchworker/internal/catalog"
	"github.com/muhammadolammi/careermatchworker/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "careermatch"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "careermatch turns resumes into skills, career recommendations and learning paths",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careermatch.yaml in current directory when present)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	config.LoadDotEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested file is mandatory.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// loadCatalog returns the file catalog when one is configured, the embedded
// one otherwise.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.Default()
}
