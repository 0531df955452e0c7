package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ggce",
	Short: "Generalized Green's function cluster expansion equation builder",
	Long: `ggce enumerates the legal phonon clouds of a model, builds the closed
hierarchy of equations for the electron Green's function, verifies closure
and indexes the basis for a numeric solver.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .ggce.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Bool("strict", false, "fail on equation count mismatches")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("telemetry", "", "append JSONL stage events to this file")
	pf.String("db", "", "SQLite basis database")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("strict", pf.Lookup("strict"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("telemetry_path", pf.Lookup("telemetry"))
	_ = viper.BindPFlag("basis_db", pf.Lookup("db"))
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ggce")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GGCE")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
