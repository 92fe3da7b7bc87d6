// Copyright © 2026 TreeCAS Authors

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "treecas",
	Short: "treecas materializes content-addressed file trees",
	Long: `treecas reads a content-addressed object store of files, directory trees and
commits, and checks trees out as regular directories.

Objects are addressed by the checksum of their content: identical content is
stored once and verified on every read. Checkouts can hardlink identical files
across destinations instead of copying them.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addStoreFlag(rootCmd)
	addMetricsFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("store", filepath.Join(".treecas", "objects"))
	if os.Getenv("TREECAS_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("TREECAS_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.treecas")
		viper.AddConfigPath("/etc/treecas")
		viper.SetConfigName("treecas")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setTreecasParams(&treecasFlags)
}
