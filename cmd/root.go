// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/traceatlas/traceatlas/pkg/api"
	"github.com/traceatlas/traceatlas/pkg/config"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"github.com/traceatlas/traceatlas/pkg/worldmap"
)

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "traceatlas",
		Short: "Traceatlas, the network path mapper",
		Long: "Traceatlas discovers the network path to a destination host, annotates\n" +
			"every hop with its approximate geographic origin and renders the path\n" +
			"as an interactive map.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cobra.OnInitialize(func() {
		initConfig(cfgFile)
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.traceatlas.yaml)")

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func BuildCmd(version string) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdTrace())
	cmd.AddCommand(NewCmdServe())
	return cmd
}

func initConfig(cfgFile string) {
	// A .env file may carry LOG_LEVEL, LOG_FORMAT and TRACEATLAS_* variables.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".traceatlas" (without an extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".traceatlas")
	}

	viper.SetDefault("geo.url", geo.DefaultBaseURL)
	viper.SetDefault("geo.minInterval", geo.DefaultMinInterval)
	viper.SetDefault("map.enabled", true)
	viper.SetDefault("map.path", worldmap.DefaultPath)
	viper.SetDefault("api.address", api.DefaultAddress)

	viper.SetOptions(viper.ExperimentalBindStruct())
	viper.SetEnvPrefix("traceatlas")
	dotreplacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(dotreplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals and validates the startup configuration.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
