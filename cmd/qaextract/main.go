// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qaextract CLI. It turns
// question/answer transcripts into fine-tuning datasets and keeps a
// searchable corpus of the datasets it produced.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes every diagnostic to stderr; stdout carries command output only.
var logger = logrus.New()

// rootCmd is the base command for the qaextract CLI.
var rootCmd = &cobra.Command{
	Use:   "qaextract",
	Short: "Convert Q&A transcripts into fine-tuning datasets",
	Long: `qaextract reads plain-text transcripts made of question/answer dialogues,
either numbered ("1、question / 答：answer") or marker-delimited
("问：question / 答：answer"), and writes a JSONL fine-tuning dataset plus a
Markdown rendering of the extracted pairs.

Built-in presets describe known transcripts; a qaextract.yaml config file,
QAEXTRACT_* environment variables and flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qaextract.yaml or ~/.config/qaextract/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qaextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qaextract"))
		}
	}

	viper.SetEnvPrefix("QAEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.WithError(err).Warn("config file not loaded")
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
