package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jobsync/jobsync/cmd/jobsync/cli"
	"github.com/jobsync/jobsync/common/logger"
	"github.com/jobsync/jobsync/common/version"
)

const (
	DefaultConfigDir = "~/"
	ConfigFileName   = ".jobsync"
)

var (
	defaultConfigFilePath = fmt.Sprintf("%s%s.yml", DefaultConfigDir, ConfigFileName)
)

type GlobalConfig struct {
	Debug          bool
	LogLevels      string
	ConfigFilePath string
}

var Global = &GlobalConfig{}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVarP(
		&Global.ConfigFilePath,
		"config",
		"c",
		defaultConfigFilePath,
		"The config file to use when executing commands.")

	RootCmd.PersistentFlags().BoolVarP(
		&Global.Debug,
		"debug",
		"d",
		false,
		"Enable verbose debug output.")

	RootCmd.PersistentFlags().StringVar(
		&Global.LogLevels,
		"log-levels",
		"",
		"Per-subsystem log levels, e.g. \"SyncEngine=debug,HTTPStore=trace\".")
}

// LogFactory builds the log factory used by all subcommands, honouring the
// global debug flag and per-subsystem level configuration.
func (g *GlobalConfig) LogFactory() (logger.LogFactory, error) {
	registry, err := logger.NewLogRegistry(logger.LogLevelConfig(g.LogLevels))
	if err != nil {
		return nil, err
	}
	if g.Debug {
		registry.SetDefaultLevel(logrus.DebugLevel)
	}
	return logger.MakeLogrusLogFactoryStdOut(registry), nil
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cli.Exit(RootCmd.Execute())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if Global.ConfigFilePath != "" && Global.ConfigFilePath != defaultConfigFilePath {
		viper.SetConfigFile(Global.ConfigFilePath)
	} else {
		viper.SetConfigName(ConfigFileName)
		viper.AddConfigPath(DefaultConfigDir)
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("jobsync")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	err := viper.ReadInConfig()
	if err == nil {
		Global.ConfigFilePath = viper.ConfigFileUsed()
		cli.Stderr.Printf("Using config file: %s", viper.ConfigFileUsed())
	} else {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
		default:
			cli.Exit(fmt.Errorf("error loading config file (%s): %s", viper.ConfigFileUsed(), err))
		}
	}
}

var RootCmd = &cobra.Command{
	Use:     "jobsync",
	Short:   "Render and synchronize declarative CI job definitions",
	Long:    `jobsync turns a declarative pipeline definition into CI server job configuration documents and keeps a server in sync with them.`,
	Version: version.VersionToString(),
}
