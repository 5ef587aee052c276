package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lhcb-b2dsk/timeacc/logging"
)

type app struct {
	v          *viper.Viper
	configFile string
	conf       Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	setDefaults(a.v)

	root := &cobra.Command{
		Use:           "timeacc",
		Short:         "decay-time acceptance binning and toy bands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.InitializeLoggingTo(cmd.ErrOrStderr())
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file (json, yaml or toml)")
	root.PersistentFlags().String("log-level", "INFO", "logging level")
	a.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRebinCmd(a), newBandCmd(a), newEdgesCmd(a))
	return root
}

func (a *app) load() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return err
		}
	}
	if err := a.v.Unmarshal(&a.conf); err != nil {
		return err
	}
	if err := logging.ConfigureLogging(a.conf.LogLevel); err != nil {
		return err
	}
	if a.configFile != "" {
		logging.Log.Noticef("Config file <%s> loaded", a.configFile)
	}
	logging.Log.Debugf("Log level: %v", a.conf.LogLevel)
	return nil
}
