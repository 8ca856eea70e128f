package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/option"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/spf13/cobra"
)

var (
	globalCtx    context.Context
	configPath   string
	workingDir   string
	disableColor bool
)

var mainCommand = &cobra.Command{
	Use:              "jarm",
	Short:            "Active TLS server fingerprinting",
	PersistentPreRun: preRun,
}

func init() {
	mainCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "set configuration file path")
	mainCommand.PersistentFlags().StringVarP(&workingDir, "directory", "D", "", "set working directory")
	mainCommand.PersistentFlags().BoolVarP(&disableColor, "disable-color", "", false, "disable color output")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		log.Fatal(err)
	}
}

func preRun(cmd *cobra.Command, args []string) {
	if disableColor {
		log.SetStdLogger(log.NewFactory(log.Formatter{BaseTime: time.Now(), DisableColors: true}, os.Stderr).Logger())
	}
	if workingDir != "" {
		_, err := os.Stat(workingDir)
		if err != nil {
			os.MkdirAll(workingDir, 0o777)
		}
		if err = os.Chdir(workingDir); err != nil {
			log.Fatal(err)
		}
	}
	var cancel context.CancelFunc
	globalCtx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cobra.OnFinalize(cancel)
}

// readConfig returns empty options when no configuration file is given.
func readConfig() (option.Options, error) {
	var options option.Options
	if configPath == "" {
		return options, nil
	}
	var (
		configContent []byte
		err           error
	)
	if configPath == "stdin" {
		configContent, err = io.ReadAll(os.Stdin)
	} else {
		configContent, err = os.ReadFile(configPath)
	}
	if err != nil {
		return options, E.Cause(err, "read config at ", configPath)
	}
	err = options.UnmarshalJSON(configContent)
	if err != nil {
		return options, E.Cause(err, "decode config at ", configPath)
	}
	return options, nil
}

func newLogFactory(options option.Options) (log.Factory, error) {
	var logOptions option.LogOptions
	if options.Log != nil {
		logOptions = *options.Log
	}
	logOptions.DisableColor = logOptions.DisableColor || disableColor
	return log.New(log.Options{
		Options:       logOptions,
		DefaultWriter: os.Stderr,
		BaseTime:      time.Now(),
	})
}
