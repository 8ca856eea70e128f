package main

import (
	"os"
	"time"

	"github.com/sagernet/sing-jarm"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/store"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"
)

var (
	commandHistoryFlagFile   string
	commandHistoryFlagFormat string
	commandHistoryFlagRaw    bool
	commandHistoryFlagDelete string
)

var commandHistory = &cobra.Command{
	Use:   "history [host[:port]]",
	Short: "List saved scans",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := history(args)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	commandHistory.Flags().StringVarP(&commandHistoryFlagFile, "file", "s", "", "history file")
	commandHistory.Flags().StringVarP(&commandHistoryFlagFormat, "format", "f", "text", "output format: text, json or csv")
	commandHistory.Flags().BoolVar(&commandHistoryFlagRaw, "raw", false, "print raw probe results")
	commandHistory.Flags().StringVar(&commandHistoryFlagDelete, "delete", "", "delete the scan with this id")
	mainCommand.AddCommand(commandHistory)
}

func history(args []string) error {
	path := commandHistoryFlagFile
	if path == "" {
		options, err := readConfig()
		if err != nil {
			return err
		}
		if options.Store == nil || options.Store.Path == "" {
			return E.New("missing history file")
		}
		path = options.Store.Path
	}
	if _, err := os.Stat(path); err != nil {
		return E.Cause(err, "open history")
	}
	historyStore, err := store.Open(path)
	if err != nil {
		return err
	}
	defer historyStore.Close()

	if commandHistoryFlagDelete != "" {
		id, err := uuid.FromString(commandHistoryFlagDelete)
		if err != nil {
			return E.Cause(err, "parse scan id")
		}
		return historyStore.Delete(id)
	}

	results, err := historyStore.List()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		host, port, err := jarm.ParseTarget(args[0], C.DefaultPort)
		if err != nil {
			return err
		}
		target := jarm.Target(host, port)
		var filtered []*jarm.Result
		for _, result := range results {
			if result.Target() == target {
				filtered = append(filtered, result)
			}
		}
		results = filtered
	}
	writer, err := newResultWriter(commandHistoryFlagFormat, os.Stdout, commandHistoryFlagRaw)
	if err != nil {
		return err
	}
	for _, result := range results {
		if commandHistoryFlagFormat == "" || commandHistoryFlagFormat == "text" {
			_, err = os.Stdout.WriteString(result.ScannedAt.Format(time.RFC3339) + " " + result.ID.String() + " ")
			if err != nil {
				return err
			}
		}
		err = writer.Write(result)
		if err != nil {
			return err
		}
		err = writer.Flush()
		if err != nil {
			return err
		}
	}
	return nil
}
