package main

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/serverhello"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/spf13/cobra"
)

var commandParse = &cobra.Command{
	Use:   "parse <hex>...",
	Short: "Decode captured ServerHello records",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := parse(args)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	mainCommand.AddCommand(commandParse)
}

func parse(args []string) error {
	for _, dump := range args {
		data, err := decodeDump(dump)
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(serverhello.Parse(data).String() + "\n")
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeDump accepts hex with optional whitespace, colon separators or a 0x
// prefix.
func decodeDump(dump string) ([]byte, error) {
	dump = strings.TrimPrefix(strings.TrimSpace(dump), "0x")
	dump = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, dump)
	data, err := hex.DecodeString(dump)
	if err != nil {
		return nil, E.Cause(err, "decode hex")
	}
	return data, nil
}
