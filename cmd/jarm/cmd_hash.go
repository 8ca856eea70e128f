package main

import (
	"io"
	"os"

	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/log"
	E "github.com/sagernet/sing/common/exceptions"

	"github.com/spf13/cobra"
)

var commandHash = &cobra.Command{
	Use:   "hash <raw>...",
	Short: "Assemble a fingerprint from ten raw probe results",
	Args:  cobra.ExactArgs(C.ProbeCount),
	Run: func(cmd *cobra.Command, args []string) {
		err := writeHash(os.Stdout, args)
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	mainCommand.AddCommand(commandHash)
}

func writeHash(writer io.Writer, raw []string) error {
	_, err := io.WriteString(writer, fingerprint.AssembleRaw(raw)+"\n")
	if err != nil {
		return E.Cause(err, "write fingerprint")
	}
	return nil
}
