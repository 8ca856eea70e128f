package main

import (
	"encoding/hex"
	"os"

	"github.com/sagernet/sing-jarm/clienthello"
	"github.com/sagernet/sing-jarm/common/ja3"
	"github.com/sagernet/sing-jarm/common/random"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/probe"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"

	"github.com/spf13/cobra"
)

var (
	commandProbesFlagPort   string
	commandProbesFlagPacket bool
	commandProbesFlagFixed  bool
	commandProbesFlagJA3    bool
)

var commandProbes = &cobra.Command{
	Use:   "probes <host>",
	Short: "Print the probe catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printProbes(args[0])
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	commandProbes.Flags().StringVarP(&commandProbesFlagPort, "port", "p", C.DefaultPort, "target port")
	commandProbes.Flags().BoolVar(&commandProbesFlagPacket, "packet", false, "print the ClientHello of each probe")
	commandProbes.Flags().BoolVar(&commandProbesFlagFixed, "fixed", false, "use constant random bytes")
	commandProbes.Flags().BoolVar(&commandProbesFlagJA3, "ja3", false, "print the JA3 hash of each ClientHello")
	mainCommand.AddCommand(commandProbes)
}

func printProbes(host string) error {
	var source random.Source = random.NewSecure()
	if commandProbesFlagFixed {
		source = random.NewFixed()
	}
	for index, specification := range probe.Catalog(host, commandProbesFlagPort) {
		line := F.ToString(index, " ", specification.Name, " ", specification)
		if commandProbesFlagPacket || commandProbesFlagJA3 {
			packet, err := clienthello.Build(specification, source)
			if err != nil {
				return E.Cause(err, "build ", specification.Name)
			}
			if commandProbesFlagJA3 {
				clientHello, err := ja3.Compute(packet)
				if err != nil {
					return E.Cause(err, "compute ja3 of ", specification.Name)
				}
				line += " ja3=" + clientHello.Hash()
			}
			if commandProbesFlagPacket {
				line += "\n" + hex.EncodeToString(packet)
			}
		}
		_, err := os.Stdout.WriteString(line + "\n")
		if err != nil {
			return err
		}
	}
	return nil
}
