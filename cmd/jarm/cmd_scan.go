package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sagernet/sing-jarm"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/option"
	"github.com/sagernet/sing-jarm/store"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json/badoption"

	"github.com/spf13/cobra"
)

var (
	commandScanFlagInput    string
	commandScanFlagPort     string
	commandScanFlagTimeout  time.Duration
	commandScanFlagParallel bool
	commandScanFlagProxy    string
	commandScanFlagDNS      string
	commandScanFlagStrategy string
	commandScanFlagFormat   string
	commandScanFlagRaw      bool
	commandScanFlagStore    string
)

var commandScan = &cobra.Command{
	Use:   "scan [host[:port]...]",
	Short: "Fingerprint TLS servers",
	Run: func(cmd *cobra.Command, args []string) {
		failed, err := scan(cmd, args)
		if err != nil {
			log.Fatal(err)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	commandScan.Flags().StringVarP(&commandScanFlagInput, "input", "i", "", "read targets from file, one per line")
	commandScan.Flags().StringVarP(&commandScanFlagPort, "port", "p", C.DefaultPort, "default port")
	commandScan.Flags().DurationVarP(&commandScanFlagTimeout, "timeout", "t", C.DefaultProbeTimeout, "connect and read timeout of each probe")
	commandScan.Flags().BoolVar(&commandScanFlagParallel, "parallel", false, "send probes concurrently")
	commandScan.Flags().StringVar(&commandScanFlagProxy, "proxy", "", "socks5 proxy url")
	commandScan.Flags().StringVar(&commandScanFlagDNS, "dns", "", "dns server address")
	commandScan.Flags().StringVar(&commandScanFlagStrategy, "strategy", "", "domain strategy: prefer_ipv4, prefer_ipv6, ipv4_only or ipv6_only")
	commandScan.Flags().StringVarP(&commandScanFlagFormat, "format", "f", "text", "output format: text, json or csv")
	commandScan.Flags().BoolVar(&commandScanFlagRaw, "raw", false, "print raw probe results")
	commandScan.Flags().StringVar(&commandScanFlagStore, "store", "", "save results to history file")
	mainCommand.AddCommand(commandScan)
}

func scan(cmd *cobra.Command, args []string) (bool, error) {
	options, err := readConfig()
	if err != nil {
		return false, err
	}
	err = applyScanFlags(cmd, &options)
	if err != nil {
		return false, err
	}
	logFactory, err := newLogFactory(options)
	if err != nil {
		return false, E.Cause(err, "create logger")
	}
	defer logFactory.Close()
	logger := logFactory.NewLogger("scan")

	targets := append([]string(nil), args...)
	if commandScanFlagInput != "" {
		inputTargets, err := readTargetFile(commandScanFlagInput)
		if err != nil {
			return false, err
		}
		targets = append(targets, inputTargets...)
	}
	if options.Scan != nil {
		targets = append(targets, options.Scan.Targets...)
	}
	if len(targets) == 0 {
		return false, E.New("missing targets")
	}
	defaultPort := C.DefaultPort
	if options.Scan != nil && options.Scan.Port != "" {
		defaultPort = options.Scan.Port
	}

	scanner, err := jarm.New(jarm.Options{
		Options: options,
		Logger:  logger,
	})
	if err != nil {
		return false, err
	}
	defer scanner.Close()

	var history *store.Store
	if options.Store != nil && options.Store.Enabled {
		history, err = store.Open(options.Store.Path)
		if err != nil {
			return false, err
		}
		defer history.Close()
	}

	writer, err := newResultWriter(commandScanFlagFormat, os.Stdout, commandScanFlagRaw)
	if err != nil {
		return false, err
	}
	var failed bool
	for _, target := range targets {
		if globalCtx.Err() != nil {
			return true, globalCtx.Err()
		}
		host, port, err := jarm.ParseTarget(target, defaultPort)
		if err != nil {
			logger.Error(err)
			failed = true
			continue
		}
		result, err := scanner.Scan(globalCtx, host, port)
		if err != nil {
			logger.Error(E.Cause(err, "scan ", target))
			failed = true
			continue
		}
		err = writer.Write(result)
		if err != nil {
			return true, E.Cause(err, "write result")
		}
		if history != nil {
			err = history.Save(result)
			if err != nil {
				logger.Warn(E.Cause(err, "save ", target))
			}
		}
	}
	return failed, writer.Flush()
}

// applyScanFlags lets explicitly set flags override the configuration.
func applyScanFlags(cmd *cobra.Command, options *option.Options) error {
	flags := cmd.Flags()
	if options.Scan == nil {
		options.Scan = &option.ScanOptions{}
	}
	if flags.Changed("port") || options.Scan.Port == "" {
		options.Scan.Port = commandScanFlagPort
	}
	if flags.Changed("timeout") || options.Scan.Timeout == 0 {
		options.Scan.Timeout = badoption.Duration(commandScanFlagTimeout)
	}
	if flags.Changed("parallel") {
		options.Scan.Parallel = commandScanFlagParallel
	}
	if commandScanFlagProxy != "" {
		options.Proxy = &option.ProxyOptions{URL: commandScanFlagProxy}
	}
	if commandScanFlagDNS != "" || commandScanFlagStrategy != "" {
		if options.Resolver == nil {
			options.Resolver = &option.ResolverOptions{}
		}
		if commandScanFlagDNS != "" {
			options.Resolver.Server = commandScanFlagDNS
		}
		if commandScanFlagStrategy != "" {
			strategy, err := C.ParseDomainStrategy(commandScanFlagStrategy)
			if err != nil {
				return err
			}
			options.Resolver.Strategy = option.DomainStrategy(strategy)
		}
	}
	if commandScanFlagStore != "" {
		options.Store = &option.StoreOptions{Enabled: true, Path: commandScanFlagStore}
	}
	return nil
}

func readTargetFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, E.Cause(err, "open target file")
	}
	defer file.Close()
	return readTargets(file)
}

// readTargets skips blank lines and # comments.
func readTargets(reader io.Reader) ([]string, error) {
	var targets []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		line = strings.TrimSpace(line)
		if line != "" {
			targets = append(targets, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return common.Uniq(targets), nil
}
