package runner

import (
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/arpx/pkg/version"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au *aurora.Aurora

var (
	NoColorEnv = envutil.GetEnvOrDefault("NO_COLOR", "") != ""
)

// Options contains the configuration options for a single arpx run.
type Options struct {
	ConfigFile string

	MAC      string
	MACsFile string

	Interfaces bool

	JSON    bool
	Output  string
	NoColor bool

	Verbose bool
	Silent  bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`arpx lists the local ARP table and resolves IPv4 addresses from known MAC addresses`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.MAC, "mac", "m", "", "resolve the IPv4 address for the given mac address"),
		flagSet.StringVarP(&options.MACsFile, "macs-file", "mf", "", "json file with mac addresses to resolve"),
		flagSet.BoolVarP(&options.Interfaces, "interfaces", "if", false, "list local network interfaces instead of the arp table"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.JSON, "json", "j", false, "write output in json format"),
		flagSet.StringVarP(&options.Output, "output", "o", "", "file to write output to"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		_ = options.loadConfigFrom(options.ConfigFile)
	}

	if NoColorEnv {
		options.NoColor = true
	}

	// configure aurora for result rendering
	au = aurora.New(aurora.WithColors(!options.NoColor))

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) loadConfigFrom(location string) error {
	return fileutil.Unmarshal(fileutil.YAML, []byte(location), options)
}
