package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/GabrielSaul/jpgdig"
	"github.com/GabrielSaul/jpgdig/internal/config"
	"github.com/GabrielSaul/jpgdig/pkg/logging"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// cliConfig holds the parsed command line.
type cliConfig struct {
	configPath   string
	outputDir    string
	blockSize    int
	maxFiles     int
	namePattern  string
	minimumFree  string
	strictReads  bool
	noDecompress bool
	manifest     string
	verbose      bool
	debug        bool
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("jpgdig", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, fs) }

	var cli cliConfig
	fs.StringVar(&cli.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&cli.outputDir, "output", "", "directory for recovered files (default: working directory)")
	fs.IntVar(&cli.blockSize, "block-size", jpgdig.DefaultBlockSize, "block size in bytes")
	fs.IntVar(&cli.maxFiles, "max-files", jpgdig.DefaultMaxFiles, "highest file index that may be created")
	fs.StringVar(&cli.namePattern, "name", jpgdig.DefaultNamePattern, "output file name pattern")
	fs.StringVar(&cli.minimumFree, "min-free", "", "required free space in the output directory, e.g. 100MB")
	fs.BoolVar(&cli.strictReads, "strict", false, "fail on read faults instead of treating them as end of image")
	fs.BoolVar(&cli.noDecompress, "no-decompress", false, "read xz-compressed images as raw bytes")
	fs.StringVar(&cli.manifest, "manifest", "", "directory for the recovery manifest")
	fs.BoolVar(&cli.verbose, "v", false, "log a summary when done")
	fs.BoolVar(&cli.debug, "debug", false, "log every recovered file")

	// Parse prints the usage itself, including for -h and --help.
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	imagePath := fs.Arg(0)

	conf, logLevel, err := buildConfig(fs, cli)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	logger, err := logging.New(stderr, logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid log level: %v\n", err)
		return exitFailure
	}
	conf.Logger = logger

	d, err := jpgdig.New(conf)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if _, err := d.Dig(imagePath); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitSuccess
}

// buildConfig layers the config file under the flags that were set explicitly.
func buildConfig(fs *flag.FlagSet, cli cliConfig) (jpgdig.Config, string, error) {
	var (
		conf     jpgdig.Config
		logLevel string
	)
	if cli.configPath != "" {
		f, err := config.Load(cli.configPath)
		if err != nil {
			return conf, "", err
		}
		if err := f.Apply(&conf); err != nil {
			return conf, "", err
		}
		logLevel = f.LogLevel
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "output":
			conf.OutputDir = cli.outputDir
		case "block-size":
			conf.BlockSize = cli.blockSize
		case "max-files":
			if cli.maxFiles < 0 {
				err = fmt.Errorf("%w: -max-files must not be negative", jpgdig.ErrInvalidConfig)
				return
			}
			conf.MaxFiles = jpgdig.FileLimit(cli.maxFiles)
		case "name":
			conf.NamePattern = cli.namePattern
		case "min-free":
			n, perr := humanize.ParseBytes(cli.minimumFree)
			if perr != nil {
				err = fmt.Errorf("%w: -min-free: %w", jpgdig.ErrInvalidConfig, perr)
				return
			}
			conf.MinimumFreeBytes = n
		case "strict":
			conf.StrictReads = cli.strictReads
		case "no-decompress":
			conf.DisableDecompression = cli.noDecompress
		case "manifest":
			conf.ManifestPath = cli.manifest
		case "v":
			if cli.verbose {
				logLevel = "info"
			}
		}
	})
	if cli.debug {
		logLevel = "debug"
	}
	return conf, logLevel, err
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: jpgdig [flags] <card image>\n\n\t-h, --help\tPrint this menu & exit\n\n")
	fs.PrintDefaults()
}
