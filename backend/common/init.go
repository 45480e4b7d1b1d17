package common

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// commandLine holds parsed flags. Only flags present in args override the
// file and environment layers.
type commandLine struct {
	fs         *flag.FlagSet
	set        map[string]bool
	positional []string

	configPath     string
	prefix         string
	host           string
	port           int
	naming         string
	index          string
	maxUploadBytes int64
	logDir         string
	enableGzip     bool
	printVersion   bool
	printHelp      bool
}

func newFlagSet(cl *commandLine) *flag.FlagSet {
	fs := flag.NewFlagSet(SystemName, flag.ContinueOnError)
	fs.StringVar(&cl.configPath, "c", "", "path to a YAML config file")
	fs.StringVar(&cl.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&cl.prefix, "p", DefaultPrefix, "path prefix in route")
	fs.StringVar(&cl.prefix, "prefix", DefaultPrefix, "path prefix in route")
	fs.StringVar(&cl.host, "H", "", "hostname in returned url")
	fs.StringVar(&cl.host, "host", "", "hostname in returned url")
	fs.IntVar(&cl.port, "port", DefaultPort, "the listening port")
	fs.StringVar(&cl.naming, "n", NamingTimestamp, "naming scheme for stored files: timestamp or uuid")
	fs.StringVar(&cl.naming, "naming", NamingTimestamp, "naming scheme for stored files: timestamp or uuid")
	fs.StringVar(&cl.index, "i", "", `index page at the prefix: "embedded" or a directory holding index.html`)
	fs.StringVar(&cl.index, "index", "", `index page at the prefix: "embedded" or a directory holding index.html`)
	fs.Int64Var(&cl.maxUploadBytes, "max-upload", DefaultMaxUploadBytes, "maximum request body size in bytes, 0 disables the limit")
	fs.StringVar(&cl.logDir, "log-dir", "", "specify the log directory")
	fs.BoolVar(&cl.enableGzip, "gzip", true, "enable gzip compression")
	fs.BoolVar(&cl.printVersion, "version", false, "print version and exit")
	fs.BoolVar(&cl.printHelp, "help", false, "print help and exit")
	return fs
}

// parseFlags accepts the positional destination anywhere among the flags
func parseFlags(args []string) (*commandLine, error) {
	cl := &commandLine{set: make(map[string]bool)}
	cl.fs = newFlagSet(cl)
	cl.fs.SetOutput(io.Discard)

	rest := args
	for {
		if err := cl.fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				cl.printHelp = true
				cl.set["help"] = true
				return cl, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		rest = cl.fs.Args()
		if len(rest) == 0 {
			break
		}
		cl.positional = append(cl.positional, rest[0])
		rest = rest[1:]
	}
	cl.fs.Visit(func(f *flag.Flag) {
		cl.set[f.Name] = true
	})
	return cl, nil
}

func (cl *commandLine) isSet(names ...string) bool {
	for _, name := range names {
		if cl.set[name] {
			return true
		}
	}
	return false
}

func (cl *commandLine) apply(cfg *Config) {
	if len(cl.positional) > 0 {
		cfg.Destination = cl.positional[0]
	}
	if cl.isSet("p", "prefix") {
		cfg.Prefix = cl.prefix
	}
	if cl.isSet("H", "host") {
		cfg.Host = cl.host
	}
	if cl.isSet("port") {
		cfg.Port = cl.port
	}
	if cl.isSet("n", "naming") {
		cfg.Naming = cl.naming
	}
	if cl.isSet("i", "index") {
		cfg.Index = cl.index
	}
	if cl.isSet("max-upload") {
		cfg.MaxUploadBytes = cl.maxUploadBytes
	}
	if cl.isSet("log-dir") {
		cfg.LogDir = cl.logDir
	}
	if cl.isSet("gzip") {
		cfg.EnableGzip = cl.enableGzip
	}
	cfg.PrintVersion = cl.printVersion
	cfg.PrintHelp = cl.printHelp
}

func PrintHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] destination\n\n", SystemName)
	_, _ = fmt.Fprintln(w, "Stores uploaded PNG files in destination and serves them back.")
	_, _ = fmt.Fprintln(w, "\nFlags:")
	fs := newFlagSet(&commandLine{})
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// PrintUsageError reports a command line mistake the way argparse does
func PrintUsageError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "usage: %s [flags] destination\n%s: error: %v\n", SystemName, SystemName, err)
}
