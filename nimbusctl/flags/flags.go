package flags

import (
	"strings"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	Codebase  = "codebase"
	LogFormat = "log-format"
	LogLevel  = "log-level"
	LogSource = "log-source"
	Verbose   = "verbose"
)

// Register declares the global flags on flags and binds them to viper, so that each
// can also be set through a NIMBUSCTL_* environment variable.
func Register(flags *flag.FlagSet) {
	flags.String(Codebase, "", "nimbus.io source tree (defaults to the parent of the executable directory)")
	flags.String(LogFormat, "text", "log format (json, text)")
	flags.String(LogLevel, "WARN", "minimum log level")
	flags.Bool(LogSource, false, "add source code location to logs")
	flags.BoolP(Verbose, "v", false, "verbose output")

	viper.SetEnvPrefix("nimbusctl")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	lo.Must0(viper.BindPFlags(flags))
}
