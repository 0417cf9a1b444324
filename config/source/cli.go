package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// CLISource loads dot-notated flags into nested keys:
//
//	--server.addr=:9090 --logging.level debug
//	  -> {server: {addr: ":9090"}, logging: {level: "debug"}}
//
// Single-dash long flags (-app.name=x) are accepted. Arguments that are not
// flags and flags with empty values are ignored. Every flag is accepted, so
// CLISource never fails on unknown names.
type CLISource struct {
	// Args defaults to os.Args[1:].
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseFlags(normalizeArgs(args)), nil
}

func parseFlags(args []string) map[string]any {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Declare every flag we see so pflag accepts it.
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := extractFlagName(arg)
		if name == "" {
			continue
		}
		if fs.Lookup(name) == nil {
			fs.String(name, "", "config value for "+name)
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	_ = fs.Parse(args)

	result := make(map[string]any)
	fs.Visit(func(flag *pflag.Flag) {
		if value := flag.Value.String(); value != "" {
			setNestedValue(result, strings.Split(flag.Name, "."), value)
		}
	})
	return result
}

// normalizeArgs turns single-dash long flags into double-dash ones for pflag.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		trimmed := strings.TrimPrefix(arg, "-")
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && len(trimmed) > 1 && trimmed[0] != '=' {
			normalized[i] = "-" + arg
			continue
		}
		normalized[i] = arg
	}
	return normalized
}

func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	if name, _, found := strings.Cut(arg, "="); found {
		return name
	}
	return arg
}
