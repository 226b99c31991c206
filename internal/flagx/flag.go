// Package flagx lets several config loaders share os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// token that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithBools(args, allowedFlags, nil)
}

// FilterArgsWithBools is FilterArgs for flag sets that mix value flags and
// boolean flags. Boolean flags never consume the next token, matching how
// the flag package parses them.
func FilterArgsWithBools(args []string, valueFlags []string, boolFlags []string) []string {
	kinds := make(map[string]bool, len(valueFlags)+len(boolFlags))
	for _, f := range valueFlags {
		kinds[f] = true
	}
	for _, f := range boolFlags {
		kinds[f] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := kinds[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		takesValue, ok := kinds[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// "" when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
