// Package flagx helps the layered config loader parse a subset of the
// command line. The config file path has to be read before the full
// flag set is parsed (the file's values sit below the flags in the
// overlay order), so the loader first filters os.Args down to the flags
// it is allowed to see.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with
// their values. A flag may appear either as "-name value" (two
// arguments) or as "-name=value" (one). Everything else, including
// unknown flags and their values, is dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-name=value" form
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-name value" form; the value is the next argument unless it
		// starts another flag
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags extracts the config file path from -c or -config
// without disturbing the rest of the command line, returning "" when
// neither flag is present. The server's remaining flags are registered
// and parsed later by the config package.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
