package main

import (
	"os"
	"strings"

	"vence-cli/internal/cli"
	"vence-cli/internal/model"
)

func isDate(s string) bool {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err == nil
}

func rewriteDirectDayArgs(argv []string) []string {
	// Convenience: `vence 2024-06-14` works like `vence day 2024-06-14`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `vence --api ... 2024-06-14`), so look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api":      true,
		"--format":   true,
		"--timeout":  true,
		"--log-file": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isDate(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "day")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectDayArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
