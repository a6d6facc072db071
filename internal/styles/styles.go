package styles

import (
	"os"

	"github.com/muesli/termenv"
)

var (
	stdout = termenv.NewOutput(os.Stdout)
	stderr = termenv.NewOutput(os.Stderr)

	ERROR = func(s string) string {
		return stderr.String(s).
			Foreground(stderr.Color("9")).
			String()
	}
	TITLE = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("12")).
			Bold().
			String()
	}
	SUCCESS = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("10")).
			String()
	}
	DETAIL = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("8")).
			String()
	}
)
