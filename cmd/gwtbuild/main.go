package main

import (
	"os"
	"strings"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/root"
)

// exitCoder is implemented by errors that carry their own process status,
// such as a stale check or a failed GWT run.
type exitCoder interface {
	ExitCode() int
}

func main() {
	err := root.Execute(os.Args[1:])
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString(errorLine(err) + "\n")
	os.Exit(exitCode(err))
}

// errorLine folds a possibly multi-line error (CUE errors span lines) into one.
func errorLine(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		return "error"
	}
	return msg
}

func exitCode(err error) int {
	if ec, ok := err.(exitCoder); ok && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}
