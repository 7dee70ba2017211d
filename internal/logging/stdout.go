package logging

import (
	"io"
	"os"
)

// Indirection so tests can capture console output.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)
