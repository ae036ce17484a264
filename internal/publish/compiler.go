package publish

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// CompilerName is the program inside the extension folder that turns a data
// file into the runtime script.
const CompilerName = "compiler"

// Compiler launches the runtime compiler on a data file.
type Compiler struct {
	// Dir is the extension folder holding the compiler.
	Dir    string
	Debug  bool
	Runner Runner
	Logger logrus.FieldLogger
}

// Args returns the compiler command line for dataFile.
func (c *Compiler) Args(dataFile string) []string {
	args := []string{"--src", dataFile}
	if c.Debug {
		args = append(args, "--debug")
	}
	return args
}

// Compile runs the compiler and waits for it to finish.
func (c *Compiler) Compile(ctx context.Context, dataFile string) error {
	prog := filepath.Join(c.Dir, CompilerName)
	logger(c.Logger).WithFields(logrus.Fields{
		"compiler": prog,
		"src":      dataFile,
	}).Info("Compiling")
	return runner(c.Runner).Run(ctx, prog, c.Args(dataFile)...)
}

func runner(r Runner) Runner {
	if r == nil {
		return ExecRunner{}
	}
	return r
}
