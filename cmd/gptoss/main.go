// gptoss installs and runs gpt-oss models inside a local Ollama container.
package main

import (
	"os"

	"github.com/project-laplace/gpt-oss-standalone/cmd/gptoss/commands"
)

func main() {
	os.Exit(commands.ExitStatus(commands.Execute(), os.Stderr))
}
