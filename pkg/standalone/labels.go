package standalone

const (
	// labelService marks every resource gptoss creates.
	labelService = "com.project-laplace.gptoss.service"
	// serviceOllama is the labelService value.
	serviceOllama = "ollama"
	// labelRole distinguishes the runner container from its storage.
	labelRole = "com.project-laplace.gptoss.role"
	// roleRunner is the labelRole value of the Ollama container.
	roleRunner = "runner"
	// roleModelStorage is the labelRole value of the model storage volume.
	roleModelStorage = "model-storage"
)

// StatusPrinter is the output sink for progress messages. *cobra.Command
// satisfies it.
type StatusPrinter interface {
	Printf(format string, args ...any)
	Println(args ...any)
}
