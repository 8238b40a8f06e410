package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/filecontext"
	"github.com/project-laplace/gpt-oss-standalone/pkg/ollama"
)

type generateOptions struct {
	model      string
	files      []string
	maxContext int
	promptFile string
	options    []string
	keepAlive  string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [--model MODEL] [--file FILE]... (PROMPT... | --prompt-file FILE)",
		Short: "Send one prompt to a model through the Ollama API",
		Long: `Send a single prompt to the Ollama API and stream the answer. Useful to
check that an installed model responds.

Text files given with --file are placed ahead of the prompt as reference
material, capped at --max-context characters. Sampling defaults to
temperature 0.3, top_p 0.9 and repeat_penalty 1.1; override any model
option with --option key=value.

Examples:
  gptoss generate "Why is the sky blue?"
  gptoss generate --model gpt-oss:120b Hello
  gptoss generate --file notes.md --file data.csv --prompt-file question.txt
  gptoss generate --option temperature=0.8 --option num_ctx=8192 Tell me a story`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("model") && cfg.Model != "" {
				opts.model = cfg.Model
			}
			question, err := readQuestion(opts.promptFile, args)
			if err != nil {
				return err
			}
			modelOpts, err := ollama.ParseOptions(ollama.DefaultOptions(), opts.options)
			if err != nil {
				return err
			}

			refs := filecontext.Format(loadContextFiles(opts.files), opts.maxContext)
			prompt := filecontext.BuildPrompt(question, refs)
			log.WithFields(map[string]interface{}{
				"prompt_chars":  len([]rune(prompt)),
				"context_chars": len([]rune(refs)),
			}).Debugf("prompt built")

			out := cmd.OutOrStdout()
			final, err := newOllamaClient().Generate(cmd.Context(), ollama.GenerateRequest{
				Model:     opts.model,
				Prompt:    prompt,
				KeepAlive: opts.keepAlive,
				Options:   modelOpts,
			}, func(s string) {
				fmt.Fprint(out, s)
			})
			if err != nil {
				return handleAPIError(err, "generating response")
			}
			fmt.Fprintln(out)

			log.WithFields(map[string]interface{}{
				"model":      final.Model,
				"eval_count": final.EvalCount,
				"total":      time.Duration(final.TotalDuration).String(),
			}).Debugf("generation finished")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.model, "model", "m", ollama.DefaultModel, "Model to use")
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "Reference file to place ahead of the prompt (.txt, .md, .json, .csv, .log); repeatable")
	flags.IntVar(&opts.maxContext, "max-context", filecontext.DefaultMaxLength, "Maximum characters of reference file content")
	flags.StringVar(&opts.promptFile, "prompt-file", "", "Read the prompt from a file instead of the arguments")
	flags.StringArrayVarP(&opts.options, "option", "o", nil, "Model option as key=value, e.g. temperature=0.7; repeatable")
	flags.StringVar(&opts.keepAlive, "keep-alive", "", `How long the model stays loaded afterwards, e.g. "5m" or "0s"`)
	return cmd
}

// readQuestion returns the prompt from promptFile or, without one, the
// joined arguments.
func readQuestion(promptFile string, args []string) (string, error) {
	if promptFile == "" {
		if len(args) == 0 {
			return "", errors.New("requires a PROMPT or --prompt-file")
		}
		return strings.Join(args, " "), nil
	}
	if len(args) > 0 {
		return "", errors.New("PROMPT arguments cannot be combined with --prompt-file")
	}
	data, err := os.ReadFile(promptFile)
	if err != nil {
		return "", errors.Wrap(err, "reading prompt file")
	}
	question := strings.TrimSpace(string(data))
	if question == "" {
		return "", errors.Errorf("prompt file %s is empty", promptFile)
	}
	return question, nil
}

// loadContextFiles loads what it can. A file that is missing, of an
// unsupported type or unreadable is skipped with a warning.
func loadContextFiles(paths []string) []filecontext.File {
	var files []filecontext.File
	for _, path := range paths {
		f, err := filecontext.Load(path)
		if err != nil {
			log.WithError(err).Warnf("skipping reference file %s", path)
			continue
		}
		log.WithFields(map[string]interface{}{
			"file":     path,
			"encoding": f.Encoding,
			"chars":    len([]rune(f.Content)),
		}).Debugf("reference file loaded")
		files = append(files, f)
	}
	return files
}
