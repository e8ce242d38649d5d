package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/baalimago/pplx/internal"
	"github.com/baalimago/pplx/internal/catalog"
	"github.com/baalimago/pplx/internal/config"
	"github.com/baalimago/pplx/internal/output"
	"github.com/baalimago/pplx/internal/perplexity"
)

const usage = `pplx - ask the (p)er(pl)e(x)ity api a single question

Prerequisites:
  - Set the PERPLEXITY_API_KEY environment variable to your Perplexity API key
  - (Optional) Set the NO_COLOR environment variable to disable ansi color output
  - (Optional) Set the PPLX_CONFIG_DIR environment variable to use another config directory

Usage: pplx [flags] [query]

Flags:
  -m, -model string            Set the model to use. (default '%v')
  -t, -tokens int              Set the maximum amount of tokens in the answer. (default %v)
  -q, -query string            Set the query. If not set, the remaining arguments are used.
  -s, -system string           Set the system prompt. (default '%v')
  -u, -url string              Set the chat completions endpoint. (default '%v')
  -l, -list-models bool        List available models and exit.
  -r, -raw bool                Print the raw json response instead of the formatted one.
  -nv, -no-validate bool       Don't check the model against the list of known models.
  -v, -version bool            Print version and exit.
  -h, -help                    Display this help message.

Defaults are read from <config dir>/config.json, which is created on first run.

Examples:
  - pplx -l
  - pplx -q "What is the capital of Sweden?"
  - pplx -m sonar -t 200 What is the airspeed velocity of an unladen swallow
  - pplx -r -q "Summarize the latest go release notes" | jq .usage
`

func main() {
	ancli.SetupSlog()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	conf, err := config.Load()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to load config: %v\n", err))
		return 1
	}

	flags, err := setupFlags(args, flagSet{
		model:        conf.Model,
		maxTokens:    conf.MaxTokens,
		systemPrompt: conf.SystemPrompt,
		url:          conf.URL,
	})
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Printf(usage, conf.Model, conf.MaxTokens, conf.SystemPrompt, conf.URL)
			return 0
		}
		ancli.PrintErr(fmt.Sprintf("failed to parse flags: %v\n", err))
		return 1
	}

	if flags.version {
		if err := internal.PrintVersion(os.Stdout); err != nil {
			ancli.PrintErr(fmt.Sprintf("failed to print version: %v\n", err))
			return 1
		}
		return 0
	}

	models, err := catalog.Default()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to load model catalog: %v\n", err))
		return 1
	}
	printer := output.New(os.Stdout, output.UseColor(os.Stdout))

	if flags.listModels {
		if err := printer.Models(models.Models()); err != nil {
			ancli.PrintErr(fmt.Sprintf("failed to list models: %v\n", err))
			return 1
		}
		return 0
	}

	credential, err := config.Credential()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { shutdown.Monitor(cancel) }()

	builder := perplexity.NewBuilder(models, perplexity.BuildOptions{
		URL:                 flags.url,
		SkipModelValidation: flags.noValidate,
	})
	client := perplexity.NewClient(credential, builder, perplexity.NewHTTPSender(nil))
	result, err := client.Complete(ctx, perplexity.RequestParameters{
		Model:        flags.model,
		MaxTokens:    flags.maxTokens,
		Query:        flags.query,
		SystemPrompt: flags.systemPrompt,
	})
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to query: %v\n", err))
		if errors.Is(err, perplexity.ErrValidation) {
			ancli.PrintErr("use '-l' to list available models, '-h' for help\n")
		}
		return 1
	}

	if flags.printRaw {
		err = printer.Raw(result)
	} else {
		err = printer.Result(result)
	}
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to print result: %v\n", err))
		return 1
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
	return 0
}
