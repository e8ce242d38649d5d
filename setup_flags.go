package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

type flagSet struct {
	model        string
	maxTokens    int
	query        string
	systemPrompt string
	url          string
	listModels   bool
	printRaw     bool
	noValidate   bool
	version      bool
}

func setupFlags(args []string, defaults flagSet) (flagSet, error) {
	fs := flag.NewFlagSet("pplx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	mShort := fs.String("m", defaults.model, "Set the model to use. Mutually exclusive with model flag.")
	mLong := fs.String("model", defaults.model, "Set the model to use. Mutually exclusive with m flag.")

	tShort := fs.Int("t", defaults.maxTokens, "Set the maximum amount of tokens in the answer. Mutually exclusive with tokens flag.")
	tLong := fs.Int("tokens", defaults.maxTokens, "Set the maximum amount of tokens in the answer. Mutually exclusive with t flag.")

	qShort := fs.String("q", defaults.query, "Set the query. Mutually exclusive with query flag.")
	qLong := fs.String("query", defaults.query, "Set the query. Mutually exclusive with q flag.")

	sShort := fs.String("s", defaults.systemPrompt, "Set the system prompt. Mutually exclusive with system flag.")
	sLong := fs.String("system", defaults.systemPrompt, "Set the system prompt. Mutually exclusive with s flag.")

	uShort := fs.String("u", defaults.url, "Set the chat completions endpoint. Mutually exclusive with url flag.")
	uLong := fs.String("url", defaults.url, "Set the chat completions endpoint. Mutually exclusive with u flag.")

	lShort := fs.Bool("l", defaults.listModels, "List available models and exit.")
	lLong := fs.Bool("list-models", defaults.listModels, "List available models and exit.")

	rShort := fs.Bool("r", defaults.printRaw, "Print the raw json response.")
	rLong := fs.Bool("raw", defaults.printRaw, "Print the raw json response.")

	nvShort := fs.Bool("nv", defaults.noValidate, "Don't check the model against the list of known models.")
	nvLong := fs.Bool("no-validate", defaults.noValidate, "Don't check the model against the list of known models.")

	vShort := fs.Bool("v", defaults.version, "Print version and exit.")
	vLong := fs.Bool("version", defaults.version, "Print version and exit.")

	if err := fs.Parse(args); err != nil {
		return flagSet{}, err
	}

	model, err := returnNonDefault(*mShort, *mLong, defaults.model)
	if err != nil {
		return flagSet{}, flagError(err, "m", "model")
	}
	maxTokens, err := returnNonDefault(*tShort, *tLong, defaults.maxTokens)
	if err != nil {
		return flagSet{}, flagError(err, "t", "tokens")
	}
	query, err := returnNonDefault(*qShort, *qLong, defaults.query)
	if err != nil {
		return flagSet{}, flagError(err, "q", "query")
	}
	systemPrompt, err := returnNonDefault(*sShort, *sLong, defaults.systemPrompt)
	if err != nil {
		return flagSet{}, flagError(err, "s", "system")
	}
	url, err := returnNonDefault(*uShort, *uLong, defaults.url)
	if err != nil {
		return flagSet{}, flagError(err, "u", "url")
	}
	if query == "" {
		query = strings.Join(fs.Args(), " ")
	}

	return flagSet{
		model:        model,
		maxTokens:    maxTokens,
		query:        query,
		systemPrompt: systemPrompt,
		url:          url,
		listModels:   *lShort || *lLong,
		printRaw:     *rShort || *rLong,
		noValidate:   *nvShort || *nvLong,
		version:      *vShort || *vLong,
	}, nil
}

func returnNonDefault[T comparable](a, b, defaultVal T) (T, error) {
	if a != defaultVal && b != defaultVal {
		return defaultVal, fmt.Errorf("values are mutually exclusive")
	}
	if a != defaultVal {
		return a, nil
	}
	if b != defaultVal {
		return b, nil
	}
	return defaultVal, nil
}

func flagError(err error, shortFlag, longFlag string) error {
	return fmt.Errorf("invalid flag combination '-%v' and '-%v': %w", shortFlag, longFlag, err)
}
