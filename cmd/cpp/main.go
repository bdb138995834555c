package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-cc/preproc/internal/trace"
	"github.com/go-cc/preproc/pkg/preproc"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	includePaths  []string
	systemPaths   []string
	defineFlags   []string
	undefineFlags []string
	lineMarkers   bool
	useExternalPP bool
	verbose       bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cpp [file]",
		Short:         "cpp is a standalone C11 preprocessor",
		Long:          `cpp runs translation phases 3-4 over a C source file: line splicing, tokenization, macro expansion and conditional inclusion, emitting preprocessed text.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doPreprocess(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVar(&systemPaths, "isystem", nil, "Add directory (or glob of directories) to system include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().BoolVarP(&lineMarkers, "line-markers", "P", true, "Emit GNU-style '# N \"file\"' line markers")
	rootCmd.Flags().BoolVar(&useExternalPP, "external-cpp", false, "Use the system C preprocessor (cc -E) instead of the internal one")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace include/macro activity to stderr")

	return rootCmd
}

func buildOptions() *preproc.Options {
	opts := &preproc.Options{
		IncludePaths: includePaths,
		SystemPaths:  systemPaths,
		Defines:      make(map[string]string),
		Undefines:    undefineFlags,
		UseExternal:  useExternalPP,
		LineMarkers:  lineMarkers,
	}
	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			opts.Defines[d[:idx]] = d[idx+1:]
		} else {
			opts.Defines[d] = ""
		}
	}
	return opts
}

func doPreprocess(filename string, out, errOut io.Writer) error {
	opts := buildOptions()
	opts.Tracer = trace.New(errOut, verbose)

	content, err := preproc.Preprocess(filename, opts)
	if err != nil {
		fmt.Fprintf(errOut, "cpp: %v\n", err)
		return err
	}
	fmt.Fprint(out, content)
	return nil
}
