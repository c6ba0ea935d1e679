// Command gqlc generates typed GraphQL client artifacts from a project file:
// operation and fragment definitions, a document registry, a fragment-masking
// surface, a persisted-operation manifest and a re-export index.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/syssam/gqlc/compiler"
	"github.com/syssam/gqlc/compiler/gen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gqlc",
		Short:         "Typed GraphQL client artifact generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		cfgPath string
		watch   bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one generation, or keep regenerating with --watch",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetFormatter(&logrus.JSONFormatter{})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if watch {
				return compiler.Watch(cmd.Context(), cfgPath, log, gen.WithLogger(log))
			}
			if err := compiler.Generate(cmd.Context(), cfgPath, gen.WithLogger(log)); err != nil {
				return err
			}
			log.Info("generation complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "gqlc.yml", "project file to generate from")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever an input file changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
