package main

import (
	"context"
	"fmt"

	rendergraph "github.com/nical/rendergraph"
	"github.com/spf13/cobra"
)

var addRootCmd = &cobra.Command{
	Use:   "root NAME",
	Short: "Mark an existing node as a root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		if err := s.AddRoot(args[0]); err != nil {
			return failValidation(err)
		}

		if _, _, err := s.Build(context.Background(), rendergraph.BuilderOptions{
			Targets: rendergraph.PingPong,
			Culling: true,
			Tracer:  buildTracer(),
		}); err != nil {
			return failValidation(err)
		}

		if err := saveSession(s); err != nil {
			return err
		}
		fmt.Printf("%q is now a root\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addRootCmd)
}
