package main

import (
	"context"
	"fmt"

	rendergraph "github.com/nical/rendergraph"
	"github.com/spf13/cobra"
)

var (
	buildTargets string
	buildCulling bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the builder pipeline against the session's graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		strategy, err := parseTargetStrategy(buildTargets)
		if err != nil {
			return failValidation(err)
		}

		built, _, err := s.Build(context.Background(), rendergraph.BuilderOptions{
			Targets: strategy,
			Culling: buildCulling,
			Tracer:  buildTracer(),
		})
		if err != nil {
			return failValidation(err)
		}

		if err := saveSession(s); err != nil {
			return err
		}
		fmt.Printf("built %d pass(es)\n", len(built.Passes()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildTargets, "targets", "pingpong", "target assignment strategy: direct or pingpong")
	buildCmd.Flags().BoolVar(&buildCulling, "culling", true, "cull nodes unreachable from any root before scheduling")
}

func parseTargetStrategy(s string) (rendergraph.TargetStrategy, error) {
	switch s {
	case "direct":
		return rendergraph.Direct, nil
	case "pingpong":
		return rendergraph.PingPong, nil
	default:
		return 0, fmt.Errorf("invalid --targets %q (want direct or pingpong)", s)
	}
}
