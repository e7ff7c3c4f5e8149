package main

import (
	"context"
	"fmt"
	"os"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/rendersvg"
	"github.com/nical/rendergraph/texalloc"
	"github.com/spf13/cobra"
)

var svgOut string

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Rebuild the session's graph and dump it as an SVG diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		// Always rebuilds fresh with a fixed strategy, mirroring
		// original_source/cli/src/main.rs's svg(): the dump reflects
		// the graph as it stands now, not whatever plan the build
		// subcommand last happened to leave recorded.
		built, allocator, err := s.Build(context.Background(), rendergraph.BuilderOptions{
			Targets: rendergraph.PingPong,
			Culling: true,
			Tracer:  buildTracer(),
		})
		if err != nil {
			return failValidation(err)
		}

		sizer, ok := allocator.(texalloc.TextureSizer)
		if !ok {
			return failValidation(fmt.Errorf("allocator does not support reading back texture sizes"))
		}

		names := make(map[rendergraph.NodeID]string, len(s.Names))
		for name, id := range s.Names {
			names[id] = name
		}

		f, err := os.Create(svgOut)
		if err != nil {
			return failIO(fmt.Errorf("creating %s: %w", svgOut, err))
		}
		defer f.Close()

		rendersvg.Dump(f, built, sizer, names)
		fmt.Printf("wrote %s\n", svgOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(svgCmd)
	svgCmd.Flags().StringVar(&svgOut, "out", "rendergraph.svg", "output SVG file path")
}
