package main

import (
	"context"
	"fmt"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
	"github.com/spf13/cobra"
)

var (
	nodeName         string
	nodeDeps         []string
	nodeTarget       string
	nodeTaskKind     string
	nodeRenderID     uint64
	nodeWidth        int32
	nodeHeight       int32
	nodeFixedTexture uint32
	nodeFixedX       int32
	nodeFixedY       int32
	nodeIsRoot       bool
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Add a node to the session's graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		target, err := parseTargetKind(nodeTarget)
		if err != nil {
			return failValidation(err)
		}
		task, err := parseTaskIdentity(nodeTaskKind, nodeRenderID)
		if err != nil {
			return failValidation(err)
		}
		if nodeWidth <= 0 || nodeHeight <= 0 {
			return failValidation(fmt.Errorf("--width and --height must be positive"))
		}

		alloc := rendergraph.DynamicAlloc()
		if cmd.Flags().Changed("fixed-texture") {
			alloc = rendergraph.FixedAlloc(texalloc.TextureID(nodeFixedTexture), geom.Pt(nodeFixedX, nodeFixedY))
		}

		id, name, err := s.AddNode(nodeName, task, target, geom.Sz(nodeWidth, nodeHeight), alloc, nodeDeps)
		if err != nil {
			return failValidation(err)
		}
		if nodeIsRoot {
			if err := s.AddRoot(name); err != nil {
				return failValidation(err)
			}
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
		fmt.Printf("added node %q (id %d)\n", name, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.Flags().StringVar(&nodeName, "name", "", "node name (auto-generated if omitted)")
	nodeCmd.Flags().StringSliceVar(&nodeDeps, "deps", nil, "comma-separated names of this node's dependencies")
	nodeCmd.Flags().StringVar(&nodeTarget, "target", "color", "target kind: color or alpha")
	nodeCmd.Flags().StringVar(&nodeTaskKind, "task", "render", "task kind: blit or render")
	nodeCmd.Flags().Uint64Var(&nodeRenderID, "render-id", 0, "caller-opaque id carried by a render task")
	nodeCmd.Flags().Int32Var(&nodeWidth, "width", 0, "node output width")
	nodeCmd.Flags().Int32Var(&nodeHeight, "height", 0, "node output height")
	nodeCmd.Flags().Uint32Var(&nodeFixedTexture, "fixed-texture", 0, "pin this node to an existing texture id instead of letting the builder pick one")
	nodeCmd.Flags().Int32Var(&nodeFixedX, "fixed-x", 0, "origin x within --fixed-texture")
	nodeCmd.Flags().Int32Var(&nodeFixedY, "fixed-y", 0, "origin y within --fixed-texture")
	nodeCmd.Flags().BoolVar(&nodeIsRoot, "root", false, "mark the new node as a root immediately")
}

func parseTargetKind(s string) (rendergraph.TargetKindTag, error) {
	switch s {
	case "color":
		return rendergraph.Color, nil
	case "alpha":
		return rendergraph.Alpha, nil
	default:
		return 0, fmt.Errorf("invalid --target %q (want color or alpha)", s)
	}
}

func parseTaskIdentity(kind string, renderID uint64) (rendergraph.TaskIdentity, error) {
	switch kind {
	case "blit":
		return rendergraph.BlitTask(), nil
	case "render":
		return rendergraph.RenderTask(renderID), nil
	default:
		return rendergraph.TaskIdentity{}, fmt.Errorf("invalid --task %q (want blit or render)", kind)
	}
}
