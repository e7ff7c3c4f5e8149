package main

import (
	"fmt"

	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/session"
	"github.com/spf13/cobra"
)

var (
	initWidth              int32
	initHeight             int32
	initSnapSize           int32
	initSmallSizeThreshold int32
	initLargeSizeThreshold int32
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if initWidth <= 0 || initHeight <= 0 {
			return failValidation(fmt.Errorf("--width and --height must be positive"))
		}
		options := atlas.Options{
			SnapSize:           initSnapSize,
			SmallSizeThreshold: initSmallSizeThreshold,
			LargeSizeThreshold: initLargeSizeThreshold,
		}
		s := session.New(geom.Sz(initWidth, initHeight), options)
		return saveSession(s)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Int32Var(&initWidth, "width", 1024, "default texture width")
	initCmd.Flags().Int32Var(&initHeight, "height", 1024, "default texture height")
	initCmd.Flags().Int32Var(&initSnapSize, "snap", atlas.DefaultOptions.SnapSize, "round requested sizes up to a multiple of this many pixels")
	initCmd.Flags().Int32Var(&initSmallSizeThreshold, "small-size", atlas.DefaultOptions.SmallSizeThreshold, "free rectangles below this size are bucketed as small")
	initCmd.Flags().Int32Var(&initLargeSizeThreshold, "large-size", atlas.DefaultOptions.LargeSizeThreshold, "free rectangles at or above this size are bucketed as large")
}
