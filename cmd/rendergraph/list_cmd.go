package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the session's named nodes and roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(s.Names))
		for name := range s.Names {
			names = append(names, name)
		}
		sort.Strings(names)

		roots := make(map[uint32]bool, len(s.Graph.Roots()))
		for _, id := range s.Graph.Roots() {
			roots[uint32(id)] = true
		}

		fmt.Println("nodes:")
		for _, name := range names {
			id := s.Names[name]
			marker := ""
			if roots[uint32(id)] {
				marker = " (root)"
			}
			fmt.Printf("  %s -> %d%s\n", name, id, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
