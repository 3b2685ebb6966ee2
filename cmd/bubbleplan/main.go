package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bubbleplan",
		Short: "Bubble-diagram floor plan geometry and layout engine",
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(sceneCmd())
	rootCmd.AddCommand(arrangeCmd())
	rootCmd.AddCommand(declutterCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate plan.yaml without running any layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func sceneCmd() *cobra.Command {
	var floor string
	cmd := &cobra.Command{
		Use:   "scene [project-path]",
		Short: "Print the 2D scene JSON with space paths and zone outlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(args[0], floorFlag(cmd, floor))
		},
	}
	cmd.Flags().StringVarP(&floor, "floor", "f", "", "only include this floor")
	return cmd
}

func arrangeCmd() *cobra.Command {
	var (
		floor  string
		margin float64
		write  bool
	)
	cmd := &cobra.Command{
		Use:   "arrange [project-path]",
		Short: "Place spaces without overlap along a spiral, grouped by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := -1.0
			if cmd.Flags().Changed("margin") {
				m = margin
			}
			return runArrange(args[0], floorFlag(cmd, floor), m, write)
		},
	}
	cmd.Flags().StringVarP(&floor, "floor", "f", "", "only arrange this floor")
	cmd.Flags().Float64VarP(&margin, "margin", "m", 0, "spacing margin (default from plan settings)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to plan.yaml")
	return cmd
}

func declutterCmd() *cobra.Command {
	var (
		floor string
		ticks int
		write bool
	)
	cmd := &cobra.Command{
		Use:   "declutter [project-path]",
		Short: "Run declutter ticks until the layout rests or the tick budget runs out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeclutter(args[0], floorFlag(cmd, floor), ticks, write)
		},
	}
	cmd.Flags().StringVarP(&floor, "floor", "f", "", "only declutter this floor")
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 500, "maximum number of ticks")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to plan.yaml")
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		floor  string
		out    string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "preview [project-path]",
		Short: "Render a floor to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(args[0], floorFlag(cmd, floor), out, width, height)
		},
	}
	cmd.Flags().StringVarP(&floor, "floor", "f", "", "floor to render (default: first floor)")
	cmd.Flags().StringVarP(&out, "output", "o", "preview.png", "output file")
	cmd.Flags().IntVar(&width, "width", 800, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "image height in pixels")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server for interactive editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(args[0], port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}

// floorFlag returns nil when --floor was not given, so callers can tell "all
// floors" apart from the unnamed floor.
func floorFlag(cmd *cobra.Command, floor string) *string {
	if !cmd.Flags().Changed("floor") {
		return nil
	}
	return &floor
}
