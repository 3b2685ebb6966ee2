package main

import (
	"fmt"

	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.Path, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.Path)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	if res.ConflictWith != "" {
		fmt.Printf("    conflicts with: %s\n", res.ConflictWith)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

// printMoves lists each space's origin before and after a layout pass.
// before and after are matched by position.
func printMoves(before, after []space.Space) {
	fmt.Printf("%-24s %-12s %-8s %10s %20s %20s\n",
		"Space", "Category", "Floor", "Area", "From", "To")
	fmt.Printf("%-24s %-12s %-8s %10s %20s %20s\n",
		"------------------------", "------------", "--------", "----------", "--------------------", "--------------------")

	moved := 0
	for i, a := range after {
		b := before[i]
		if a.Origin != b.Origin {
			moved++
		}
		fmt.Printf("%-24s %-12s %-8s %10s %20s %20s\n",
			truncate(a.ID, 24), truncate(a.Category, 12), truncate(a.Floor, 8),
			formatArea(a.Area()), formatPoint(b.Origin.X, b.Origin.Y), formatPoint(a.Origin.X, a.Origin.Y))
	}
	fmt.Printf("\n%d of %d spaces moved\n", moved, len(after))
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("(%.1f, %.1f)", x, y)
}

func formatArea(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 10_000 {
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
