package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/khalidghaith/SOAP-sub000/internal/server"
	"github.com/khalidghaith/SOAP-sub000/pkg/arrange"
	"github.com/khalidghaith/SOAP-sub000/pkg/declutter"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/raster"
	"github.com/khalidghaith/SOAP-sub000/pkg/scene2d"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/validation"
)

// loadAndValidate loads the plan and runs schema validation.
func loadAndValidate(projectPath string) (*project.Project, *validation.Report, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading plan: %w", err)
	}
	return p, validation.ValidateProject(p), nil
}

// loadValid loads the plan and refuses to continue on validation errors.
func loadValid(projectPath string) (*project.Project, error) {
	p, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		printValidationReport(report)
		return nil, fmt.Errorf("plan has validation errors")
	}
	return p, nil
}

// selectSpaces splits the plan into the spaces to work on and the rest.
func selectSpaces(p *project.Project, floor *string) (selected, rest []space.Space) {
	for _, s := range p.Spaces() {
		if floor == nil || s.Floor == *floor {
			selected = append(selected, s)
		} else {
			rest = append(rest, s)
		}
	}
	return selected, rest
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runScene(projectPath string, floor *string) error {
	p, err := loadValid(projectPath)
	if err != nil {
		return err
	}
	spaces, _ := selectSpaces(p, floor)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(scene2d.Assemble(p, spaces))
}

func runArrange(projectPath string, floor *string, margin float64, write bool) error {
	p, err := loadValid(projectPath)
	if err != nil {
		return err
	}
	opts := p.Settings.ArrangeOptions()
	if margin >= 0 {
		opts.Margin = margin
	}

	before, rest := selectSpaces(p, floor)
	after, unplaced := arrange.ArrangeWith(before, opts)
	printMoves(before, after)

	report := validation.Unplaced(unplaced)
	if len(report.Warnings) > 0 {
		fmt.Println()
		printValidationReport(report)
	}
	if !write {
		return nil
	}
	return save(projectPath, p, append(after, rest...))
}

func runDeclutter(projectPath string, floor *string, maxTicks int, write bool) error {
	p, err := loadValid(projectPath)
	if err != nil {
		return err
	}
	before, rest := selectSpaces(p, floor)

	current := before
	ticks := 0
	rested := false
	for ticks < maxTicks {
		next, changed := declutter.Tick(current, p.Settings.Declutter)
		if !changed {
			rested = true
			break
		}
		current = next
		ticks++
	}
	printMoves(before, current)
	fmt.Println()
	if rested {
		fmt.Printf("Layout at rest after %d ticks\n", ticks)
	} else {
		fmt.Printf("Stopped after %d ticks; layout still moving\n", ticks)
	}
	if !write {
		return nil
	}
	return save(projectPath, p, append(current, rest...))
}

func runPreview(projectPath string, floor *string, out string, width, height int) error {
	p, err := loadValid(projectPath)
	if err != nil {
		return err
	}
	if floor == nil && len(p.Floors) > 0 {
		first := p.Floors[0].Name
		floor = &first
	}
	spaces, _ := selectSpaces(p, floor)

	opts := raster.DefaultOptions()
	opts.Width, opts.Height = width, height

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := raster.RenderPNG(f, p, spaces, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s (%d spaces)\n", out, len(spaces))
	return nil
}

func runServe(projectPath string, port int) error {
	srv, err := server.New(projectPath, port)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func save(projectPath string, p *project.Project, spaces []space.Space) error {
	p.SetSpaces(spaces)
	path := filepath.Join(projectPath, project.FileName)
	if err := project.Save(path, p); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
