// Command levelcheck validates custom YAML level layouts before they are
// served: legend and structure via the engine parser, plus reachability
// heuristics a bare parse cannot catch (fruit walled off from the players,
// ice-locked fruit with no unfreezer on the roster).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/frostpaw/icechase/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:      "levelcheck",
		Usage:     "validate level layout files",
		ArgsUsage: "[file-or-directory ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print layout statistics for valid levels",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("levelcheck failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectLayoutFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no layout files found under %s", strings.Join(paths, ", "))
	}

	failed := 0
	for _, file := range files {
		problems := checkFile(file, cmd.Bool("summary"))
		if len(problems) == 0 {
			fmt.Printf("OK   %s\n", file)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", file)
		for _, p := range problems {
			fmt.Printf("     - %s\n", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d layout files invalid", failed, len(files))
	}
	return nil
}

// collectLayoutFiles expands the arguments into YAML layout files.
func collectLayoutFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
				continue
			}
			files = append(files, filepath.Join(path, name))
		}
	}
	return files, nil
}

// checkFile runs every check on one layout file and returns the problems
// found. An empty result means the layout is servable.
func checkFile(path string, summary bool) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read failed: %v", err)}
	}

	var layout engine.Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return []string{fmt.Sprintf("not valid YAML: %v", err)}
	}
	if err := layout.Parse(); err != nil {
		return []string{err.Error()}
	}

	problems := checkReachability(&layout)
	if summary && len(problems) == 0 {
		printSummary(&layout)
	}
	return problems
}

// checkReachability builds the board once and verifies every fruit can be
// reached from the host start. Fruit behind ice is an error only when the
// roster has no unfreezer to open the way.
func checkReachability(layout *engine.Layout) []string {
	board, err := engine.NewBoard(layout.Clone(), "host", "guest", nil)
	if err != nil {
		return []string{fmt.Sprintf("board construction failed: %v", err)}
	}

	hasUnfreezer := false
	for _, spawn := range layout.Enemies() {
		if spawn.Kind == engine.KindAreaUnfreezer || spawn.Kind == engine.KindLineUnfreezer {
			hasUnfreezer = true
		}
	}

	var problems []string
	for _, at := range layout.Fruits() {
		cell := board.CellAt(at.X, at.Y)
		paths := board.PlayersPaths(cell, false)
		if paths.Host.Found || paths.Guest.Found {
			continue
		}
		iceAware := board.PlayersPaths(cell, true)
		if !iceAware.Host.Found && !iceAware.Guest.Found {
			problems = append(problems, fmt.Sprintf("fruit at (%d,%d) is walled off from both players", at.X, at.Y))
			continue
		}
		if !hasUnfreezer {
			problems = append(problems, fmt.Sprintf("fruit at (%d,%d) is ice-locked and no unfreezer is on the roster", at.X, at.Y))
		}
	}
	return problems
}

func printSummary(layout *engine.Layout) {
	kinds := make(map[engine.EnemyKind]int)
	for _, spawn := range layout.Enemies() {
		kinds[spawn.Kind]++
	}
	fmt.Printf("     level %d %q: %dx%d, %d fruits x %d rounds, %d frozen cells, enemies %v\n",
		layout.Level, layout.Name, layout.Width(), layout.Height(),
		len(layout.Fruits()), len(layout.FruitTypes), len(layout.FrozenCells()), kinds)
}
