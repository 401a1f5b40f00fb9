package commands

import (
	"bufio"
	"strings"
	"sync/atomic"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lineal/kinsim/catalog"
	"github.com/lineal/kinsim/display"
	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
	"github.com/lineal/kinsim/query"
	"github.com/lineal/kinsim/sim"
)

// ReplCmd runs an interactive query session over a freshly generated tree.
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive query session over a freshly generated tree",
	Long: `Interactive query session over a freshly generated tree.

A tree is generated up front and queried in memory. Editing a catalog
table on disk flags the session stale; 'r' regenerates against the
updated tables.

Commands:
  t              total population
  d              birth counts per decade
  y              birth counts per year
  p <period>     births in one decade (1980s) or year (1983)
  n              duplicate full names
  r              regenerate the tree
  q              quit`,
	RunE: runRepl,
}

var (
	replSeedFlag int64
	replDataFlag string
)

func init() {
	ReplCmd.Flags().Int64Var(&replSeedFlag, "seed", 0, "Generation seed (0 = derive from current time)")
	ReplCmd.Flags().StringVar(&replDataFlag, "data", "", "Catalog table directory (default: configured data.dir)")
}

// replSession holds the current tree and its query engine.
type replSession struct {
	dataDir string
	seed    int64 // 0 keeps every regeneration fresh
	engine  *query.Engine
	stale   atomic.Bool
}

func runRepl(cmd *cobra.Command, args []string) error {
	_, dataDir, err := loadCatalogs(replDataFlag)
	if err != nil {
		return err
	}

	session := &replSession{dataDir: dataDir, seed: replSeedFlag}
	if err := session.regenerate(); err != nil {
		return err
	}

	watcher, err := catalog.NewWatcher(dataDir)
	if err != nil {
		// The session still works without change notifications.
		logger.Warnw("Catalog watcher unavailable", "error", err)
	} else {
		watcher.OnChange(func() {
			session.stale.Store(true)
			pterm.Warning.Println("Catalog tables changed on disk; 'r' regenerates")
		})
		watcher.Start()
		defer watcher.Stop()
	}

	pterm.DefaultHeader.Println("kinsim interactive session")
	pterm.Info.Println("Commands: t(otal) d(ecades) y(ears) p <period> n(ames) r(egenerate) q(uit)")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		pterm.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "failed to read input")
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(strings.ToLower(line))

		switch fields[0] {
		case "t", "total":
			display.RenderTotal(session.engine.TotalPopulation())

		case "d", "decades":
			display.RenderPeriodCounts("Decade", session.engine.CountByDecade())

		case "y", "years":
			display.RenderPeriodCounts("Year", session.engine.CountByYear())

		case "p", "period":
			if len(fields) < 2 {
				pterm.Error.Println("usage: p <decade|year>, e.g. p 1980s")
				continue
			}
			count, err := session.engine.CountByPeriod(fields[1])
			if err != nil {
				pterm.Error.Println(err)
				continue
			}
			pterm.Success.Printf("%d people were born in %s\n", count, fields[1])

		case "n", "names":
			display.RenderDuplicates(session.engine.DuplicateNames())

		case "r", "regenerate":
			if err := session.regenerate(); err != nil {
				pterm.Error.Println(err)
				continue
			}

		case "q", "quit", "exit":
			return nil

		default:
			pterm.Error.Printf("unknown command %q\n", fields[0])
		}

		if session.stale.Load() {
			pterm.Warning.Println("Results reflect the tables as of the last generation")
		}
	}
}

// regenerate reloads the tables and builds a fresh tree.
func (s *replSession) regenerate() error {
	catalogs, err := catalog.LoadDir(s.dataDir)
	if err != nil {
		return err
	}

	opts, err := simOptions(s.seed)
	if err != nil {
		return err
	}

	tree := sim.New(catalogs, opts)
	if err := tree.Build(); err != nil {
		return errors.Wrap(err, "tree generation failed")
	}

	s.engine = query.NewEngine(tree.Population())
	s.stale.Store(false)
	display.RenderSummary(tree.Seed(), tree.Size())
	return nil
}
