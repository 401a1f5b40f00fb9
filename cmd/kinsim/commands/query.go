package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lineal/kinsim/db"
	"github.com/lineal/kinsim/display"
	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/query"
)

// QueryCmd queries a stored run.
var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a stored run",
	Long: `Query a stored run.

Queries run against the most recently saved run unless --run selects one.

Examples:
  kinsim query total                 # Population count
  kinsim query decades               # Birth counts per decade
  kinsim query years                 # Birth counts per year
  kinsim query period 1980s          # Births in one decade (or "1983")
  kinsim query duplicates            # Full names carried by 2+ people
  kinsim query runs                  # List stored runs`,
}

var (
	queryRunFlag  string
	queryDBFlag   string
	queryJSONFlag bool
)

var queryTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the total population of a run",
	RunE:  runQueryTotal,
}

var queryDecadesCmd = &cobra.Command{
	Use:   "decades",
	Short: "Show birth counts per decade",
	RunE:  runQueryDecades,
}

var queryYearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Show birth counts per year",
	RunE:  runQueryYears,
}

var queryPeriodCmd = &cobra.Command{
	Use:   "period <decade|year>",
	Short: "Show births in one decade (e.g. 1980s) or year (e.g. 1983)",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryPeriod,
}

var queryDuplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Show full names carried by two or more people",
	RunE:  runQueryDuplicates,
}

var queryRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs, newest first",
	RunE:  runQueryRuns,
}

func init() {
	QueryCmd.PersistentFlags().StringVar(&queryRunFlag, "run", "", "Run ID to query (default: latest)")
	QueryCmd.PersistentFlags().StringVar(&queryDBFlag, "db", "", "Database path (default: configured database.path)")
	QueryCmd.PersistentFlags().BoolVar(&queryJSONFlag, "json", false, "Output results as JSON")

	QueryCmd.AddCommand(queryTotalCmd)
	QueryCmd.AddCommand(queryDecadesCmd)
	QueryCmd.AddCommand(queryYearsCmd)
	QueryCmd.AddCommand(queryPeriodCmd)
	QueryCmd.AddCommand(queryDuplicatesCmd)
	QueryCmd.AddCommand(queryRunsCmd)
}

// resolveRun picks the run named by --run, or the latest stored run.
func resolveRun(ctx context.Context, store *db.Store) (*db.Run, error) {
	if queryRunFlag != "" {
		run, err := store.GetRun(ctx, queryRunFlag)
		if err != nil {
			return nil, errors.Wrapf(err, "run %s", queryRunFlag)
		}
		return run, nil
	}

	run, err := store.LatestRun(ctx)
	if errors.Is(err, db.ErrRunNotFound) {
		return nil, errors.WithHint(err, "generate one first: kinsim generate --save")
	}
	return run, err
}

// withStore opens the database and hands the resolved run to fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *db.Store, run *db.Run) error) error {
	database, err := openDatabase(queryDBFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewStore(database)
	run, err := resolveRun(cmd.Context(), store)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), store, run)
}

func runQueryTotal(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *db.Store, run *db.Run) error {
		total, err := store.TotalPopulation(ctx, run.ID)
		if err != nil {
			return err
		}
		if queryJSONFlag {
			return display.OutputJSON(map[string]any{"run_id": run.ID, "total": total})
		}
		display.RenderTotal(total)
		return nil
	})
}

func runQueryDecades(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *db.Store, run *db.Run) error {
		counts, err := store.CountByDecade(ctx, run.ID)
		if err != nil {
			return err
		}
		if queryJSONFlag {
			return display.OutputJSON(counts)
		}
		display.RenderPeriodCounts("Decade", counts)
		return nil
	})
}

func runQueryYears(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *db.Store, run *db.Run) error {
		counts, err := store.CountByYear(ctx, run.ID)
		if err != nil {
			return err
		}
		if queryJSONFlag {
			return display.OutputJSON(counts)
		}
		display.RenderPeriodCounts("Year", counts)
		return nil
	})
}

// runQueryPeriod rehydrates the run and answers through the in-memory
// engine, which owns the decade/year period parsing.
func runQueryPeriod(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *db.Store, run *db.Run) error {
		people, err := store.LoadRun(ctx, run.ID)
		if err != nil {
			return err
		}
		count, err := query.NewEngine(people).CountByPeriod(args[0])
		if err != nil {
			return err
		}
		if queryJSONFlag {
			return display.OutputJSON(query.PeriodCount{Period: args[0], Count: count})
		}
		pterm.Success.Printf("%d people were born in %s\n", count, args[0])
		return nil
	})
}

func runQueryDuplicates(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, store *db.Store, run *db.Run) error {
		dups, err := store.DuplicateNames(ctx, run.ID)
		if err != nil {
			return err
		}
		if queryJSONFlag {
			if dups == nil {
				dups = []query.NameCount{}
			}
			return display.OutputJSON(dups)
		}
		display.RenderDuplicates(dups)
		return nil
	})
}

func runQueryRuns(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(queryDBFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := db.NewStore(database).Runs(cmd.Context())
	if err != nil {
		return err
	}
	if queryJSONFlag {
		if runs == nil {
			runs = []db.Run{}
		}
		return display.OutputJSON(runs)
	}
	if len(runs) == 0 {
		pterm.Info.Println("No stored runs")
		return nil
	}

	data := pterm.TableData{{"Run ID", "Seed", "Population", "Created"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Population),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
