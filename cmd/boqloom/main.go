package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joshharrison/boqloom/internal/boq"
	"github.com/joshharrison/boqloom/internal/claude"
	"github.com/joshharrison/boqloom/internal/config"
	"github.com/joshharrison/boqloom/internal/reporter"
	"github.com/joshharrison/boqloom/internal/rules"
	"github.com/joshharrison/boqloom/internal/schedule"
	"github.com/joshharrison/boqloom/internal/ui"
	"github.com/joshharrison/boqloom/internal/viewer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagJSON     bool
	flagVerbose  bool
	flagRules    string
	flagSelector string
	flagOutput   string
	flagFormat   string
	flagLevel    string
	flagPhases   []string
	flagAI       bool
	flagModel    string
	flagPort     int
)

// flagKeys maps command-line flags onto config keys. Only flags the running
// command defines are bound.
var flagKeys = map[string]string{
	"start":         "schedule.start_date",
	"working-days":  "schedule.working_days_per_week",
	"hours-per-day": "schedule.working_hours_per_day",
	"months":        "schedule.duration_months",
	"buffers":       "schedule.include_buffers",
	"buffer-pct":    "schedule.buffer_percentage",
	"weekend":       "calendar.weekend",
	"rules":         "rules.file",
	"selector":      "input.selector",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boqloom",
		Short: "Turn a bill of quantities into a construction schedule",
		Long: `Boqloom classifies bill-of-quantities items into construction phases,
sizes each one from productivity rates, lays the work out on a Gulf
working-week calendar and marks the critical path.

Settings come from .boqloom.yaml (working directory or $HOME), BOQLOOM_*
environment variables and flags, with flags taking precedence.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default .boqloom.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Ruleset YAML file (default built-in rules)")
	rootCmd.PersistentFlags().StringVar(&flagSelector, "selector", "", "JSON path to the item array inside the input")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// env is everything a command needs after configuration is resolved.
type env struct {
	cfg   *config.Config
	rules *rules.Ruleset
	log   *logrus.Logger
}

// setup loads configuration with cmd's flags bound on top, then the ruleset
// and logger it names.
func setup(cmd *cobra.Command) (*env, error) {
	v := config.New()
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	}
	for name, key := range flagKeys {
		if f := cmd.Flag(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	if flagVerbose {
		v.Set("log.level", "debug")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	log, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		log.WithField("file", cfg.File).Debug("loaded config")
	}

	rs := rules.Default()
	if cfg.Rules.File != "" {
		rs, err = rules.Load(cfg.Rules.File)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		log.WithField("file", cfg.Rules.File).Debug("loaded rules")
	}

	return &env{cfg: cfg, rules: rs, log: log}, nil
}

// loadItems reads BOQ items from the path argument, input.path, or stdin.
func (e *env) loadItems(cmd *cobra.Command, args []string) ([]boq.Item, error) {
	path := e.cfg.Input.Path
	if len(args) > 0 {
		path = args[0]
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open BOQ: %w", err)
		}
		defer f.Close()
		r = f
	}

	items, err := boq.Read(r, e.cfg.Input.Selector)
	if err != nil {
		return nil, err
	}
	e.log.WithField("items", len(items)).Debug("read BOQ")
	return items, nil
}

// generate runs the scheduler over the input with the resolved options.
func (e *env) generate(cmd *cobra.Command, args []string) (*schedule.Result, error) {
	items, err := e.loadItems(cmd, args)
	if err != nil {
		return nil, err
	}
	opts, err := e.cfg.ScheduleOptions()
	if err != nil {
		return nil, err
	}
	s, err := schedule.New(e.rules, schedule.WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	return s.Generate(items, opts)
}

func addScheduleFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Project start date (YYYY-MM-DD)")
	cmd.Flags().Int("working-days", 6, "Working days per week (5, 6 or 7)")
	cmd.Flags().StringSlice("weekend", nil, "Weekend days, overriding --working-days (e.g. fri,sat)")
	cmd.Flags().Float64("hours-per-day", 8, "Working hours per day")
	cmd.Flags().Int("months", 0, "Target project duration in months")
	cmd.Flags().Bool("buffers", false, "Add a schedule buffer to the summary")
	cmd.Flags().Float64("buffer-pct", 10, "Buffer as a percentage of working days")
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [boq.json]",
		Short: "Generate a schedule from BOQ items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res, err := e.generate(cmd, args)
			if err != nil {
				return err
			}
			rpt := reporter.New(res, e.rules)

			if flagOutput != "" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(flagOutput, data, 0644); err != nil {
					return fmt.Errorf("write schedule: %w", err)
				}
				e.log.WithField("file", flagOutput).Info("schedule written")
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			rpt.PrintSchedule(out)
			rpt.PrintSummaryReport(out)
			return nil
		},
	}

	addScheduleFlags(cmd)
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Also save the JSON schedule to file")

	return cmd
}

// classification is one row of the classify report.
type classification struct {
	ItemID      string             `json:"itemId"`
	Description string             `json:"description"`
	Phase       rules.PhaseID      `json:"phase"`
	Matched     bool               `json:"matched"`
	Rate        float64            `json:"rate"`
	RateUnit    string             `json:"rateUnit"`
	RateMatched bool               `json:"rateMatched"`
	Duration    int                `json:"duration"`
	Suggestion  *claude.Suggestion `json:"suggestion,omitempty"`
}

func classifyItems(rs *rules.Ruleset, items []boq.Item) []classification {
	rows := make([]classification, 0, len(items))
	for _, it := range items {
		phase, matched := rs.Match(it.Description)
		est := rs.Estimate(it.Quantity, it.Description)
		rows = append(rows, classification{
			ItemID:      it.ID,
			Description: it.Description,
			Phase:       phase,
			Matched:     matched,
			Rate:        est.Rate.Rate,
			RateUnit:    est.Rate.Unit,
			RateMatched: est.Matched,
			Duration:    est.Days,
		})
	}
	return rows
}

// suggestPhases asks Claude about every row no phase keyword matched.
func suggestPhases(ctx context.Context, client *claude.Client, rs *rules.Ruleset, items []boq.Item, rows []classification) error {
	var pending []claude.ItemSummary
	for i, row := range rows {
		if !row.Matched {
			pending = append(pending, claude.ItemSummary{
				ID:          row.ItemID,
				Description: row.Description,
				Quantity:    items[i].Quantity,
				Unit:        items[i].Unit,
			})
		}
	}
	if len(pending) == 0 {
		return nil
	}

	phases := make([]claude.PhaseSummary, len(rs.Phases))
	for i, p := range rs.Phases {
		phases[i] = claude.PhaseSummary{ID: string(p.ID), Name: p.Name, Keywords: p.Keywords}
	}

	result, err := client.SuggestPhases(ctx, phases, pending)
	if err != nil {
		return fmt.Errorf("suggest phases: %w", err)
	}
	byItem := make(map[string]claude.Suggestion, len(result.Suggestions))
	for _, s := range result.Suggestions {
		byItem[s.ItemID] = s
	}
	for i := range rows {
		if s, ok := byItem[rows[i].ItemID]; ok && !rows[i].Matched {
			rows[i].Suggestion = &s
		}
	}
	return nil
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [boq.json]",
		Short: "Show the phase, rate and duration chosen for each item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			items, err := e.loadItems(cmd, args)
			if err != nil {
				return err
			}
			rows := classifyItems(e.rules, items)

			if flagAI {
				client, err := claude.NewClient("", flagModel)
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
				defer cancel()
				if err := suggestPhases(ctx, client, e.rules, items, rows); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				return outputJSON(out, rows)
			}
			printClassification(out, e.rules, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagAI, "ai", false, "Ask Claude to suggest phases for unmatched items (needs ANTHROPIC_API_KEY)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Claude model for --ai (default "+claude.DefaultModel+")")

	return cmd
}

func printClassification(w io.Writer, rs *rules.Ruleset, rows []classification) {
	fmt.Fprintf(w, "🔎 %s\n", ui.BoldCyan("BOQ Classification"))
	fmt.Fprintln(w, ui.Cyan("══════════════════"))
	fmt.Fprintln(w)

	unmatched := 0
	for _, row := range rows {
		phase := ui.PhasePrefix(string(row.Phase))
		if !row.Matched {
			unmatched++
			phase += ui.Dim(" (default)")
		}
		rate := fmt.Sprintf("%g %s/day", row.Rate, row.RateUnit)
		if !row.RateMatched {
			rate = ui.Dim(rate)
		}
		fmt.Fprintf(w, "  %-40s %s  %s  %s\n",
			ui.Truncate(row.Description, 40), phase, rate, ui.Bold(fmt.Sprintf("%dd", row.Duration)))
		if s := row.Suggestion; s != nil {
			hint := ""
			if s.Keyword != "" {
				hint = fmt.Sprintf(" add keyword %q", s.Keyword)
			}
			fmt.Fprintf(w, "      %s %s%s %s\n", ui.Dim("└──→"), ui.PhasePrefix(s.Phase), ui.Yellow(hint), ui.Dim(s.Reason))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Items:     %d (%d matched no phase keyword, scheduled as %s)\n",
		len(rows), unmatched, rs.PhaseName(rs.DefaultPhase))
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [boq.json]",
		Short: "Print the dependency graph of the generated schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res, err := e.generate(cmd, args)
			if err != nil {
				return err
			}

			view, err := reporter.New(res, e.rules).Graph(reporter.Level(flagLevel))
			if err != nil {
				return err
			}
			phases, err := parsePhases(e.rules, flagPhases)
			if err != nil {
				return err
			}
			if err := view.KeepPhases(phases); err != nil {
				return fmt.Errorf("apply filter: %w", err)
			}

			out := cmd.OutOrStdout()
			switch flagFormat {
			case "dot":
				view.PrintDOT(out)
			case "ascii", "":
				view.PrintASCII(out)
			default:
				return fmt.Errorf("unsupported format %q (use ascii or dot)", flagFormat)
			}
			return nil
		},
	}

	addScheduleFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	cmd.Flags().StringVar(&flagLevel, "level", "tasks", "Graph nodes (tasks, phases)")
	cmd.Flags().StringSliceVar(&flagPhases, "phase", nil, "Only show these phases")

	return cmd
}

// parsePhases checks phase ids against the ruleset.
func parsePhases(rs *rules.Ruleset, names []string) ([]rules.PhaseID, error) {
	ids := make([]rules.PhaseID, 0, len(names))
	for _, n := range names {
		id := rules.PhaseID(strings.TrimSpace(n))
		if _, ok := rs.Phase(id); !ok {
			return nil, fmt.Errorf("unknown phase %q (known: %s)", n, joinIDs(rs.Order()))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func joinIDs(ids []rules.PhaseID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective ruleset as YAML",
		Long: `Prints the phases, keywords, dependencies and productivity rates in use.
Redirect the output to a file, edit it, and pass it back with --rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), e.rules)
			}
			return rules.Write(cmd.OutOrStdout(), e.rules)
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [boq.json]",
		Short: "Serve the generated schedule as JSON over HTTP",
		Long: `Generates the schedule and serves it on GET /schedule and GET /graph.
If a viewer is already listening on the port, the schedule is sent to it
instead and the command exits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res, err := e.generate(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if viewer.IsPortOpen(fmt.Sprintf("localhost:%d", flagPort)) {
				addr := fmt.Sprintf("http://localhost:%d", flagPort)
				if err := viewer.PostSchedule(addr, res); err != nil {
					return err
				}
				fmt.Fprintf(out, "✅ Schedule sent to viewer at %s\n", addr)
				return nil
			}

			addr, srv, err := viewer.Start(flagPort, res)
			if err != nil {
				return err
			}
			ui.PrintLogo(cmd.ErrOrStderr())
			fmt.Fprintf(out, "🌐 Serving %d tasks at %s/schedule and %s/graph\n", len(res.Tasks), addr, addr)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			fmt.Fprintf(cmd.ErrOrStderr(), "\n🛑 %s\n", ui.Yellow("Received interrupt, shutting down..."))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	addScheduleFlags(cmd)
	cmd.Flags().IntVar(&flagPort, "port", 7171, "HTTP port")

	return cmd
}

// --- Output helpers ---

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
