// Command plancli generates marathon plans and pace zones from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"alcyxob/marathon-trainer/internal/config"
	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/planner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "plancli",
		Short:         "Marathon training plan generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.yaml with planner overrides")

	root.AddCommand(newZonesCmd())
	root.AddCommand(newGenerateCmd(&configDir))
	return root
}

func loadHeuristics(configDir string) (planner.Heuristics, error) {
	if configDir == "" {
		return planner.DefaultHeuristics(), nil
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return planner.Heuristics{}, err
	}
	return cfg.Planner, nil
}

func newZonesCmd() *cobra.Command {
	var minutes, km float64

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Print VDOT and training pace zones for a recent race",
		RunE: func(cmd *cobra.Command, _ []string) error {
			zr, err := planner.CalculatePaceZones(minutes, km)
			if err != nil {
				return err
			}
			writeZones(cmd.OutOrStdout(), zr)
			return nil
		},
	}
	cmd.Flags().Float64Var(&minutes, "time", 0, "recent race time in minutes")
	cmd.Flags().Float64Var(&km, "distance", 0, "recent race distance in km")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("distance")
	return cmd
}

func newGenerateCmd(configDir *string) *cobra.Command {
	var (
		raceDate      string
		minutes, km   float64
		baseKm, goal  float64
		days          []int
		level, format string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a training plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			race, err := time.Parse("2006-01-02", raceDate)
			if err != nil {
				return fmt.Errorf("--race-date must be YYYY-MM-DD: %w", err)
			}
			h, err := loadHeuristics(*configDir)
			if err != nil {
				return err
			}
			plan, err := planner.NewGenerator(h).GeneratePlan(domain.RunnerProfile{
				Level:         domain.ExperienceLevel(level),
				RaceDate:      race,
				GoalTimeMin:   goal,
				RecentRaceMin: minutes,
				RecentRaceKm:  km,
				RunsPerWeek:   len(days),
				RunDays:       days,
				WeeklyKmBase:  baseKm,
			})
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), plan, format)
		},
	}
	cmd.Flags().StringVar(&raceDate, "race-date", "", "race day (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&minutes, "time", 0, "recent race time in minutes")
	cmd.Flags().Float64Var(&km, "distance", 0, "recent race distance in km")
	cmd.Flags().Float64Var(&baseKm, "base-km", 0, "current weekly volume in km")
	cmd.Flags().Float64Var(&goal, "goal", 0, "goal marathon time in minutes (optional)")
	cmd.Flags().IntSliceVar(&days, "days", nil, "run days, 0=Monday..6=Sunday (3 to 5 values)")
	cmd.Flags().StringVar(&level, "level", string(domain.LevelIntermediate), "beginner|intermediate|advanced")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|yaml|json")
	for _, name := range []string{"race-date", "time", "distance", "days"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func writeZones(out io.Writer, zr planner.ZoneResult) {
	_, _ = fmt.Fprintf(out, "VDOT %.1f, predicted marathon %s\n\n", zr.VDOT, formatMinutes(zr.PredictedMarathonMin))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ZONE\tPACE /km")
	for _, name := range domain.ZonesFastToSlow {
		r := zr.Zones.Get(name)
		_, _ = fmt.Fprintf(tw, "%s\t%s - %s\n", name, formatPace(r.Min), formatPace(r.Max))
	}
	_ = tw.Flush()
}

// planView is the CLI rendering of a plan.
type planView struct {
	VDOT              float64    `json:"vdot" yaml:"vdot"`
	PredictedMarathon string     `json:"predictedMarathon" yaml:"predictedMarathon"`
	PeakWeeklyKm      float64    `json:"peakWeeklyKm" yaml:"peakWeeklyKm"`
	StartDate         string     `json:"startDate" yaml:"startDate"`
	Weeks             []weekView `json:"weeks" yaml:"weeks"`
}

type weekView struct {
	Week     int           `json:"week" yaml:"week"`
	Phase    domain.Phase  `json:"phase" yaml:"phase"`
	Km       float64       `json:"km" yaml:"km"`
	Deload   bool          `json:"deload,omitempty" yaml:"deload,omitempty"`
	Workouts []workoutView `json:"workouts" yaml:"workouts"`
}

type workoutView struct {
	Date    string             `json:"date" yaml:"date"`
	Type    domain.WorkoutType `json:"type" yaml:"type"`
	Title   string             `json:"title" yaml:"title"`
	Km      float64            `json:"km" yaml:"km"`
	Minutes int                `json:"minutes" yaml:"minutes"`
}

func newPlanView(plan *domain.TrainingPlan) planView {
	v := planView{
		VDOT:              plan.VDOT,
		PredictedMarathon: formatMinutes(plan.PredictedMarathonMin),
		PeakWeeklyKm:      plan.PeakWeeklyKm,
		StartDate:         plan.StartDate.Format("2006-01-02"),
	}
	for _, w := range plan.Weeks {
		wv := weekView{Week: w.WeekNumber, Phase: w.Phase, Km: w.TotalDistanceKm, Deload: w.IsDeload}
		for _, wo := range w.Workouts {
			wv.Workouts = append(wv.Workouts, workoutView{
				Date:    wo.Date.Format("Mon 2006-01-02"),
				Type:    wo.Type,
				Title:   wo.Title,
				Km:      wo.TotalDistanceKm,
				Minutes: wo.EstimatedDurationMin,
			})
		}
		v.Weeks = append(v.Weeks, wv)
	}
	return v
}

func writePlan(out io.Writer, plan *domain.TrainingPlan, format string) error {
	view := newPlanView(plan)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, _ = fmt.Fprintf(out, "VDOT %.1f, predicted marathon %s, peak %.0f km/week, start %s\n",
			view.VDOT, view.PredictedMarathon, view.PeakWeeklyKm, view.StartDate)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, w := range view.Weeks {
			deload := ""
			if w.Deload {
				deload = " (deload)"
			}
			_, _ = fmt.Fprintf(tw, "\nWeek %d\t%s%s\t%.0f km\n", w.Week, w.Phase, deload, w.Km)
			for _, wo := range w.Workouts {
				_, _ = fmt.Fprintf(tw, "  %s\t%s\t%.1f km\t~%d min\n", wo.Date, wo.Title, wo.Km, wo.Minutes)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

func formatPace(secPerKm int) string {
	return fmt.Sprintf("%d:%02d", secPerKm/60, secPerKm%60)
}

func formatMinutes(min float64) string {
	total := int(min*60 + 0.5)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
