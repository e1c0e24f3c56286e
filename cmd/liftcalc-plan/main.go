package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftcalc/internal/calc"
	"github.com/claude/liftcalc/internal/config"
	"github.com/claude/liftcalc/internal/export"
	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "optional YAML file with a training section")
	out := flag.String("out", "", "output .xlsx path (default liftcalc-cycle-N.xlsx)")
	cycle := flag.Int("cycle", 1, "cycle number")
	oneRepMax := flag.Bool("1rm", false, "treat the given weights as tested maxes and derive training maxes")
	version := flag.Bool("version", false, "print version and exit")

	maxes := make(map[models.Lift]*float64, len(models.MainLifts))
	for _, lift := range models.MainLifts {
		maxes[lift] = flag.Float64(string(lift), 0, lift.DisplayName()+" training max")
	}
	flag.Parse()

	if *version {
		fmt.Println("liftcalc-plan", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tc, err := config.LoadTraining(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	settings := program.SettingsFromConfig(tc)

	tms := make(map[models.Lift]float64)
	for lift, v := range maxes {
		if *v <= 0 {
			continue
		}
		tm := *v
		if *oneRepMax {
			tm = calc.TrainingMaxFromOneRepMax(tm, settings.Rules.AutoPercent, settings.RoundTo)
		}
		tms[lift] = tm
	}
	if len(tms) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: liftcalc-plan -squat N -bench N -deadlift N -press N [-1rm] [-cycle N] [-out file.xlsx]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("liftcalc-cycle-%d.xlsx", *cycle)
	}

	prog := program.Generate(settings, tms, program.DefaultPlan(*cycle))
	if err := export.WriteWorkbook(prog, path); err != nil {
		log.Error("failed to write workbook", "path", path, "error", err)
		os.Exit(1)
	}
	log.Info("workbook written", "path", path, "cycle", *cycle, "days", len(prog.Days))
}
