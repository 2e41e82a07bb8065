package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	config "corhyn.com/corhyn/internal/configs"
	"corhyn.com/corhyn/internal/render"
	"corhyn.com/corhyn/internal/services"
	"corhyn.com/corhyn/internal/validators"
)

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Start a Pomodoro timer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logFile, err := loadConfig()
		if err != nil {
			return err
		}
		defer logFile.Close()

		minutes, _ := cmd.Flags().GetInt("minutes")
		cycles, _ := cmd.Flags().GetInt("cycles")
		if cmd.Flags().Changed("minutes") {
			if err := validators.ValidateMinutes(minutes); err != nil {
				return err
			}
		}
		if err := validators.ValidateCycles(cycles); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		interactive := isTerminal(out)

		timer := services.NewPomodoroService(pomodoroSettings(cfg), announce(out, interactive), progressPrinter(out, interactive))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings := timer.Settings()
		work := settings.Work
		if minutes > 0 {
			work = time.Duration(minutes) * time.Minute
		}
		render.Panel(out, "Pomodoro", fmt.Sprintf("work %s, short break %s, long break %s\nlong break every %d sessions. Press Ctrl+C to stop.",
			render.Clock(work), render.Clock(settings.ShortBreak), render.Clock(settings.LongBreak), settings.CycleLength))

		summary, err := timer.Run(ctx, services.RunOptions{Work: work, Cycles: cycles})
		if interactive {
			fmt.Fprintln(out)
		}
		if errors.Is(err, context.Canceled) {
			render.Warn(out, "Pomodoro stopped.")
			return nil
		}
		if err != nil {
			return err
		}

		render.Success(out, "Pomodoro finished: %d work sessions, %d cycles.", summary.WorkSessions, summary.Cycles)
		return nil
	},
}

func pomodoroSettings(cfg config.Config) services.PomodoroSettings {
	return services.PomodoroSettings{
		Work:        time.Duration(cfg.Pomodoro.WorkMinutes) * time.Minute,
		ShortBreak:  time.Duration(cfg.Pomodoro.ShortBreakMinutes) * time.Minute,
		LongBreak:   time.Duration(cfg.Pomodoro.LongBreakMinutes) * time.Minute,
		CycleLength: cfg.Pomodoro.CycleLength,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var phaseTitles = map[services.Phase]string{
	services.PhaseWorking:    "Work time",
	services.PhaseShortBreak: "Short break",
	services.PhaseLongBreak:  "Long break",
}

func announce(out io.Writer, interactive bool) services.Notifier {
	return func(t services.Transition) {
		title, ok := phaseTitles[t.To]
		if !ok {
			return
		}
		if interactive {
			fmt.Fprintln(out)
		}
		render.Panel(out, "", render.SuccessText("%s! (session %d, cycle %d)", title, t.Session, t.Cycle))

		// the first work phase starts right away, no need to ring
		if t.From != services.PhaseIdle {
			go playSound()
		}
	}
}

// progressPrinter rewrites one line in place on a terminal and prints a line
// per elapsed minute otherwise.
func progressPrinter(out io.Writer, interactive bool) services.ProgressFunc {
	return func(p services.Progress) {
		if interactive {
			fmt.Fprintf(out, "\r%s %s remaining ", phaseTitles[p.Phase], render.Clock(p.Remaining))
			return
		}
		if p.Elapsed > 0 && p.Elapsed%time.Minute == 0 {
			fmt.Fprintf(out, "%s: %s remaining\n", phaseTitles[p.Phase], render.Clock(p.Remaining))
		}
	}
}

var soundCommands = [][]string{
	{"paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"},
	{"afplay", "/System/Library/Sounds/Glass.aiff"},
	{"spd-say", "time is up"},
}

func playSound() {
	for _, c := range soundCommands {
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		if err := exec.Command(c[0], c[1:]...).Run(); err != nil {
			log.Debug().Err(err).Str("player", c[0]).Msg("notification sound failed")
			continue
		}
		return
	}
}

func init() {
	pomodoroCmd.Flags().IntP("minutes", "m", 0, "Work session length in minutes (defaults to config)")
	pomodoroCmd.Flags().Int("cycles", 0, "Stop after this many complete cycles (0 runs until interrupted)")

	rootCmd.AddCommand(pomodoroCmd)
}
