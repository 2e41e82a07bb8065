package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseWorking    Phase = "working"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

type PomodoroSettings struct {
	Work        time.Duration
	ShortBreak  time.Duration
	LongBreak   time.Duration
	CycleLength int
}

func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		Work:        25 * time.Minute,
		ShortBreak:  5 * time.Minute,
		LongBreak:   15 * time.Minute,
		CycleLength: 4,
	}
}

// Transition is passed to the notifier whenever the timer changes phase.
// Session is the number of the current work session within its cycle.
type Transition struct {
	RunID   string
	From    Phase
	To      Phase
	Session int
	Cycle   int
}

// Progress is reported once per tick while a phase runs.
type Progress struct {
	RunID     string
	Phase     Phase
	Session   int
	Elapsed   time.Duration
	Remaining time.Duration
}

type Notifier func(Transition)

type ProgressFunc func(Progress)

// RunOptions override the settings for one run. Zero Work keeps the
// configured length; zero Cycles runs until the context is cancelled.
type RunOptions struct {
	Work   time.Duration
	Cycles int
}

type RunSummary struct {
	RunID        string
	WorkSessions int
	Cycles       int
}

type tickerFactory func(time.Duration) (<-chan time.Time, func())

// PomodoroService drives the work/break cycle. It keeps no state between
// runs and touches no storage.
type PomodoroService struct {
	settings  PomodoroSettings
	notify    Notifier
	progress  ProgressFunc
	newTicker tickerFactory
}

func NewPomodoroService(settings PomodoroSettings, notify Notifier, progress ProgressFunc) *PomodoroService {
	return &PomodoroService{
		settings:  settings,
		notify:    notify,
		progress:  progress,
		newTicker: systemTicker,
	}
}

func (p *PomodoroService) Settings() PomodoroSettings {
	return p.settings
}

// Run blocks until the requested number of cycles is done or ctx is
// cancelled. Cancellation stops at the next tick and returns ctx.Err().
func (p *PomodoroService) Run(ctx context.Context, opts RunOptions) (RunSummary, error) {
	run := &pomodoroRun{
		service: p,
		summary: RunSummary{RunID: uuid.NewString()},
		phase:   PhaseIdle,
	}

	work := p.settings.Work
	if opts.Work > 0 {
		work = opts.Work
	}

	ticks, stop := p.newTicker(time.Second)
	defer stop()

	logger := log.With().Str("run_id", run.summary.RunID).Logger()
	logger.Info().Dur("work", work).Int("cycle_length", p.settings.CycleLength).Int("cycles", opts.Cycles).Msg("pomodoro started")

	for opts.Cycles == 0 || run.summary.Cycles < opts.Cycles {
		if err := ctx.Err(); err != nil {
			logger.Info().Int("work_sessions", run.summary.WorkSessions).Msg("pomodoro cancelled")
			return run.summary, err
		}

		run.session++
		run.enter(PhaseWorking)
		if err := run.wait(ctx, ticks, work); err != nil {
			logger.Info().Int("work_sessions", run.summary.WorkSessions).Msg("pomodoro cancelled")
			return run.summary, err
		}
		run.summary.WorkSessions++

		breakPhase, length := PhaseShortBreak, p.settings.ShortBreak
		if run.session >= p.settings.CycleLength {
			breakPhase, length = PhaseLongBreak, p.settings.LongBreak
		}

		run.enter(breakPhase)
		if err := run.wait(ctx, ticks, length); err != nil {
			logger.Info().Int("work_sessions", run.summary.WorkSessions).Msg("pomodoro cancelled")
			return run.summary, err
		}

		if breakPhase == PhaseLongBreak {
			run.session = 0
			run.summary.Cycles++
		}
	}

	run.enter(PhaseIdle)
	logger.Info().Int("work_sessions", run.summary.WorkSessions).Int("cycles", run.summary.Cycles).Msg("pomodoro finished")
	return run.summary, nil
}

type pomodoroRun struct {
	service *PomodoroService
	summary RunSummary
	phase   Phase
	session int
}

func (r *pomodoroRun) enter(next Phase) {
	t := Transition{
		RunID:   r.summary.RunID,
		From:    r.phase,
		To:      next,
		Session: r.session,
		Cycle:   r.summary.Cycles + 1,
	}
	r.phase = next

	log.Debug().Str("run_id", t.RunID).Str("from", string(t.From)).Str("to", string(t.To)).Int("session", t.Session).Msg("pomodoro transition")
	if r.service.notify != nil {
		r.service.notify(t)
	}
}

func (r *pomodoroRun) wait(ctx context.Context, ticks <-chan time.Time, length time.Duration) error {
	total := int(length / time.Second)
	if total < 1 {
		total = 1
	}

	for elapsed := 0; elapsed < total; {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			elapsed++
		}

		if r.service.progress != nil {
			r.service.progress(Progress{
				RunID:     r.summary.RunID,
				Phase:     r.phase,
				Session:   r.session,
				Elapsed:   time.Duration(elapsed) * time.Second,
				Remaining: time.Duration(total-elapsed) * time.Second,
			})
		}
	}
	return nil
}

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(d)
	return ticker.C, ticker.Stop
}
