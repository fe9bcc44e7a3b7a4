// Query commands: workshift, roll, count and worktime.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/timeboard"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// dutyFlags are the schedule and duty selectors shared by query commands.
type dutyFlags struct {
	schedule string
	duty     string
}

func (f *dutyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.schedule, "schedule", "", "schedule name (default: the timeboard's default schedule)")
	cmd.Flags().StringVar(&f.duty, "duty", types.DutyOn.String(), "duty: on, off or any")
}

func (f *dutyFlags) resolve(tb *timeboard.Timeboard) (*timeboard.Schedule, types.Duty, error) {
	d, err := types.ParseDuty(f.duty)
	if err != nil {
		return nil, 0, err
	}
	if f.schedule == "" {
		return tb.DefaultSchedule(), d, nil
	}
	s, err := tb.Schedule(f.schedule)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %q", err, f.schedule)
	}
	return s, d, nil
}

// rangeFlags select an interval; both empty means the whole timeboard.
type rangeFlags struct {
	from string
	to   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "interval start (default: timeboard start)")
	cmd.Flags().StringVar(&f.to, "to", "", "interval end, inclusive (default: timeboard end)")
}

func (f *rangeFlags) interval(tb *timeboard.Timeboard, s *timeboard.Schedule) (*timeboard.Interval, error) {
	if f.from == "" && f.to == "" {
		return tb.FullInterval(timeboard.WithSchedule(s))
	}
	a, b := tb.Start(), tb.End()
	var err error
	if f.from != "" {
		if a, err = calendar.ParseTime(f.from); err != nil {
			return nil, err
		}
	}
	if f.to != "" {
		if b, err = calendar.ParseTime(f.to); err != nil {
			return nil, err
		}
	}
	return tb.Interval(a, b, timeboard.WithSchedule(s))
}

func (a *app) newWorkshiftCmd() *cobra.Command {
	var schedule string
	cmd := &cobra.Command{
		Use:   "workshift <definition> <time>",
		Short: "Show the workshift containing an instant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := a.loadBoard(args[0])
			if err != nil {
				return err
			}
			df := dutyFlags{schedule: schedule, duty: types.DutyOn.String()}
			s, _, err := df.resolve(tb)
			if err != nil {
				return err
			}
			t, err := calendar.ParseTime(args[1])
			if err != nil {
				return err
			}
			ws, err := tb.Workshift(t)
			if err != nil {
				return err
			}
			ws = ws.WithSchedule(s)
			return a.emit(cmd, newWorkshiftView(ws), workshiftText(ws))
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "schedule name (default: the timeboard's default schedule)")
	return cmd
}

func (a *app) newRollCmd() *cobra.Command {
	var (
		df    dutyFlags
		steps int
		back  bool
	)
	cmd := &cobra.Command{
		Use:   "roll <definition> <time>",
		Short: "Step over workshifts with a given duty",
		Long: "Find the first workshift with the requested duty at or after the\n" +
			"workshift containing <time> (at or before it with --back), then step\n" +
			"--steps workshifts of that duty further in the same direction.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := a.loadBoard(args[0])
			if err != nil {
				return err
			}
			s, d, err := df.resolve(tb)
			if err != nil {
				return err
			}
			t, err := calendar.ParseTime(args[1])
			if err != nil {
				return err
			}
			ws, err := tb.Workshift(t)
			if err != nil {
				return err
			}
			ws = ws.WithSchedule(s)
			if back {
				ws, err = ws.Rollback(steps, d)
			} else {
				ws, err = ws.Rollforward(steps, d)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("rolled", "from", t, "steps", steps, "duty", d, "back", back, "loc", ws.Loc())
			return a.emit(cmd, newWorkshiftView(ws), workshiftText(ws))
		},
	}
	df.register(cmd)
	cmd.Flags().IntVar(&steps, "steps", 0, "number of workshifts to step over")
	cmd.Flags().BoolVar(&back, "back", false, "roll back in time")
	return cmd
}

func (a *app) newCountCmd() *cobra.Command {
	var (
		df  dutyFlags
		rf  rangeFlags
		per string
	)
	cmd := &cobra.Command{
		Use:   "count <definition>",
		Short: "Count workshifts or calendar periods in an interval",
		Long: "Count the workshifts with the requested duty in the interval. With\n" +
			"--per FREQ, count calendar periods instead: each period contributes\n" +
			"the share of its workshifts with the duty that fall in the interval.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := a.loadBoard(args[0])
			if err != nil {
				return err
			}
			s, d, err := df.resolve(tb)
			if err != nil {
				return err
			}
			iv, err := rf.interval(tb, s)
			if err != nil {
				return err
			}
			v := amountView{Interval: iv.String(), Duty: d.String(), Per: per}
			if per == "" {
				v.Value = float64(iv.Count(d))
			} else {
				f, err := calendar.ParseFreq(per)
				if err != nil {
					return err
				}
				if v.Value, err = iv.CountPeriods(f, d); err != nil {
					return err
				}
			}
			return a.emit(cmd, v, formatAmount(v.Value))
		},
	}
	df.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVar(&per, "per", "", "calendar frequency to count (e.g. M, W, A)")
	return cmd
}

func (a *app) newWorktimeCmd() *cobra.Command {
	var (
		df dutyFlags
		rf rangeFlags
	)
	cmd := &cobra.Command{
		Use:   "worktime <definition>",
		Short: "Sum the work time of workshifts in an interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := a.loadBoard(args[0])
			if err != nil {
				return err
			}
			s, d, err := df.resolve(tb)
			if err != nil {
				return err
			}
			iv, err := rf.interval(tb, s)
			if err != nil {
				return err
			}
			wt, err := iv.Worktime(d)
			if err != nil {
				return err
			}
			v := amountView{Interval: iv.String(), Duty: d.String(), Value: wt}
			return a.emit(cmd, v, formatAmount(wt))
		},
	}
	df.register(cmd)
	rf.register(cmd)
	return cmd
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
