package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/timeboard/pkg/timeboard"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// emit writes v as indented JSON in JSON mode and text otherwise.
func (a *app) emit(cmd *cobra.Command, v any, text string) error {
	out := cmd.OutOrStdout()
	if !a.flags.jsonMode {
		_, err := fmt.Fprintln(out, text)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysErr("encode JSON: %w", err)
	}
	return nil
}

type boardView struct {
	ID           string    `json:"id"`
	BaseUnitFreq string    `json:"base_unit_freq"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Workshifts   int       `json:"workshifts"`
	BaseUnits    int       `json:"base_units"`
	OnDuty       int       `json:"on_duty"`
	Schedules    []string  `json:"schedules"`
}

func newBoardView(tb *timeboard.Timeboard) boardView {
	return boardView{
		ID:           tb.ID(),
		BaseUnitFreq: tb.BaseUnitFreq().String(),
		Start:        tb.Start(),
		End:          tb.End(),
		Workshifts:   tb.Len(),
		BaseUnits:    tb.BaseUnits(),
		OnDuty:       tb.DefaultSchedule().Count(types.DutyOn),
		Schedules:    tb.Schedules(),
	}
}

func (v boardView) text() string {
	return fmt.Sprintf("  id:         %s\n  base unit:  %s\n  workshifts: %d (%d on duty)\n  base units: %d\n  schedules:  %s",
		v.ID, v.BaseUnitFreq, v.Workshifts, v.OnDuty, v.BaseUnits, strings.Join(v.Schedules, ", "))
}

type workshiftView struct {
	Loc      int         `json:"loc"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Duration int         `json:"duration"`
	Label    types.Label `json:"label"`
	OnDuty   bool        `json:"on_duty"`
	Schedule string      `json:"schedule"`
}

func newWorkshiftView(ws timeboard.Workshift) workshiftView {
	return workshiftView{
		Loc:      ws.Loc(),
		Start:    ws.Start(),
		End:      ws.End(),
		Duration: ws.Duration(),
		Label:    ws.Label(),
		OnDuty:   ws.IsOnDuty(),
		Schedule: ws.Schedule().Name(),
	}
}

func workshiftText(ws timeboard.Workshift) string {
	duty := "off"
	if ws.IsOnDuty() {
		duty = "on"
	}
	return fmt.Sprintf("%s\n  start: %s\n  end:   %s\n  label: %v\n  duty:  %s",
		ws, ws.Start().Format(timeLayout), ws.End().Format(timeLayout), ws.Label(), duty)
}

type amountView struct {
	Interval string  `json:"interval"`
	Duty     string  `json:"duty"`
	Per      string  `json:"per,omitempty"`
	Value    float64 `json:"value"`
}
