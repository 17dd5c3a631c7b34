package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/stats"
	"github.com/julianstephens/studystreak/internal/utils"
)

var pdfGrid = []uint{2, 2, 1, 1, 4, 2}

// PDF writes a one-table report of the log with streak totals.
func PDF(w io.Writer, state models.AppState, opts Options) error {
	agg := stats.New(state.Logs, opts.location(), opts.Now)

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Study Streak Report", props.Text{
					Size:  16,
					Style: consts.Bold,
					Align: consts.Center,
				})
			})
		})
	})

	summary := fmt.Sprintf("Current streak: %d days | Days logged: %d | Hours studied: %s",
		state.Streak, agg.TotalDistinctDays(), utils.FormatHours(agg.TotalHours()))
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(summary, props.Text{
				Size:  11,
				Align: consts.Center,
			})
		})
	})

	rows := make([][]string, 0, len(state.Logs))
	for _, e := range state.Logs {
		hours := ""
		if e.HasHours() {
			hours = utils.FormatHours(e.Hours())
		}
		tasks := ""
		if len(e.Tasks) > 0 {
			tasks = fmt.Sprintf("%d/%d done", models.CompletedCount(e.Tasks), len(e.Tasks))
		}
		rows = append(rows, []string{
			opts.displayDate(e),
			e.Kind.Label(),
			strconv.Itoa(e.StreakAtLogging),
			hours,
			e.StudyLog,
			tasks,
		})
	}

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Log Entries", props.Text{
				Top:   5,
				Size:  14,
				Style: consts.Bold,
			})
		})
	})
	if len(rows) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No entries yet.", props.Text{Size: 10})
			})
		})
	} else {
		m.TableList([]string{"Date", "Type", "Streak", "Hours", "Study Log", "Tasks"}, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: pdfGrid,
			},
			ContentProp: props.TableListContent{
				Size:      9,
				GridSizes: pdfGrid,
			},
			Align:                consts.Left,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
		})
	}

	buf, err := m.Output()
	if err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
