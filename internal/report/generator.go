// Package report assembles and stores the weekly narrative reports.
package report

import (
	"context"
	"time"

	"journal/internal/impulse"
	"journal/internal/promptctx"
	"journal/internal/stats"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type LogReader interface {
	ListInWindow(ctx context.Context, start, end time.Time) ([]impulse.Log, error)
}

type Writer interface {
	Insert(ctx context.Context, r *Report) error
}

type Narrator interface {
	ReportNarrative(ctx context.Context, reportContext string) (string, error)
}

type Generator struct {
	Logs     LogReader
	Reports  Writer
	Narrator Narrator
	Log      logrus.FieldLogger
}

// Generate builds a report over [now-7d, now] and stores it. Nothing is
// written when the window is empty or the narrative cannot be produced.
func (g *Generator) Generate(ctx context.Context, now time.Time) (Report, error) {
	end := impulse.WallClock(now)
	start := end.Add(-promptctx.Window)

	logs, err := g.Logs.ListInWindow(ctx, start, end)
	if err != nil {
		return Report{}, err
	}
	summary, err := stats.Summarize(logs)
	if err != nil {
		return Report{}, err
	}

	content, err := g.Narrator.ReportNarrative(ctx, promptctx.Report(start, end, summary))
	if err != nil {
		return Report{}, err
	}

	r := Report{
		WeekStart: start,
		WeekEnd:   end,
		Content:   content,
		Stats:     datatypes.NewJSONType(summary),
	}
	if err := g.Reports.Insert(ctx, &r); err != nil {
		return Report{}, err
	}

	g.Log.WithFields(logrus.Fields{
		"report_id": r.ID,
		"total":     summary.Total,
		"resisted":  summary.Resisted,
	}).Info("weekly report generated")
	return r, nil
}
