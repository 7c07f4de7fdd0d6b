// Package promptctx renders bounded plain-text context blocks from journal
// data for injection into model prompts.
package promptctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"journal/internal/impulse"
	"journal/internal/stats"
)

const (
	Window       = 7 * 24 * time.Hour
	ChatMaxLogs  = 10
	timeLayout   = "2006-01-02 15:04"
	dateLayout   = "2006-01-02"
	noRecentLogs = "最近7天没有冲动记录。"
)

type RecentLister interface {
	ListRecent(ctx context.Context, since, until time.Time, limit int) ([]impulse.Log, error)
}

// Builder fetches the recent logs and renders the chat context in one step.
type Builder struct {
	Logs RecentLister
	Now  func() time.Time
}

func (b *Builder) ChatContext(ctx context.Context) (string, error) {
	now := impulse.WallClock(b.Now())
	logs, err := b.Logs.ListRecent(ctx, now.Add(-Window), now, ChatMaxLogs)
	if err != nil {
		return "", err
	}
	return Chat(logs), nil
}

// Chat renders one line per log in the given order, capped at ChatMaxLogs.
func Chat(logs []impulse.Log) string {
	if len(logs) == 0 {
		return noRecentLogs
	}
	if len(logs) > ChatMaxLogs {
		logs = logs[:ChatMaxLogs]
	}
	var sb strings.Builder
	for i, l := range logs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %s (行动: %s)", l.Datetime.Format(timeLayout), l.Feeling, actedLabel(l.Acted))
	}
	return sb.String()
}

// Report renders the weekly statistics block used as the report prompt input.
func Report(start, end time.Time, s stats.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "时间范围: %s 至 %s\n", start.Format(dateLayout), end.Format(dateLayout))
	fmt.Fprintf(&sb, "总冲动次数: %d\n", s.Total)
	fmt.Fprintf(&sb, "行动次数: %d\n", s.Acted)
	fmt.Fprintf(&sb, "抵抗次数: %d\n", s.Resisted)
	fmt.Fprintf(&sb, "抵抗成功率: %d%%\n", s.ResistanceRate)
	fmt.Fprintf(&sb, "高峰时段: %02d:00\n", s.PeakHour)
	fmt.Fprintf(&sb, "常见情绪词: %s", strings.Join(s.TopWords, "、"))
	return sb.String()
}

func actedLabel(a impulse.Acted) string {
	if a == impulse.ActedYes {
		return "是"
	}
	return "否"
}
