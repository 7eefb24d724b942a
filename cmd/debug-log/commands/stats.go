package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByKind      map[capture.Kind]int
	EventsByDirection map[capture.Direction]int
	BytesOut          int
	BytesIn           int
	Sessions          map[string]*SessionStats
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single console session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Lines     int
	Port      string
	Begun     bool
}

// collectStats reads every event of path.
func collectStats(path string) (*Stats, error) {
	reader, err := capture.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind:      make(map[capture.Kind]int),
		EventsByDirection: make(map[capture.Direction]int),
		Sessions:          make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++
		stats.EventsByDirection[event.Direction]++
		if event.Direction == capture.DirectionOut {
			stats.BytesOut += len(event.Text)
		} else {
			stats.BytesIn += len(event.Text)
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Port:      event.Port,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		switch event.Kind {
		case capture.KindBegin:
			sess.Begun = true
		case capture.KindPrintln, capture.KindLine:
			sess.Lines++
		}
	}

	return stats, nil
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Debug Console Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Bytes Out:    %d\n", stats.BytesOut)
	fmt.Fprintf(w, "Bytes In:     %d\n", stats.BytesIn)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []capture.Kind{capture.KindBegin, capture.KindPrint, capture.KindPrintln, capture.KindLine} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []capture.Direction{capture.DirectionOut, capture.DirectionIn} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) == 0 {
		return
	}

	type sessionInfo struct {
		id    string
		stats *SessionStats
	}
	sessions := make([]sessionInfo, 0, len(stats.Sessions))
	for id, ss := range stats.Sessions {
		sessions = append(sessions, sessionInfo{id, ss})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, s := range sessions {
		duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
		fmt.Fprintf(w, "  [%s] %d events, %d lines, duration %s\n", shortenSession(s.id), s.stats.Events, s.stats.Lines, duration)
		if s.stats.Port != "" {
			fmt.Fprintf(w, "           Port: %s\n", s.stats.Port)
		}
		if !s.stats.Begun {
			fmt.Fprintln(w, "           (no begin recorded)")
		}
	}
}
