package parse

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

// Normalizer converts raw CSV rows into a canonical lap record stream and
// groups them into parsed sessions. Row level problems become warnings; only
// an unusable header or a file without a single parseable row is fatal.
type Normalizer struct {
	l *log.Logger
}

type Option func(*Normalizer)

func WithLogger(l *log.Logger) Option {
	return func(n *Normalizer) {
		n.l = l
	}
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		l: log.Default().Named("parse"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

//nolint:funlen // the row loop reads better in one piece
func (n *Normalizer) Parse(r io.Reader) *model.ParseResult {
	ret := &model.ParseResult{
		Sessions: []*model.ParsedSession{},
		Warnings: []string{},
		Errors:   []string{},
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rawHeader, err := cr.Read()
	if err != nil {
		ret.Errors = append(ret.Errors, "InvalidFormat: missing header row")
		return ret
	}
	header := NormalizeHeader(rawHeader)
	if missing := MissingColumns(header); len(missing) > 0 {
		ret.Errors = append(ret.Errors, fmt.Sprintf(
			"InvalidFormat: missing required column(s): %s",
			strings.Join(missing, ", ")))
		return ret
	}
	dialect := DetectDialect(header)
	n.l.Debug("header accepted",
		log.String("dialect", string(dialect)),
		log.Int("columns", len(header)))

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	records := make([]*model.LapRecord, 0)
	line := 1
	for {
		row, readErr := cr.Read()
		line++
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			ret.Warnings = append(ret.Warnings,
				fmt.Sprintf("row %d: %v, row dropped", line, readErr))
			continue
		}
		rec, warnings := n.normalizeRow(row, idx, dialect, line)
		ret.Warnings = append(ret.Warnings, warnings...)
		if rec != nil {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		ret.Errors = append(ret.Errors, "InvalidFormat: no parseable rows")
		return ret
	}

	ret.Sessions, ret.Warnings = groupRecords(records, ret.Warnings)
	ret.Success = true
	return ret
}

// normalizeRow validates one CSV row and converts it into a canonical lap
// record. A nil record means the row was dropped; the reasons are returned as
// warnings.
//nolint:cyclop // one branch per validated column
func (n *Normalizer) normalizeRow(
	row []string,
	idx map[string]int,
	dialect model.Dialect,
	line int,
) (*model.LapRecord, []string) {
	warnings := []string{}
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lapNo, err := strconv.Atoi(field(colLapNumber))
	if err != nil || lapNo <= 0 {
		return nil, append(warnings, fmt.Sprintf(
			"row %d: lap_number %q is not a positive integer, row dropped",
			line, field(colLapNumber)))
	}
	lapTimeMs, err := strconv.Atoi(field(colLapTimeMs))
	if err != nil || lapTimeMs <= 0 {
		return nil, append(warnings, fmt.Sprintf(
			"row %d: lap_time_ms %q is not a positive integer, row dropped",
			line, field(colLapTimeMs)))
	}
	date, err := parseSessionDate(field(colSessionDate))
	if err != nil {
		return nil, append(warnings, fmt.Sprintf(
			"row %d: session_date %q is not ISO-8601, row dropped",
			line, field(colSessionDate)))
	}

	driver := field(colDriverName)
	track := field(colTrackName)
	if driver == "" || track == "" {
		return nil, append(warnings, fmt.Sprintf(
			"row %d: empty driver_name or track_name, row dropped", line))
	}

	source := dialect
	if tag := field(colSource); tag != "" {
		if parsed, ok := model.ParseDialect(tag); ok {
			source = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"row %d: unknown source tag %q, keeping detected dialect %s",
				line, tag, dialect))
		}
	}

	var ts *time.Time
	if raw := field(colTimestamp); raw != "" {
		if parsed, tsErr := time.Parse(time.RFC3339, raw); tsErr == nil {
			ts = &parsed
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"row %d: timestamp %q is not ISO-8601, timestamp ignored", line, raw))
		}
	}

	return &model.LapRecord{
		SessionKey: sessionKey(driver, track, date),
		DriverName: driver,
		TrackName:  track,
		Date:       date,
		LapNo:      lapNo,
		LapTimeMs:  lapTimeMs,
		Timestamp:  ts,
		Source:     source,
	}, warnings
}

// groupRecords folds canonical lap records into sessions keyed by
// (driver, track, date). Within a session the first occurrence of a lap
// number wins; later duplicates are dropped with a warning.
func groupRecords(records []*model.LapRecord, warnings []string) (
	[]*model.ParsedSession, []string,
) {
	order := make([]string, 0)
	groups := make(map[string][]*model.LapRecord)
	for _, rec := range records {
		if _, ok := groups[rec.SessionKey]; !ok {
			order = append(order, rec.SessionKey)
		}
		groups[rec.SessionKey] = append(groups[rec.SessionKey], rec)
	}

	sessions := make([]*model.ParsedSession, 0, len(order))
	for _, key := range order {
		recs := groups[key]
		slices.SortStableFunc(recs, func(a, b *model.LapRecord) int {
			return a.LapNo - b.LapNo
		})

		session := &model.ParsedSession{
			DriverName: recs[0].DriverName,
			TrackName:  recs[0].TrackName,
			Date:       recs[0].Date,
			Source:     recs[0].Source,
			Laps:       make([]model.Lap, 0, len(recs)),
		}
		seen := make(map[int]bool, len(recs))
		for _, rec := range recs {
			if seen[rec.LapNo] {
				warnings = append(warnings, fmt.Sprintf(
					"session %s: duplicate lap_number %d, keeping first occurrence",
					key, rec.LapNo))
				continue
			}
			seen[rec.LapNo] = true
			session.Laps = append(session.Laps, model.Lap{
				LapNo:     rec.LapNo,
				LapTimeMs: rec.LapTimeMs,
				Timestamp: rec.Timestamp,
			})
			session.TotalTimeMs += int64(rec.LapTimeMs)
			if session.BestLapMs == 0 || rec.LapTimeMs < session.BestLapMs {
				session.BestLapMs = rec.LapTimeMs
			}
		}
		sessions = append(sessions, session)
	}
	return sessions, warnings
}

func sessionKey(driver, track string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(driver), strings.ToLower(track), date.Format(time.DateOnly))
}

// parseSessionDate accepts plain dates and full timestamps, keeping the date.
func parseSessionDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
