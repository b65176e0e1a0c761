//nolint:funlen // table driven tests
package rollup

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

//nolint:unparam // test data builder
func mkSession(
	driver string, trackID int, date string, bestLapMs *int, lapCount int,
) *model.Session {
	d, _ := time.Parse(time.DateOnly, date)
	return &model.Session{
		DriverName: driver,
		TrackID:    trackID,
		TrackName:  "Track",
		Date:       d,
		BestLapMs:  bestLapMs,
		LapCount:   lapCount,
	}
}

func intPtr(v int) *int { return &v }

func TestDriverID(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "plain", arg: "Sam Driver", want: "sam driver"},
		{name: "padded", arg: "  Sam Driver  ", want: "sam driver"},
		{name: "case only", arg: "SAM DRIVER", want: "sam driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DriverID(tt.arg); got != tt.want {
				t.Errorf("DriverID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	sessions := []*model.Session{
		mkSession("Sam Driver", 1, "2026-04-10", intPtr(62000), 10),
		mkSession("sam driver", 1, "2026-04-12", intPtr(61000), 12),
		mkSession("Sam Driver", 1, "2026-04-11", intPtr(63000), 8),
		mkSession("Alex Racer", 1, "2026-04-12", intPtr(60000), 15),
		mkSession("Sam Driver", 2, "2026-04-14", nil, 3),
	}
	rows := Compute(sessions)
	if len(rows) != 3 {
		t.Fatalf("Compute() returned %d rows, want 3", len(rows))
	}

	// rows are sorted by driver id, then track id
	if rows[0].DriverID != "alex racer" {
		t.Errorf("rows[0].DriverID = %q, want %q", rows[0].DriverID, "alex racer")
	}

	sam := rows[1]
	if sam.DriverID != "sam driver" || sam.TrackID != 1 {
		t.Fatalf("unexpected row order: %+v", sam)
	}
	if sam.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3", sam.SessionCount)
	}
	if sam.TotalLaps != 30 {
		t.Errorf("TotalLaps = %d, want 30", sam.TotalLaps)
	}
	if sam.BestLapMs == nil || *sam.BestLapMs != 61000 {
		t.Errorf("BestLapMs = %v, want 61000", sam.BestLapMs)
	}
	if sam.AvgBestLapMs == nil || *sam.AvgBestLapMs != 62000 {
		t.Errorf("AvgBestLapMs = %v, want 62000", sam.AvgBestLapMs)
	}
	if sam.LastSession.Format(time.DateOnly) != "2026-04-12" {
		t.Errorf("LastSession = %v, want 2026-04-12", sam.LastSession)
	}

	// groups without a timed lap still appear
	untimed := rows[2]
	if untimed.TrackID != 2 {
		t.Fatalf("unexpected row order: %+v", untimed)
	}
	if untimed.BestLapMs != nil || untimed.AvgBestLapMs != nil {
		t.Errorf("untimed group should have nil lap stats: %+v", untimed)
	}
	if untimed.SessionCount != 1 || untimed.TotalLaps != 3 {
		t.Errorf("untimed group counts wrong: %+v", untimed)
	}
}

func TestComputeOrderIndependence(t *testing.T) {
	sessions := []*model.Session{
		mkSession("Sam Driver", 1, "2026-04-10", intPtr(62000), 10),
		mkSession("Sam Driver", 1, "2026-04-12", intPtr(61000), 12),
		mkSession("Alex Racer", 1, "2026-04-12", intPtr(60000), 15),
		mkSession("Alex Racer", 2, "2026-04-13", nil, 5),
		mkSession("Sam Driver", 1, "2026-04-11", intPtr(61400), 8),
	}
	want := Compute(sessions)

	permutations := [][]int{
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}
	for _, perm := range permutations {
		shuffled := make([]*model.Session, len(sessions))
		for i, j := range perm {
			shuffled[i] = sessions[j]
		}
		got := Compute(shuffled)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Compute() differs for permutation %v (-want +got):\n%s",
				perm, diff)
		}
	}
}

func TestClassifyImproving(t *testing.T) {
	tests := []struct {
		name  string
		group []*model.Session
		want  bool
	}{
		{
			name: "too few timed sessions",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-10", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(60000), 10),
			},
			want: false,
		},
		{
			name: "untimed sessions do not count",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-10", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(60000), 10),
				mkSession("Sam", 1, "2026-04-12", nil, 10),
			},
			want: false,
		},
		{
			name: "latest clearly faster",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-10", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-12", intPtr(60000), 10),
			},
			want: true,
		},
		{
			name: "gain below threshold",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-10", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-12", intPtr(61500), 10),
			},
			want: false,
		},
		{
			name: "latest slower",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-10", intPtr(60000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(60500), 10),
				mkSession("Sam", 1, "2026-04-12", intPtr(62000), 10),
			},
			want: false,
		},
		{
			name: "arrival order does not matter",
			group: []*model.Session{
				mkSession("Sam", 1, "2026-04-12", intPtr(60000), 10),
				mkSession("Sam", 1, "2026-04-10", intPtr(62000), 10),
				mkSession("Sam", 1, "2026-04-11", intPtr(62000), 10),
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyImproving(tt.group); got != tt.want {
				t.Errorf("ClassifyImproving() = %v, want %v", got, tt.want)
			}
		})
	}
}
