package faillog

import "testing"

func TestEvictionVictims(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		keep int
		want []int64
	}{
		{"under cap", []int64{1, 2, 3}, 5, nil},
		{"at cap", []int64{1, 2, 3, 4, 5}, 5, nil},
		{"one over", []int64{1, 2, 3, 4, 5, 6}, 5, []int64{1}},
		{"several over", []int64{1, 2, 3, 4, 5, 6, 7, 8}, 5, []int64{1, 2, 3}},
		{"empty", nil, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evictionVictims(tt.ids, tt.keep)
			if len(got) != len(tt.want) {
				t.Fatalf("victims = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("victims = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// Replays the per-record eviction over a sequence of inserts: after
// 105 sequential entries the log holds the 100 most recent and the
// oldest 5 are gone.
func TestEvictionCapsSequentialInserts(t *testing.T) {
	var log []int64

	for id := int64(1); id <= 105; id++ {
		log = append(log, id)
		victims := evictionVictims(log, Cap)
		log = log[len(victims):]
	}

	if len(log) != Cap {
		t.Fatalf("retained %d entries, want %d", len(log), Cap)
	}
	if log[0] != 6 {
		t.Errorf("oldest retained id = %d, want 6", log[0])
	}
	if log[len(log)-1] != 105 {
		t.Errorf("newest retained id = %d, want 105", log[len(log)-1])
	}
	for _, id := range log {
		if id <= 5 {
			t.Errorf("evicted id %d still present", id)
		}
	}
}
