package ranking

import (
	"testing"

	domcat "github.com/studyalong/recommender/internal/domain/catalog"
)

func TestTips(t *testing.T) {
	tests := []struct {
		name      string
		params    domcat.VibeParameters
		wantFirst string
		wantLast  string
	}{
		{
			name:      "night marathon silence",
			params:    domcat.VibeParameters{Sound: "silence", Rhythm: "marathon", Time: "night"},
			wantFirst: timeTips["night"][0],
			wantLast:  soundTips["silence"][0],
		},
		{
			name:      "unknown time skips time tips",
			params:    domcat.VibeParameters{Sound: "electronic", Rhythm: "casual", Time: "evening"},
			wantFirst: rhythmTips["casual"][0],
			wantLast:  generalTips[2],
		},
		{
			name:      "all unknown yields general tips",
			params:    domcat.VibeParameters{Sound: "x", Rhythm: "y", Time: "z"},
			wantFirst: generalTips[0],
			wantLast:  generalTips[3],
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tips := Tips(tc.params)
			if len(tips) == 0 || len(tips) > MaxTips {
				t.Fatalf("got %d tips, want 1..%d", len(tips), MaxTips)
			}
			if tips[0] != tc.wantFirst {
				t.Errorf("first tip = %q, want %q", tips[0], tc.wantFirst)
			}
			if tips[len(tips)-1] != tc.wantLast {
				t.Errorf("last tip = %q, want %q", tips[len(tips)-1], tc.wantLast)
			}
		})
	}
}

func TestTips_Deterministic(t *testing.T) {
	p := domcat.VibeParameters{Sound: "lofi", Rhythm: "pomodoro", Time: "night"}
	a, b := Tips(p), Tips(p)
	if len(a) != len(b) {
		t.Fatal("lengths differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("tip %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}
