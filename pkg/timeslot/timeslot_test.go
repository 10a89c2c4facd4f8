package timeslot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Run("Valid Values", func(t *testing.T) {
		cases := map[string]int{
			"00:00": 0,
			"09:30": 570,
			"14:00": 840,
			"23:59": 1439,
			"24:00": MinutesPerDay,
		}
		for in, want := range cases {
			got, err := ParseClock(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("Postgres TIME Format", func(t *testing.T) {
		got, err := ParseClock("14:30:00")
		require.NoError(t, err)
		assert.Equal(t, 870, got)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		for _, in := range []string{"", "9:30", "25:00", "12:60", "ab:cd", "12-30", "24:01"} {
			_, err := ParseClock(in)
			assert.Error(t, err, in)
		}
	})
}

func TestClock(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0))
	assert.Equal(t, "09:05", Clock(545))
	assert.Equal(t, "16:30", Clock(990))
}

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		iv, err := New(600, 660)
		require.NoError(t, err)
		assert.Equal(t, 60, iv.Minutes())
		assert.Equal(t, "10:00", iv.StartClock())
		assert.Equal(t, "11:00", iv.EndClock())
	})

	t.Run("Rejects Zero Or Negative Duration", func(t *testing.T) {
		_, err := New(600, 600)
		assert.Error(t, err)
		_, err = New(660, 600)
		assert.Error(t, err)
	})

	t.Run("Rejects Out Of Day Bounds", func(t *testing.T) {
		_, err := New(-10, 60)
		assert.Error(t, err)
		_, err = New(1400, 1500)
		assert.Error(t, err)
	})
}

func TestOverlaps(t *testing.T) {
	a := Interval{Start: 600, End: 660} // 10:00-11:00

	t.Run("Touching Endpoints Do Not Overlap", func(t *testing.T) {
		assert.False(t, a.Overlaps(Interval{Start: 660, End: 720}))
		assert.False(t, a.Overlaps(Interval{Start: 540, End: 600}))
	})

	t.Run("Partial Overlap", func(t *testing.T) {
		assert.True(t, a.Overlaps(Interval{Start: 630, End: 690}))
		assert.True(t, a.Overlaps(Interval{Start: 570, End: 630}))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, a.Overlaps(Interval{Start: 610, End: 650}))
		assert.True(t, a.Overlaps(Interval{Start: 540, End: 720}))
	})
}

// referenceOverlap walks every minute of both intervals, the slow but
// obviously correct way
func referenceOverlap(a, b Interval) bool {
	for m := a.Start; m < a.End; m++ {
		if m >= b.Start && m < b.End {
			return true
		}
	}
	return false
}

func TestOverlaps_MatchesReferenceAlgorithm(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		a := randomInterval(rng)
		b := randomInterval(rng)

		want := referenceOverlap(a, b)
		got := a.Overlaps(b)
		require.Equal(t, want, got, "a=%s b=%s", a, b)
		require.Equal(t, got, b.Overlaps(a), "overlap must be symmetric: a=%s b=%s", a, b)
	}
}

func randomInterval(rng *rand.Rand) Interval {
	start := rng.Intn(MinutesPerDay - 30)
	length := 30 * (1 + rng.Intn(16))
	end := start + length
	if end > MinutesPerDay {
		end = MinutesPerDay
	}
	return Interval{Start: start, End: end}
}

func TestExtend(t *testing.T) {
	iv := Interval{Start: 840, End: 960}
	extended := iv.Extend(30)
	assert.Equal(t, 840, extended.Start)
	assert.Equal(t, 990, extended.End)

	late := Interval{Start: 1380, End: 1430}
	assert.Equal(t, MinutesPerDay, late.Extend(30).End)
}

func TestFreeWithin(t *testing.T) {
	day := Interval{Start: 0, End: MinutesPerDay}

	t.Run("Empty Day", func(t *testing.T) {
		free := FreeWithin(day, nil)
		require.Len(t, free, 1)
		assert.Equal(t, day, free[0])
	})

	t.Run("Single Busy Block", func(t *testing.T) {
		free := FreeWithin(day, []Interval{{Start: 600, End: 660}})
		require.Len(t, free, 2)
		assert.Equal(t, Interval{Start: 0, End: 600}, free[0])
		assert.Equal(t, Interval{Start: 660, End: MinutesPerDay}, free[1])
	})

	t.Run("Unsorted And Adjacent Blocks", func(t *testing.T) {
		busy := []Interval{
			{Start: 660, End: 720},
			{Start: 600, End: 660},
			{Start: 900, End: 990},
		}
		free := FreeWithin(day, busy)
		require.Len(t, free, 3)
		assert.Equal(t, Interval{Start: 0, End: 600}, free[0])
		assert.Equal(t, Interval{Start: 720, End: 900}, free[1])
		assert.Equal(t, Interval{Start: 990, End: MinutesPerDay}, free[2])
	})

	t.Run("Busy Covers Whole Window", func(t *testing.T) {
		free := FreeWithin(Interval{Start: 600, End: 720}, []Interval{{Start: 540, End: 780}})
		assert.Empty(t, free)
	})
}
