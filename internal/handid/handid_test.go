package handid

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIDsSortByTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := quartz.NewMock(t)
	gen := NewGenerator(clock, bytes.NewReader(bytes.Repeat([]byte{0xff}, 100)))

	first, err := gen.New()
	require.NoError(t, err)
	clock.Advance(time.Millisecond).MustWait(ctx)
	second, err := gen.New()
	require.NoError(t, err)

	assert.Len(t, first, Length)
	assert.Less(t, first, second)
	assert.NoError(t, Validate(first))
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	gen := NewGenerator(clock, nil)

	id, err := gen.New()
	require.NoError(t, err)

	got, err := Time(id)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), got.UnixMilli())
}

func TestGeneratorDeterministicWithFixedEntropy(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	a, err := NewGenerator(clock, bytes.NewReader(make([]byte, 10))).New()
	require.NoError(t, err)
	b, err := NewGenerator(clock, bytes.NewReader(make([]byte, 10))).New()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGeneratorEntropyFailure(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(quartz.NewMock(t), bytes.NewReader([]byte{1, 2})).New()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid", "01h9x3kz5q8m2n4p6r7s9t0vwx", true},
		{"too short", "01h9x3kz5q", false},
		{"uppercase", "01H9X3KZ5Q8M2N4P6R7S9T0VWX", false},
		{"excluded letter", "01h9x3kz5q8m2n4p6r7s9t0vwi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
