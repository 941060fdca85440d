package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "09:00", want: 540},
		{name: "half past ten", input: "10:30", want: 630},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "past midnight", input: "25:00", want: 1500},
		{name: "single digit parts", input: "9:5", wantErr: true},
		{name: "single digit hour", input: "9:05", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "minutes out of range", input: "10:60", wantErr: true},
		{name: "wrong separator", input: "10.30", wantErr: true},
		{name: "signed", input: "-1:00", wantErr: true},
		{name: "trailing space", input: "10:30 ", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTime(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedTime)

				var malformed *MalformedTimeError
				require.True(t, errors.As(err, &malformed))
				assert.Equal(t, tc.input, malformed.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "09:05", FormatTime(545))
	assert.Equal(t, "23:59", FormatTime(1439))
	assert.Equal(t, "24:00", FormatTime(1440))
	assert.Equal(t, "25:00", FormatTime(1500))
	assert.Equal(t, "00:00", FormatTime(-30))
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	for m := 0; m < 1440; m++ {
		got, err := ParseTime(FormatTime(m))
		require.NoError(t, err)
		if got != m {
			t.Fatalf("round trip of %d produced %d", m, got)
		}
	}
}

func TestTimeRoundTripPastMidnight(t *testing.T) {
	t.Parallel()

	for _, m := range []int{1440, 1500, 5999} {
		got, err := ParseTime(FormatTime(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	assert.Equal(t, "100:00", FormatTime(6000))
	_, err := ParseTime(FormatTime(6000))
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestComputeEnd(t *testing.T) {
	t.Parallel()

	end, err := ComputeEnd(Entry{ID: "1", Start: "09:30", Duration: 45})
	require.NoError(t, err)
	assert.Equal(t, 615, end)

	end, err = Entry{ID: "2", Start: "23:30", Duration: 60}.End()
	require.NoError(t, err)
	assert.Equal(t, "24:30", FormatTime(end))

	_, err = ComputeEnd(Entry{ID: "3", Start: "abc", Duration: 10})
	assert.ErrorIs(t, err, ErrMalformedTime)
}
