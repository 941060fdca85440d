package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_OrdersByStartAndKeepsTies(t *testing.T) {
	t.Parallel()

	input := []Entry{
		{ID: "c", Start: "11:00", Duration: 30},
		{ID: "a", Start: "09:15", Duration: 30},
		{ID: "b", Start: "09:05", Duration: 30},
		{ID: "d", Start: "09:15", Duration: 10},
	}

	sorted, err := Sort(input)
	require.NoError(t, err)
	require.Equal(t, 4, sorted.Len())

	ids := make([]string, 0, sorted.Len())
	for _, entry := range sorted.Entries() {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids)
	assert.Equal(t, "b", sorted.At(0).ID)

	// input is untouched
	assert.Equal(t, "c", input[0].ID)
}

func TestSort_EntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	sorted, err := Sort([]Entry{{ID: "1", Start: "09:00", Duration: 10}})
	require.NoError(t, err)

	entries := sorted.Entries()
	entries[0].ID = "changed"
	assert.Equal(t, "1", sorted.At(0).ID)
}

func TestSort_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Sort([]Entry{{ID: "1", Start: "abc", Duration: 10}})
	assert.ErrorIs(t, err, ErrMalformedTime)

	_, err = Sort([]Entry{{ID: "1", Start: "09:00", Duration: 0}})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = Sort([]Entry{
		{ID: "1", Start: "09:00", Duration: 10},
		{ID: "1", Start: "10:00", Duration: 10},
	})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestSort_Empty(t *testing.T) {
	t.Parallel()

	sorted, err := Sort(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sorted.Len())
	assert.Empty(t, sorted.Entries())
}
