package appointment_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patient-scheduler/appointment"
)

// MockSaver is a mock implementation of the Saver interface
type MockSaver struct {
	testifymock.Mock
}

func (m *MockSaver) Save(records []appointment.Appointment) error {
	args := m.Called(records)
	return args.Error(0)
}

func (m *MockSaver) Path() string {
	args := m.Called()
	return args.String(0)
}

func newStore(t *testing.T) (*appointment.Store, *MockSaver) {
	t.Helper()
	saver := new(MockSaver)
	return appointment.NewStore(saver, 4, appointment.Format, nil), saver
}

func TestStoreInsert(t *testing.T) {
	t.Parallel()

	t.Run("list stays sorted by schedule", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(nil)

		for _, dt := range []string{
			"2024-03-05T14:30",
			"2024-01-01T09:15",
			"2024-12-24T08:00",
			"2024-01-01T09:30",
		} {
			_, err := st.Insert("Jane Doe", "", "", dt)
			require.NoError(t, err)
		}

		appts := st.List()
		require.Len(t, appts, 4)
		assert.True(t, sort.SliceIsSorted(appts, func(i, j int) bool {
			return appts[i].ScheduledAt < appts[j].ScheduledAt
		}))
		assert.Equal(t, "2024-01-01T09:15", appts[0].ScheduledAt)
		assert.Equal(t, "2024-12-24T08:00", appts[3].ScheduledAt)
	})

	t.Run("insert fills fields", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(nil)

		appt, err := st.Insert("  John Doe  ", "123 Street", "cough", "2024-01-01T09:15")
		require.NoError(t, err)
		assert.NotEmpty(t, appt.ID)
		assert.Equal(t, "John Doe", appt.Name)
		assert.Equal(t, "123 Street", appt.Address)
		assert.Equal(t, "cough", appt.Reason)
		assert.Equal(t, "2024-01-01T09:15", appt.ScheduledAt)

		created, err := time.Parse(time.RFC3339, appt.CreatedAt)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), created, time.Minute)

		saver.AssertCalled(t, "Save", testifymock.Anything)
	})

	t.Run("missing name or datetime", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)

		for _, in := range [][2]string{
			{"", "2024-01-01T09:15"},
			{"   ", "2024-01-01T09:15"},
			{"Jane Doe", ""},
		} {
			_, err := st.Insert(in[0], "", "", in[1])
			var ve *appointment.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Name and datetime are required.", err.Error())
		}

		assert.Zero(t, st.Len())
		saver.AssertNotCalled(t, "Save", testifymock.Anything)
	})

	t.Run("unparsable datetime", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)

		_, err := st.Insert("Jane Doe", "", "", "01/01/2024 9am")
		var ve *appointment.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Invalid datetime format.", err.Error())
		saver.AssertNotCalled(t, "Save", testifymock.Anything)
	})

	t.Run("save failure rolls back the append", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(errors.New("disk full"))

		_, err := st.Insert("Jane Doe", "", "", "2024-01-01T09:15")
		require.EqualError(t, err, "disk full")
		assert.Zero(t, st.Len())
	})
}

func TestStoreCapacity(t *testing.T) {
	t.Parallel()
	st, saver := newStore(t)
	saver.On("Save", testifymock.Anything).Return(nil)

	for _, dt := range []string{
		"2024-01-01T09:15",
		"2024-01-01T09:30",
		"2024-01-01T09:45",
		"2024-01-01T09:50",
	} {
		_, err := st.Insert("Jane Doe", "", "", dt)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, st.CountInBucket("2024-01-01T09:00"))

	// fifth one in the same hour is rejected
	_, err := st.Insert("John Doe", "", "", "2024-01-01T09:05")
	var ce *appointment.CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 4, ce.Max)
	assert.Equal(t, "Hour full (max 4).", err.Error())
	assert.Equal(t, 4, st.Len())

	// next hour is a different bucket
	_, err = st.Insert("John Doe", "", "", "2024-01-01T10:05")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Len())
}

func TestStoreCountInBucket(t *testing.T) {
	t.Parallel()
	saver := new(MockSaver)
	st := appointment.NewStore(saver, 4, appointment.Format, []appointment.Appointment{
		{ID: "a", Name: "A", ScheduledAt: "2024-01-01T09:15"},
		{ID: "b", Name: "B", ScheduledAt: "not-a-datetime"},
		{ID: "c", Name: "C", ScheduledAt: "2024-01-01T09:59"},
		{ID: "d", Name: "D", ScheduledAt: "2024-01-02T09:15"},
	})

	// corrupt stored values are skipped, other days are other buckets
	assert.Equal(t, 2, st.CountInBucket("2024-01-01T09:00"))
	// an unparsable candidate counts as zero instead of failing
	assert.Zero(t, st.CountInBucket("garbage"))
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("delete removes exactly one record", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(nil)

		appt, err := st.Insert("Jane Doe", "", "", "2024-01-01T09:15")
		require.NoError(t, err)
		_, err = st.Insert("John Doe", "", "", "2024-01-01T10:15")
		require.NoError(t, err)

		require.NoError(t, st.Delete(appt.ID))
		assert.Equal(t, 1, st.Len())
		for _, a := range st.List() {
			assert.NotEqual(t, appt.ID, a.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(nil)

		_, err := st.Insert("Jane Doe", "", "", "2024-01-01T09:15")
		require.NoError(t, err)

		err = st.Delete("no-such-id")
		assert.ErrorIs(t, err, appointment.ErrNotFound)
		assert.Equal(t, 1, st.Len())
	})

	t.Run("save failure restores the record", func(t *testing.T) {
		t.Parallel()
		st, saver := newStore(t)
		saver.On("Save", testifymock.Anything).Return(nil).Once()

		appt, err := st.Insert("Jane Doe", "", "", "2024-01-01T09:15")
		require.NoError(t, err)

		saver.On("Save", testifymock.Anything).Return(errors.New("disk full"))
		err = st.Delete(appt.ID)
		require.EqualError(t, err, "disk full")

		assert.Equal(t, 1, st.Len())
		assert.Equal(t, appt.ID, st.List()[0].ID)
	})
}

func TestStoreSearch(t *testing.T) {
	t.Parallel()
	st, saver := newStore(t)
	saver.On("Save", testifymock.Anything).Return(nil)

	_, err := st.Insert("Alice Cooper", "", "", "2024-01-01T09:15")
	require.NoError(t, err)
	_, err = st.Insert("Bob Cooper", "", "", "2024-01-01T10:15")
	require.NoError(t, err)
	_, err = st.Insert("Carol Smith", "", "", "2024-01-01T11:15")
	require.NoError(t, err)

	assert.Len(t, st.Search(""), 3)
	assert.Len(t, st.Search("cooper"), 2)

	got := st.Search("CAROL")
	require.Len(t, got, 1)
	assert.Equal(t, "Carol Smith", got[0].Name)

	assert.Empty(t, st.Search("nobody"))
}

func TestStoreExportPath(t *testing.T) {
	t.Parallel()
	st, saver := newStore(t)
	saver.On("Save", testifymock.Anything).Return(nil)
	saver.On("Path").Return("appointments.xlsx")

	path, err := st.ExportPath()
	require.NoError(t, err)
	assert.Equal(t, "appointments.xlsx", path)
	saver.AssertCalled(t, "Save", testifymock.Anything)
}
