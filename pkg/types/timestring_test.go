package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:30", want: "09:30"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "missing leading zero", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "trailing garbage", input: "10:0x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "with seconds", input: "10:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeString
		minutes int
		want    TimeString
		wantErr bool
	}{
		{name: "simple", start: "09:00", minutes: 30, want: "09:30"},
		{name: "across hour", start: "09:45", minutes: 30, want: "10:15"},
		{name: "to day boundary", start: "23:30", minutes: 30, want: "24:00"},
		{name: "past day boundary", start: "23:31", minutes: 30, wantErr: true},
		{name: "negative shift", start: "10:00", minutes: -15, want: "09:45"},
		{name: "negative past midnight", start: "00:10", minutes: -15, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMinutes(tt.minutes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("08:00"))
	assert.False(t, TimeString("08:00").IsAfter("08:00"))
}

func TestTimeString_ComparisonsDayBoundary(t *testing.T) {
	// "24:00" - это конец суток, а не полночь следующего дня
	end, err := TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	require.Equal(t, TimeString("24:00"), end)

	assert.True(t, end.IsAfter("23:30"))
	assert.False(t, end.IsBefore("23:30"))
	assert.True(t, TimeString("23:59").IsBefore(end))
	assert.False(t, end.IsAfter("24:00"))
}

func TestTimeString_MinutesUntil(t *testing.T) {
	assert.Equal(t, 90, TimeString("08:30").MinutesUntil("10:00"))
	assert.Equal(t, -30, TimeString("10:00").MinutesUntil("09:30"))
	assert.Equal(t, 360, TimeString("18:00").MinutesUntil("24:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 11, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:45"), ts)

	require.Error(t, ts.Scan(42))
}

func TestTimeString_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(TimeString("10:30"))
	require.NoError(t, err)
	assert.Equal(t, `"10:30"`, string(data))

	var ts TimeString
	require.NoError(t, json.Unmarshal([]byte(`"17:00"`), &ts))
	assert.Equal(t, TimeString("17:00"), ts)

	require.Error(t, json.Unmarshal([]byte(`"25:00"`), &ts))
}
