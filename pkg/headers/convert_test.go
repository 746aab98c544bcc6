package headers

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/authzed/mapz/pkg/mapz"
)

func TestConvertValue(t *testing.T) {
	date := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      any
		expected string
	}{
		{"string", "plain", "plain"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint", uint(7), "7"},
		{"uint64", uint64(1 << 40), "1099511627776"},
		{"float64", 2.5, "2.5"},
		{"time", date, "Wed, 21 Oct 2015 07:28:00 GMT"},
		{"duration", 90 * time.Second, "1m30s"},
		{"stringer", net.IPv4(127, 0, 0, 1), "127.0.0.1"},
		{"error", errors.New("boom"), "boom"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			converted, err := convertValue(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.expected, converted)
		})
	}
}

func TestConvertValueNonUTCDate(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	date := time.Date(2015, time.October, 21, 9, 28, 0, 0, zone)

	converted, err := convertValue(date)
	require.NoError(t, err)
	require.Equal(t, "Wed, 21 Oct 2015 07:28:00 GMT", converted)
}

func TestConvertValueRejectsUnknownTypes(t *testing.T) {
	_, err := convertValue(struct{ X int }{X: 1})
	require.ErrorIs(t, err, mapz.ErrInvalidValue)

	var convErr mapz.ConversionError
	require.ErrorAs(t, err, &convErr)

	_, err = convertValue(nil)
	require.ErrorIs(t, err, mapz.ErrInvalidValue)
}

func TestHeadersDateValue(t *testing.T) {
	h := NewHeaders()
	date := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	require.NoError(t, h.Set("Last-Modified", date))

	value, ok, err := h.Get("last-modified")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Sun, 06 Nov 1994 08:49:37 GMT", value)
}
