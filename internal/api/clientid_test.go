package api

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func encodeRaw(s string) string {
	return base58.Encode([]byte(s))
}

func TestClientID_RoundTrip(t *testing.T) {
	for _, id := range []int64{1, 42, 9_223_372_036_854_775_807} {
		cid := EncodeClientID(id)
		require.NotEmpty(t, cid)

		got, err := DecodeClientID(cid)
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestDecodeClientID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cid  string
	}{
		{name: "empty", cid: ""},
		{name: "not base58", cid: "0OIl"},
		{name: "not a number", cid: encodeRaw("acme")},
		{name: "zero", cid: encodeRaw("0")},
		{name: "negative", cid: encodeRaw("-5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClientID(tt.cid)
			require.ErrorIs(t, err, ErrInvalidClientID)
		})
	}
}
