package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"
)

// ErrInvalidClientID is returned for client ids that don't decode to an organization id.
var ErrInvalidClientID = errors.New("invalid client id")

// EncodeClientID turns an organization id into the opaque handle clients use as "cid".
func EncodeClientID(orgID int64) string {
	return base58.Encode([]byte(strconv.FormatInt(orgID, 10)))
}

// DecodeClientID reverses EncodeClientID.
func DecodeClientID(cid string) (int64, error) {
	if cid == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidClientID)
	}

	raw, err := base58.Decode(cid)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidClientID, err)
	}

	orgID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || orgID <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClientID, cid)
	}

	return orgID, nil
}
