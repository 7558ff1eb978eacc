package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/hrroster/internal/api"
)

type CIDCmd struct {
	Encode CIDEncodeCmd `cmd:"" help:"Encode an organization id as a client id"`
	Decode CIDDecodeCmd `cmd:"" help:"Decode a client id to an organization id"`
}

type CIDEncodeCmd struct {
	OrgID int64 `arg:"" help:"Organization id"`
}

func (c *CIDEncodeCmd) Run(ctx context.Context, globals *Globals) error {
	fmt.Println(api.EncodeClientID(c.OrgID))
	return nil
}

type CIDDecodeCmd struct {
	CID string `arg:"" help:"Client id"`
}

func (c *CIDDecodeCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := api.DecodeClientID(c.CID)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
