package ipmi

import "context"

// lanChannel is the BMC LAN channel configured by all lan set commands.
const lanChannel = "1"

// Step descriptions, used in reports and matched by operators reading
// failure output.
const (
	DescSetIPSource = "Setting IP source to static"
	DescSetIPAddr   = "Setting IP address"
	DescSetNetmask  = "Setting network mask"
	DescSetGateway  = "Setting default gateway"
	DescReset       = "Resetting BMC"
	DescProbe       = "Probing BMC LAN configuration"
)

// SetIPSourceStatic switches the BMC LAN channel to static addressing.
func (c *Client) SetIPSourceStatic(ctx context.Context, target string) Outcome {
	return c.Run(ctx, target, DescSetIPSource, "lan", "set", lanChannel, "ipsrc", "static")
}

// SetIPAddress sets the BMC's IP address.
func (c *Client) SetIPAddress(ctx context.Context, target, addr string) Outcome {
	return c.Run(ctx, target, DescSetIPAddr, "lan", "set", lanChannel, "ipaddr", addr)
}

// SetNetmask sets the BMC's network mask.
func (c *Client) SetNetmask(ctx context.Context, target, netmask string) Outcome {
	return c.Run(ctx, target, DescSetNetmask, "lan", "set", lanChannel, "netmask", netmask)
}

// SetGateway sets the BMC's default gateway.
func (c *Client) SetGateway(ctx context.Context, target, gateway string) Outcome {
	return c.Run(ctx, target, DescSetGateway, "lan", "set", lanChannel, "defgw", "ipaddr", gateway)
}

// Reset cold-resets the BMC so the new LAN configuration takes effect.
func (c *Client) Reset(ctx context.Context, target string) Outcome {
	return c.Run(ctx, target, DescReset, "mc", "reset", "cold")
}

// Probe reads the LAN configuration, verifying the BMC answers at target.
func (c *Client) Probe(ctx context.Context, target string) Outcome {
	return c.Run(ctx, target, DescProbe, "lan", "print", lanChannel)
}
