package hub

import (
	"context"

	"github.com/aatumaykin/hubmon/internal/logger"
)

// Reboot issues a reboot command to the hub. When rebuild is true the hub
// additionally rebuilds its database before coming back up, a longer
// maintenance operation. The hub reboots asynchronously after accepting
// the request. Not retried on failure; the caller decides what to log.
func (c *Client) Reboot(ctx context.Context, rebuild bool) error {
	path := pathReboot
	if rebuild {
		path = pathRebootRebuild
	}

	c.logger.Debug("issuing hub reboot command",
		logger.Field{Key: "path", Value: path},
		logger.Field{Key: "rebuild", Value: rebuild})

	return c.post(ctx, path)
}
