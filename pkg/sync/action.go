package sync

import (
	"github.com/sdejongh/stall/pkg/models"
)

// DecideAction derives what to do with an entry from its statuses.
// Collect treats the remote as the source of truth, Distribute the local copy.
// A destination that is not older than its source is only overwritten when
// force is set.
func DecideAction(direction models.Direction, pair models.StatusPair, force bool) models.Action {
	if pair.HasError() {
		return models.ActionStop
	}

	// Orient the pair so src is the side being copied from
	src, dst := pair.Remote, pair.Local
	if direction == models.DirectionDistribute {
		src, dst = pair.Local, pair.Remote
	}

	switch {
	case src == models.StatusExists && dst == models.StatusAbsent:
		return models.ActionCopy
	case src == models.StatusNewer && dst == models.StatusOlder:
		return models.ActionCopy
	case force && src == models.StatusSame && dst == models.StatusSame:
		return models.ActionForce
	case force && src == models.StatusOlder && dst == models.StatusNewer:
		return models.ActionForce
	default:
		return models.ActionSkip
	}
}
