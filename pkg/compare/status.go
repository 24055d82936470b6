package compare

import (
	"github.com/sdejongh/stall/pkg/models"
)

// Statuses derives the local and remote statuses of an entry from two
// observations. The result does not depend on the sync direction.
func (c *Comparator) Statuses(local, remote Observation) models.StatusPair {
	switch {
	case local.Err != nil && remote.Err != nil:
		return models.StatusPair{Local: models.StatusError, Remote: models.StatusError}
	case local.Err != nil:
		return models.StatusPair{Local: models.StatusError, Remote: presence(remote.Snapshot)}
	case remote.Err != nil:
		return models.StatusPair{Local: presence(local.Snapshot), Remote: models.StatusError}
	}

	switch {
	case !local.Found && !remote.Found:
		return models.StatusPair{Local: models.StatusAbsent, Remote: models.StatusAbsent}
	case !remote.Found:
		return models.StatusPair{Local: models.StatusExists, Remote: models.StatusAbsent}
	case !local.Found:
		return models.StatusPair{Local: models.StatusAbsent, Remote: models.StatusExists}
	}

	order, ok := c.ComparePair(local.Snapshot, remote.Snapshot, false)
	if !ok {
		return models.StatusPair{Local: models.StatusError, Remote: models.StatusError}
	}

	switch order {
	case -1:
		return models.StatusPair{Local: models.StatusOlder, Remote: models.StatusNewer}
	case 1:
		return models.StatusPair{Local: models.StatusNewer, Remote: models.StatusOlder}
	default:
		return models.StatusPair{Local: models.StatusSame, Remote: models.StatusSame}
	}
}

// Status observes both paths of an entry and derives their statuses
func (c *Comparator) Status(localPath, remotePath string) (models.StatusPair, Observation, Observation) {
	local := c.Observe(localPath)
	remote := c.Observe(remotePath)
	return c.Statuses(local, remote), local, remote
}

func presence(s Snapshot) models.Status {
	if s.Found {
		return models.StatusExists
	}
	return models.StatusAbsent
}
