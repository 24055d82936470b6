package models

// Entry is a tracked correspondence between a file inside the stall and the
// remote file it mirrors
type Entry struct {
	// Local is the path relative to the stall directory
	Local string `yaml:"local" json:"local"`

	// Remote is the absolute (or process-relative) path of the mirrored file
	Remote string `yaml:"remote" json:"remote"`
}

// Status is the per-side outcome of comparing a local file with its remote
type Status string

const (
	// StatusError indicates the file metadata could not be read
	StatusError Status = "error"
	// StatusAbsent indicates the file does not exist
	StatusAbsent Status = "absent"
	// StatusExists indicates the file exists and the other side does not
	StatusExists Status = "exists"
	// StatusNewer indicates the file is more recently modified than its counterpart
	StatusNewer Status = "newer"
	// StatusOlder indicates the file is less recently modified than its counterpart
	StatusOlder Status = "older"
	// StatusSame indicates both sides share a modification time
	StatusSame Status = "same"
)

// StatusPair holds the local and remote statuses of one entry
type StatusPair struct {
	Local  Status `json:"local"`
	Remote Status `json:"remote"`
}

// HasError returns true if either side failed to be read
func (p StatusPair) HasError() bool {
	return p.Local == StatusError || p.Remote == StatusError
}

// Action represents what should be done with an entry
type Action string

const (
	// ActionCopy copies the source side over an older or missing destination
	ActionCopy Action = "copy"
	// ActionForce copies even though the destination is not older
	ActionForce Action = "force"
	// ActionSkip leaves both sides untouched
	ActionSkip Action = "skip"
	// ActionStop leaves both sides untouched because a side could not be read
	ActionStop Action = "stop"
)

// Copies returns true for actions that transfer file contents
func (a Action) Copies() bool {
	return a == ActionCopy || a == ActionForce
}

// Direction defines which side of an entry is the source of truth
type Direction string

const (
	// DirectionCollect copies remote files into the stall
	DirectionCollect Direction = "collect"
	// DirectionDistribute copies stall files out to their remotes
	DirectionDistribute Direction = "distribute"
)

// Endpoints returns the source and destination of a copy in this direction,
// given the physical local and remote paths
func (d Direction) Endpoints(local, remote string) (source, dest string) {
	if d == DirectionDistribute {
		return local, remote
	}
	return remote, local
}
