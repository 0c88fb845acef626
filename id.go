package kickstart

import "github.com/xraph/kickstart/id"

// ID is the identifier type stamped on bootstrap runs.
type ID = id.ID
