package model

import "github.com/google/uuid"

// newID generates collision-resistant ids for lists, items and rules.
// Tests replace it to get stable ids.
var newID = uuid.NewString
