package common

import (
	"time"
)

const releaseYear = 2026
const releaseMonth = 8
const releaseDay = 3
const releaseHour = 0
const releaseMin = 0

// Version identifies this module's public API surface, in the same
// spirit as finalversus/doc's common.Version constant.
const Version = "1.0.0"

var ReleasedAt = time.Date(releaseYear, releaseMonth, releaseDay, releaseHour, releaseMin, 0, 0, time.UTC)
