package service

import "time"

// timeNow is swapped in tests that need deterministic timestamps.
var timeNow = time.Now
