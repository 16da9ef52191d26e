package utils

import (
	"fmt"
	"time"
)

// UnixMilli returns the clock's wall time in milliseconds since the Unix
// epoch, the "system timestamp" column of the vector logs.
func UnixMilli(c Clock) int64 {
	return c.Now().UnixMilli()
}

// SessionToken returns the token shared by every file of a new session:
// the current Unix second, bumped past prev so two sessions opened within
// the same second never share (and truncate) a file name.
func SessionToken(now time.Time, prev int64) int64 {
	ts := now.Unix()
	if ts <= prev {
		ts = prev + 1
	}
	return ts
}

// StreamFileName returns the file name of one stream of a session:
//
//	<prefix>-<token>.<ext>
func StreamFileName(prefix string, token int64, ext string) string {
	return fmt.Sprintf("%s-%d.%s", prefix, token, ext)
}
