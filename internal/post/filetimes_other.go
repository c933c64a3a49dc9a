//go:build !linux

package post

import "time"

func birthTime(string) (time.Time, bool) { return time.Time{}, false }
