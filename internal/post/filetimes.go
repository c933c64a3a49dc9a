package post

import (
	"os"
	"time"
)

// FileTimes are the filesystem timestamps of a source file.
type FileTimes struct {
	Modified time.Time
	Created  time.Time
}

// StatTimes reads modification and creation time. Where the filesystem does
// not record a birth time, Created falls back to Modified.
func StatTimes(path string) (FileTimes, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileTimes{}, err
	}
	ft := FileTimes{Modified: info.ModTime(), Created: info.ModTime()}
	if bt, ok := birthTime(path); ok {
		ft.Created = bt
	}
	return ft, nil
}
