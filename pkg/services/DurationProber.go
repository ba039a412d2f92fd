package services

import (
	"encoding/binary"
	"fmt"
)

/*
DurationProber extracts a display duration from a video payload.
Probing is best-effort: an unreadable container reports no duration and
the item simply renders without one.
*/
type DurationProber interface {
	Probe(data []byte, contentType string) (string, bool)
}

/*
Mp4DurationProber reads the duration from the mvhd box of an MP4/MOV
container. Other container formats are not probed.
*/
type Mp4DurationProber struct{}

func NewMp4DurationProber() Mp4DurationProber {
	return Mp4DurationProber{}
}

func (Mp4DurationProber) Probe(data []byte, contentType string) (string, bool) {
	seconds, ok := mvhdDurationSeconds(data)

	if !ok || seconds <= 0 {
		return "", false
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60), true
}

/*
mvhdDurationSeconds walks top-level boxes to moov, then moov's children
to mvhd, and reads timescale and duration. Version 0 uses 32-bit
fields, version 1 uses 64-bit.
*/
func mvhdDurationSeconds(data []byte) (int, bool) {
	moov, ok := findBox(data, "moov")

	if !ok {
		return 0, false
	}

	mvhd, ok := findBox(moov, "mvhd")

	if !ok || len(mvhd) < 4 {
		return 0, false
	}

	version := mvhd[0]

	if version == 0 {
		if len(mvhd) < 20 {
			return 0, false
		}

		timescale := binary.BigEndian.Uint32(mvhd[12:16])
		duration := binary.BigEndian.Uint32(mvhd[16:20])

		if timescale == 0 {
			return 0, false
		}

		return int(duration / timescale), true
	}

	if len(mvhd) < 32 {
		return 0, false
	}

	timescale := binary.BigEndian.Uint32(mvhd[20:24])
	duration := binary.BigEndian.Uint64(mvhd[24:32])

	if timescale == 0 {
		return 0, false
	}

	return int(duration / uint64(timescale)), true
}

// findBox scans sibling boxes for the named one, returning its payload.
func findBox(data []byte, name string) ([]byte, bool) {
	offset := 0

	for offset+8 <= len(data) {
		size := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		boxName := string(data[offset+4 : offset+8])

		if size < 8 || offset+size > len(data) {
			return nil, false
		}

		if boxName == name {
			return data[offset+8 : offset+size], true
		}

		offset += size
	}

	return nil, false
}
