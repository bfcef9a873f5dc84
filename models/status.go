package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a topic or a reply.
// It is persisted as a small integer and rendered as its name only in responses.
type Status uint8

const (
	StatusOpen Status = iota
	StatusInProgress
	StatusClosed
	StatusUnsolved
)

var statusNames = [...]string{
	StatusOpen:       "OPEN",
	StatusInProgress: "IN_PROGRESS",
	StatusClosed:     "CLOSED",
	StatusUnsolved:   "UNSOLVED",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// ParseStatus accepts the names returned by String, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", raw)
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return int64(s), nil
}

func (s *Status) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case int16:
		n = int64(v)
	case []byte:
		parsed, err := ParseStatus(string(v))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	if n < 0 || int(n) >= len(statusNames) {
		return fmt.Errorf("status %d out of range", n)
	}
	*s = Status(n)
	return nil
}
