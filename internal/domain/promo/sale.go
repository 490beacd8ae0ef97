package promo

import (
	"errors"
	"time"
)

// FlashSale is a time-boxed discount window. It is "temporally active"
// when IsActive is set and the current time falls within
// [StartTime, EndTime], both endpoints inclusive.
type FlashSale struct {
	ID        int64
	Name      string
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewFlashSale(name string, startTime, endTime time.Time) (*FlashSale, error) {
	if name == "" {
		return nil, errors.New("flash sale name cannot be empty")
	}

	if !startTime.Before(endTime) {
		return nil, errors.New("start time must be before end time")
	}

	now := time.Now().UTC()
	return &FlashSale{
		Name:      name,
		StartTime: startTime,
		EndTime:   endTime,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// WindowContains reports whether now falls inside the sale window.
// Boundaries are inclusive: an admission at exactly StartTime or exactly
// EndTime is accepted.
func (s *FlashSale) WindowContains(now time.Time) bool {
	return !now.Before(s.StartTime) && !now.After(s.EndTime)
}

func (s *FlashSale) TemporallyActive(now time.Time) bool {
	return s.IsActive && s.WindowContains(now)
}
