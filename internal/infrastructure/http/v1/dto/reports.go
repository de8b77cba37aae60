package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

// DailyReportQuery selects the day and, for administrators, one moderator.
type DailyReportQuery struct {
	Day         string `form:"day"`
	ModeratorID string `form:"moderatorId"`
}

// Parse validates the query. An empty day means today.
func (q DailyReportQuery) Parse() (types.Day, *id.ID, error) {
	day, err := OptionalDay("day", q.Day)
	if err != nil {
		return types.Day{}, nil, err
	}
	moderatorID, err := OptionalID("moderatorId", q.ModeratorID)
	if err != nil {
		return types.Day{}, nil, err
	}
	return day, moderatorID, nil
}
