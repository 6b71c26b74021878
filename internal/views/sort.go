package views

import "strings"

type Sort struct {
	Column string
	Desc   bool
}

// VideoSortKeys maps accepted sortBy values onto columns of the video query.
var VideoSortKeys = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

// ParseSort only accepts keys from allowed; unknown keys sort by createdAt.
// Direction is descending unless sortType is "asc".
func ParseSort(sortBy, sortType string, allowed map[string]string) Sort {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed["createdAt"]
	}
	return Sort{
		Column: column,
		Desc:   !strings.EqualFold(strings.TrimSpace(sortType), "asc"),
	}
}

func (s Sort) clause() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}
