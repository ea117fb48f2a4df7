package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate interpreta uma data YYYY-MM-DD no fuso informado.
// String vazia retorna nil, sem erro.
func ParseDate(dateStr string, loc *time.Location) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	if loc == nil {
		loc = time.Local
	}

	date, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// FormatDate formata uma data opcional como YYYY-MM-DD
func FormatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(DateLayout)
}
