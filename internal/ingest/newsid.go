package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// 언론사코드.YYYYMMDDHHmmSSnnn, e.g. 02100801.20240331103032001
	fullNewsID = regexp.MustCompile(`^\d{8}\.\d{14,}$`)
	// 언론사코드.YYYYMMDD
	dateOnlyNewsID = regexp.MustCompile(`^\d{8}\.\d{8}$`)
)

// dateOnlySuffix completes a date-only news id to the full pattern.
const dateOnlySuffix = "000001"

// NormalizeNewsID validates an archive news id of the form
// "<8-digit press code>.<timestamp>". Ids carrying only a date are padded
// with dateOnlySuffix. Any other shape is rejected.
func NormalizeNewsID(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch {
	case fullNewsID.MatchString(id):
		return id, nil
	case dateOnlyNewsID.MatchString(id):
		return id + dateOnlySuffix, nil
	default:
		return "", fmt.Errorf("invalid news id %q", id)
	}
}

// NormalizeDate accepts the 일자 column as 2006-01-02 or as the integer form
// 20060102 (spreadsheet exports) and returns it as 2006-01-02.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	// Spreadsheet cells read as numbers may carry a trailing ".0".
	value = strings.TrimSuffix(value, ".0")

	for _, layout := range []string{"2006-01-02", "20060102"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", value)
}
