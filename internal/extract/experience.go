package extract

import (
	"regexp"
	"strings"
)

// ExperienceEntry is one detected date range with an optional nearby title.
type ExperienceEntry struct {
	Duration  string `json:"duration"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
	Title     string `json:"title,omitempty"`
}

// titleWindow is how many lines above and below a date range are searched
// for a job title.
const titleWindow = 2

var (
	// Tried in order per line; group 1 is the start token, group 2 the end.
	dateRangeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`),
		regexp.MustCompile(`(?i)(\w+\s+\d{4})\s*[-–]\s*(\w+\s+\d{4}|present|current)`),
	}

	jobTitleRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(software engineer|developer|data scientist|analyst|manager|director|lead|senior|junior|intern)`),
		regexp.MustCompile(`(?i)(full stack|backend|frontend|devops|ml engineer|product manager)`),
	}
)

// ExtractExperience scans text line by line for date ranges. Each matching
// line yields one entry, in document order.
func ExtractExperience(text string) []ExperienceEntry {
	lines := strings.Split(text, "\n")

	var entries []ExperienceEntry
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		start, end, ok := matchDateRange(line)
		if !ok {
			continue
		}
		entries = append(entries, ExperienceEntry{
			Duration:  start + " - " + end,
			StartDate: start,
			EndDate:   end,
			IsCurrent: isCurrentMarker(end),
			Title:     nearbyTitle(lines, i),
		})
	}
	return entries
}

func matchDateRange(line string) (start, end string, ok bool) {
	for _, re := range dateRangeRes {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

func isCurrentMarker(token string) bool {
	return strings.EqualFold(token, "present") || strings.EqualFold(token, "current")
}

func nearbyTitle(lines []string, at int) string {
	from := max(0, at-titleWindow)
	to := min(len(lines), at+titleWindow+1)
	for _, line := range lines[from:to] {
		line = strings.TrimSpace(line)
		for _, re := range jobTitleRes {
			if re.MatchString(line) {
				return TitleCase(line)
			}
		}
	}
	return ""
}
