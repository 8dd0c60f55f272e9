package persona

import (
	"fmt"
	"strings"
	"time"

	"persona_fetcher/internal/domain"
)

const (
	separator  = "=================================================="
	dateLayout = "2006-01-02 15:04:05"
)

// Render formats a summary as the plain-text persona printed to the user.
// Timestamps are shown in loc.
func Render(handle string, s domain.PersonaSummary, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Basic Persona Analysis for u/%s\n%s\n", handle, separator)
	b.WriteString("Top Interests:\n")
	for _, in := range s.TopInterests {
		fmt.Fprintf(&b, "- %s (mentioned %d times)\n", in.Word, in.Count)
	}

	mostActive := "N/A"
	if s.MostActiveAt != nil {
		mostActive = s.MostActiveAt.In(loc).Format(dateLayout)
	}

	b.WriteString("\nActivity Summary:\n")
	fmt.Fprintf(&b, "- %d posts analyzed\n", s.PostCount)
	fmt.Fprintf(&b, "- %d comments analyzed\n", s.CommentCount)
	fmt.Fprintf(&b, "- Most active time: %s\n", mostActive)
	b.WriteString("\nNote: This is a basic analysis based on word frequency.")

	return b.String()
}
