package templates

import (
	"fmt"
	"time"

	"github.com/a-h/templ"
)

func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func formatDateTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 15:04")
}

func runURL(id string) templ.SafeURL {
	return templ.URL("/runs/" + id)
}

func artifactURL(runID, name string) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/runs/%s/artifacts/%s", runID, name))
}
