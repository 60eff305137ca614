package export

import (
	"fmt"
	"strings"

	"github.com/reportchat/reportchat/internal/session"
)

// MarkdownExporter renders the transcript as markdown with a heading per
// turn.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(transcript []session.Turn) (string, error) {
	if len(transcript) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", turn.Speaker, turn.Message)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
