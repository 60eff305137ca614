package export

import (
	"fmt"
	"strings"

	"github.com/reportchat/reportchat/internal/session"
)

// TextExporter renders the transcript as plain "Speaker: message" lines.
type TextExporter struct{}

func (e *TextExporter) Export(transcript []session.Turn) (string, error) {
	if len(transcript) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&b, "%s: %s\n\n", turn.Speaker, turn.Message)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
