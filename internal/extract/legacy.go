package extract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Legacy binary formats go through external converters; the context
// carries the per-file timeout, which kills a stuck subprocess.
func extractLegacy(ctx context.Context, path string, mimeType string) (string, error) {
	var cmd *exec.Cmd
	switch mimeType {
	case MimeLegacyDoc:
		cmd = exec.CommandContext(ctx, "antiword", "-w", "0", path)
	case MimeLegacyXLS:
		cmd = exec.CommandContext(ctx, "xls2csv", path)
	default:
		return "", errUnsupported(mimeType)
	}

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd.Path, err)
	}
	return strings.TrimSpace(string(out)), nil
}
