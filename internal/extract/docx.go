package extract

import (
	"strings"

	"github.com/lu4p/cat"
)

func extractDOCX(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
