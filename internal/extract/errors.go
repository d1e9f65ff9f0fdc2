package extract

import "fmt"

func errUnsupported(mimeType string) error {
	return fmt.Errorf("unsupported mime type: %s", mimeType)
}

func panicError(rec any) error {
	return fmt.Errorf("extractor panic: %v", rec)
}
