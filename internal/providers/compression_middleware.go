package providers

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// log pages are large JSON arrays; anything under 1KB is sent as is.
const minCompressSize = 1024

func CompressionMiddleware(next http.Handler) (http.Handler, error) {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minCompressSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}
	return wrapper(next), nil
}
