package pathutil

import (
	"fmt"
	"testing"
)

func BenchmarkNormalizePath(b *testing.B) {
	cases := map[string]string{
		"served":     "/api/v1/news",
		"with_query": "/api/v1/news?limit=10&category=Aviation",
		"unserved":   "/unknown/very/long/path/that/is/not/served/123",
	}
	for name, path := range cases {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = NormalizePath(path)
			}
		})
	}
}

// Scanners hitting random paths must not blow up the metrics label space:
// every unserved path has to collapse into the single "other" bucket.
func BenchmarkNormalizePath_ScannerTraffic(b *testing.B) {
	paths := make([]string, 10000)
	for i := range paths {
		paths[i] = fmt.Sprintf("/scan/%d", i+1)
	}

	labels := make(map[string]struct{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		labels[NormalizePath(paths[i%len(paths)])] = struct{}{}
	}
	b.StopTimer()
	if len(labels) != 1 {
		b.Fatalf("expected 1 metric label for scanner paths, got %d", len(labels))
	}
}
