package gcs

import (
	"testing"

	"nusantara-culture-service/internal/logger"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"cdn", Config{Bucket: "assets", CDNDomain: "cdn.example.id"}, "https://cdn.example.id/food/r1/image/1-a.png"},
		{"base url", Config{Bucket: "assets", PublicBaseURL: "http://localhost:4443/"}, "http://localhost:4443/assets/food/r1/image/1-a.png"},
		{"gcs default", Config{Bucket: "assets"}, "https://storage.googleapis.com/assets/food/r1/image/1-a.png"},
	}
	for _, tc := range cases {
		store := newBucketStore(nil, tc.cfg, logger.NewNop())
		if got := store.PublicURL("/food/r1/image/1-a.png"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}
