package services

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// SafeSearchResult holds the Vision likelihoods for one image.
type SafeSearchResult struct {
	Adult    string
	Violence string
	Racy     string
	Spoof    string
	Medical  string
}

// likelihoodRank orders Vision's Likelihood enum. Unknown strings rank 0.
var likelihoodRank = map[string]int{
	"UNKNOWN":       0,
	"VERY_UNLIKELY": 1,
	"UNLIKELY":      2,
	"POSSIBLE":      3,
	"LIKELY":        4,
	"VERY_LIKELY":   5,
}

// unsafeFrom is the lowest likelihood at which a participant photo is refused.
const unsafeFrom = "LIKELY"

// IsUnsafe reports whether adult, violent or racy content reaches unsafeFrom.
// Spoof and medical are informational only.
func (r *SafeSearchResult) IsUnsafe() bool {
	limit := likelihoodRank[unsafeFrom]
	for _, l := range []string{r.Adult, r.Violence, r.Racy} {
		if likelihoodRank[l] >= limit {
			return true
		}
	}
	return false
}

// SafeSearchDetector runs Vision SAFE_SEARCH_DETECTION on objects already in
// Cloud Storage. One detector is shared by all uploads.
type SafeSearchDetector struct {
	svc *vision.Service
}

// NewSafeSearchDetector uses Application Default Credentials unless opts say
// otherwise.
// Ref: https://docs.cloud.google.com/vision/docs/detecting-safe-search#vision_safe_search_detection_gcs-go
func NewSafeSearchDetector(ctx context.Context, opts ...option.ClientOption) (*SafeSearchDetector, error) {
	opts = append([]option.ClientOption{option.WithScopes(vision.CloudPlatformScope)}, opts...)
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision: new service: %w", err)
	}
	return &SafeSearchDetector{svc: svc}, nil
}

// Detect annotates the image at gcsURI (gs://bucket/object). An image Vision
// has nothing to say about comes back as an empty, safe result.
func (d *SafeSearchDetector) Detect(ctx context.Context, gcsURI string) (*SafeSearchResult, error) {
	batch := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Source: &vision.ImageSource{GcsImageUri: gcsURI}},
			Features: []*vision.Feature{{Type: "SAFE_SEARCH_DETECTION"}},
		}},
	}
	resp, err := d.svc.Images.Annotate(batch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision: annotate %s: %w", gcsURI, err)
	}
	if len(resp.Responses) == 0 {
		return &SafeSearchResult{}, nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("vision: annotate %s: %s", gcsURI, r.Error.Message)
	}
	ss := r.SafeSearchAnnotation
	if ss == nil {
		return &SafeSearchResult{}, nil
	}
	return &SafeSearchResult{
		Adult:    ss.Adult,
		Violence: ss.Violence,
		Racy:     ss.Racy,
		Spoof:    ss.Spoof,
		Medical:  ss.Medical,
	}, nil
}
