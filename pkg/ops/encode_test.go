// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package ops

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
)

func TestSanitizeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"@tiktok", "tiktok"},
		{"tiktok", "tiktok"},
		{"@@double", "%40double"},
		{"name with space", "name+with+space"},
		{"UCBR8-60-B28hp2BmDPdntcQ", "UCBR8-60-B28hp2BmDPdntcQ"},
		{"", ""},
		{"@", ""},
	}
	for _, tc := range cases {
		if got := SanitizeID(tc.in); got != tc.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIDStripsAtMostOneAt(t *testing.T) {
	if SanitizeID("@tiktok") != SanitizeID("tiktok") {
		t.Error("@-prefixed and bare identifiers must sanitize equally")
	}
}

func TestEncodeQueryKeepsFalsyValues(t *testing.T) {
	got := encodeQuery([]queryPair{
		{key: "offset", value: "0"},
		{key: "desc", value: "false"},
		{key: "q", value: ""},
	})
	if got != "offset=0&desc=false&q=" {
		t.Errorf("unexpected query %q", got)
	}
}

func TestEncodeQueryEmpty(t *testing.T) {
	if got := encodeQuery(nil); got != "" {
		t.Errorf("unexpected query %q", got)
	}
}

func decodeBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}

func TestEncodeSearchBodyDefaults(t *testing.T) {
	filters := []any{map[string]any{"filterName": "totalFollowers", "op": ">", "value": float64(100000)}}

	raw, err := encodeSearchBody("instagram_search", map[string]any{"filters": filters})
	if err != nil {
		t.Fatalf("encodeSearchBody: %v", err)
	}

	body := decodeBody(t, raw)
	if body["pageSize"] != float64(20) {
		t.Errorf("pageSize = %v, want 20", body["pageSize"])
	}
	if body["offset"] != float64(0) {
		t.Errorf("offset = %v, want 0", body["offset"])
	}
	if body["desc"] != true {
		t.Errorf("desc = %v, want true", body["desc"])
	}
	if _, present := body["sortBy"]; present {
		t.Error("sortBy must be omitted when absent")
	}
	if !reflect.DeepEqual(body["filters"], filters) {
		t.Errorf("filters not passed through verbatim: %v", body["filters"])
	}
}

func TestEncodeSearchBodyPresenceBeatsTruthiness(t *testing.T) {
	raw, err := encodeSearchBody("tiktok_search", map[string]any{
		"filters":  []any{},
		"pageSize": float64(50),
		"offset":   float64(0),
		"desc":     false,
	})
	if err != nil {
		t.Fatalf("encodeSearchBody: %v", err)
	}

	body := decodeBody(t, raw)
	if body["offset"] != float64(0) {
		t.Errorf("explicit offset 0 lost: %v", body["offset"])
	}
	if body["desc"] != false {
		t.Errorf("explicit desc=false lost: %v", body["desc"])
	}
	if body["pageSize"] != float64(50) {
		t.Errorf("pageSize = %v, want 50", body["pageSize"])
	}
}

func TestEncodeSearchBodySortByPresent(t *testing.T) {
	raw, err := encodeSearchBody("youtube_search", map[string]any{
		"filters": []any{},
		"sortBy":  "totalViews",
	})
	if err != nil {
		t.Fatalf("encodeSearchBody: %v", err)
	}
	if body := decodeBody(t, raw); body["sortBy"] != "totalViews" {
		t.Errorf("sortBy = %v", body["sortBy"])
	}
}

func TestEncodeSearchBodyMissingFilters(t *testing.T) {
	_, err := encodeSearchBody("instagram_search", map[string]any{"pageSize": float64(10)})

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != apierr.KindMissingParameter {
		t.Fatalf("expected missing_parameter error, got %v", err)
	}
}

func TestEncodeSearchBodyRejectsNonArrayFilters(t *testing.T) {
	_, err := encodeSearchBody("instagram_search", map[string]any{"filters": "totalFollowers>100"})

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != apierr.KindInvalidArgument {
		t.Fatalf("expected invalid_argument error, got %v", err)
	}
}

func TestEncodeSearchBodyFilterCeiling(t *testing.T) {
	filters := make([]any, 11)
	for i := range filters {
		filters[i] = map[string]any{"filterName": "f", "op": "=", "value": "x"}
	}

	if _, err := encodeSearchBody("instagram_search", map[string]any{"filters": filters}); err == nil {
		t.Fatal("expected rejection of more than 10 filters")
	}

	if _, err := encodeSearchBody("instagram_search", map[string]any{"filters": filters[:10]}); err != nil {
		t.Fatalf("10 filters must be accepted: %v", err)
	}
}

func TestEncodeSearchBodyFilterShape(t *testing.T) {
	cases := []struct {
		name   string
		filter map[string]any
	}{
		{"missing filterName", map[string]any{"op": "=", "value": "x"}},
		{"missing op", map[string]any{"filterName": "f", "value": "x"}},
		{"unsupported op", map[string]any{"filterName": "f", "op": "!=", "value": "x"}},
		{"missing value", map[string]any{"filterName": "f", "op": "="}},
		{"in with scalar", map[string]any{"filterName": "f", "op": "in", "value": "x"}},
		{"= with sequence", map[string]any{"filterName": "f", "op": "=", "value": []any{"x"}}},
		{"non-bool fuzzy", map[string]any{"filterName": "f", "op": "=", "value": "x", "isFuzzySearch": "yes"}},
	}

	for _, tc := range cases {
		_, err := encodeSearchBody("instagram_search", map[string]any{"filters": []any{tc.filter}})
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestEncodeSearchBodyValidFilterVariants(t *testing.T) {
	filters := []any{
		map[string]any{"filterName": "country", "op": "in", "value": []any{"US", "DE"}},
		map[string]any{"filterName": "totalFollowers", "op": ">", "value": float64(1000)},
		map[string]any{"filterName": "bio", "op": "=", "value": "travel", "isFuzzySearch": true},
		map[string]any{"filterName": "isVerified", "op": "=", "value": true},
	}

	if _, err := encodeSearchBody("tiktok_search", map[string]any{"filters": filters}); err != nil {
		t.Fatalf("valid filters rejected: %v", err)
	}
}

func TestEncodeSearchBodyPageSizeBounds(t *testing.T) {
	for _, size := range []float64{0, 101, -5} {
		_, err := encodeSearchBody("instagram_search", map[string]any{"filters": []any{}, "pageSize": size})
		if err == nil {
			t.Errorf("pageSize %v: expected rejection", size)
		}
	}
}

func TestEncodeNLSBody(t *testing.T) {
	raw, err := encodeNLSBody("youtube_natural_language_search", map[string]any{
		"query": "tech reviewers with over 1M subscribers",
	})
	if err != nil {
		t.Fatalf("encodeNLSBody: %v", err)
	}

	body := decodeBody(t, raw)
	want := map[string]any{
		"query":    "tech reviewers with over 1M subscribers",
		"pageSize": float64(20),
		"offset":   float64(0),
	}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %v, want %v", body, want)
	}
}

func TestEncodeNLSBodyMissingQuery(t *testing.T) {
	_, err := encodeNLSBody("youtube_natural_language_search", map[string]any{"pageSize": float64(5)})

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != apierr.KindMissingParameter {
		t.Fatalf("expected missing_parameter error, got %v", err)
	}
}
