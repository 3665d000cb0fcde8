// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package ops

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultOffset   = 0
	maxFilters      = 10
)

// SanitizeID normalizes a user-supplied creator identifier: at most one
// leading "@" is stripped, then the result is percent-encoded for use in a
// query component. Total over all inputs, the empty string included.
func SanitizeID(id string) string {
	id = strings.TrimPrefix(id, "@")
	return url.QueryEscape(id)
}

// queryPair is one already-escaped key/value destined for the query string.
type queryPair struct {
	key   string
	value string
}

// encodeQuery joins pre-escaped pairs into a canonical query string. Pair
// order follows the registry's parameter declaration order. Absent optional
// parameters never reach this function; present-but-falsy values do, so an
// offset of 0 or desc=false survives encoding.
func encodeQuery(pairs []queryPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+p.value)
	}
	return strings.Join(parts, "&")
}

// formatScalar renders an argument value for use in a query string. Arguments
// arrive either as JSON-decoded values (string/float64/bool) or as raw query
// strings from the HTTP shell.
func formatScalar(op, name string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		return "", apierr.Invalid("operation %q: parameter %q has unsupported type %T", op, name, v)
	}
}

// searchBody is the JSON shape of a structured-filter search request. SortBy
// is a pointer so an absent field is omitted while a present empty string is
// still sent.
type searchBody struct {
	Filters  []any   `json:"filters"`
	PageSize int     `json:"pageSize"`
	Offset   int     `json:"offset"`
	SortBy   *string `json:"sortBy,omitempty"`
	Desc     bool    `json:"desc"`
}

// nlsBody is the JSON shape of a natural-language search request.
type nlsBody struct {
	Query    string `json:"query"`
	PageSize int    `json:"pageSize"`
	Offset   int    `json:"offset"`
}

var validFilterOps = map[string]struct{}{"in": {}, "=": {}, "<": {}, ">": {}}

// validateFilter checks the shape of one filter constraint. Field names are
// not checked against any upstream schema; that validation is the upstream's.
func validateFilter(opName string, index int, raw any) error {
	filter, ok := raw.(map[string]any)
	if !ok {
		return apierr.Invalid("operation %q: filters[%d] must be an object", opName, index)
	}

	name, ok := filter["filterName"].(string)
	if !ok || name == "" {
		return apierr.Invalid("operation %q: filters[%d] is missing filterName", opName, index)
	}

	fop, ok := filter["op"].(string)
	if !ok {
		return apierr.Invalid("operation %q: filters[%d] (%s) is missing op", opName, index, name)
	}
	if _, ok := validFilterOps[fop]; !ok {
		return apierr.Invalid("operation %q: filters[%d] (%s) has unsupported op %q", opName, index, name, fop)
	}

	value, ok := filter["value"]
	if !ok {
		return apierr.Invalid("operation %q: filters[%d] (%s) is missing value", opName, index, name)
	}
	_, isSeq := value.([]any)
	if fop == "in" && !isSeq {
		return apierr.Invalid("operation %q: filters[%d] (%s) op \"in\" requires a sequence value", opName, index, name)
	}
	if fop != "in" && isSeq {
		return apierr.Invalid("operation %q: filters[%d] (%s) op %q requires a scalar value", opName, index, name, fop)
	}

	if fuzzy, present := filter["isFuzzySearch"]; present {
		if _, ok := fuzzy.(bool); !ok {
			return apierr.Invalid("operation %q: filters[%d] (%s) isFuzzySearch must be a boolean", opName, index, name)
		}
	}

	return nil
}

// intArg reads a present integer argument, rejecting fractional numbers.
func intArg(opName, name string, v any) (int, error) {
	switch val := v.(type) {
	case float64:
		if val != float64(int(val)) {
			return 0, apierr.Invalid("operation %q: %s must be an integer", opName, name)
		}
		return int(val), nil
	case int:
		return val, nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, apierr.Invalid("operation %q: %s must be an integer", opName, name)
		}
		return int(n), nil
	default:
		return 0, apierr.Invalid("operation %q: %s must be an integer", opName, name)
	}
}

// pagination applies the pageSize/offset defaults, keyed on presence rather
// than truthiness so an explicit offset of 0 is honored as given.
func pagination(opName string, args map[string]any) (pageSize, offset int, err error) {
	pageSize = defaultPageSize
	if raw, present := args["pageSize"]; present {
		pageSize, err = intArg(opName, "pageSize", raw)
		if err != nil {
			return 0, 0, err
		}
		if pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, apierr.Invalid("operation %q: pageSize must be between 1 and %d", opName, maxPageSize)
		}
	}

	offset = defaultOffset
	if raw, present := args["offset"]; present {
		offset, err = intArg(opName, "offset", raw)
		if err != nil {
			return 0, 0, err
		}
		if offset < 0 {
			return 0, 0, apierr.Invalid("operation %q: offset must not be negative", opName)
		}
	}

	return pageSize, offset, nil
}

// encodeSearchBody builds the JSON body of a structured search. Filters pass
// through verbatim after a shape check; defaults apply only to absent fields.
func encodeSearchBody(opName string, args map[string]any) ([]byte, error) {
	rawFilters, present := args["filters"]
	if !present {
		return nil, apierr.MissingParameter(opName, "filters")
	}
	filters, ok := rawFilters.([]any)
	if !ok {
		return nil, apierr.Invalid("operation %q: filters must be an array", opName)
	}
	if len(filters) > maxFilters {
		return nil, apierr.Invalid("operation %q: at most %d filters are supported, got %d", opName, maxFilters, len(filters))
	}
	for i, f := range filters {
		if err := validateFilter(opName, i, f); err != nil {
			return nil, err
		}
	}

	pageSize, offset, err := pagination(opName, args)
	if err != nil {
		return nil, err
	}

	body := searchBody{
		Filters:  filters,
		PageSize: pageSize,
		Offset:   offset,
		Desc:     true,
	}

	if raw, present := args["sortBy"]; present {
		sortBy, ok := raw.(string)
		if !ok {
			return nil, apierr.Invalid("operation %q: sortBy must be a string", opName)
		}
		body.SortBy = &sortBy
	}
	if raw, present := args["desc"]; present {
		desc, ok := raw.(bool)
		if !ok {
			return nil, apierr.Invalid("operation %q: desc must be a boolean", opName)
		}
		body.Desc = desc
	}

	return json.Marshal(body)
}

// encodeNLSBody builds the body of a natural-language search: exactly query,
// pageSize, and offset.
func encodeNLSBody(opName string, args map[string]any) ([]byte, error) {
	raw, present := args["query"]
	if !present {
		return nil, apierr.MissingParameter(opName, "query")
	}
	query, ok := raw.(string)
	if !ok {
		return nil, apierr.Invalid("operation %q: query must be a string", opName)
	}

	pageSize, offset, err := pagination(opName, args)
	if err != nil {
		return nil, err
	}

	return json.Marshal(nlsBody{Query: query, PageSize: pageSize, Offset: offset})
}
