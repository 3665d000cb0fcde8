// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package ops holds the translation core of the proxy: the static operation
// registry, the argument encoders, and the dispatcher that turns one logical
// operation call into one authenticated upstream request.
package ops

import (
	"fmt"
	"net/http"
)

// ParamKind says where a parameter travels in the upstream request.
type ParamKind string

const (
	KindPath  ParamKind = "path"
	KindQuery ParamKind = "query"
)

// ParamType is the accepted JSON type of a parameter value.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeNumber      ParamType = "number"
	TypeBoolean     ParamType = "boolean"
	TypeStringArray ParamType = "string-array"
)

// Param describes one declared parameter of an operation.
type Param struct {
	Name     string
	Kind     ParamKind
	Type     ParamType
	Required bool
	// Identifier marks creator handles that get a leading "@" stripped
	// before percent-encoding.
	Identifier  bool
	Description string
}

// BodyShape selects the POST body encoder for an operation.
type BodyShape int

const (
	// BodyNone marks GET operations; arguments travel in the URL.
	BodyNone BodyShape = iota
	// BodySearch marks structured-filter search operations.
	BodySearch
	// BodyNaturalLanguage marks free-text search operations.
	BodyNaturalLanguage
)

// Operation is one immutable registry entry: the mapping from a logical name
// to a concrete upstream request shape.
type Operation struct {
	Name        string
	Method      string
	Path        string
	Params      []Param
	Body        BodyShape
	Description string
}

func creatorID(name string) Param {
	return Param{Name: name, Kind: KindQuery, Type: TypeString, Required: true, Identifier: true,
		Description: "Creator identifier; a leading @ is accepted and stripped"}
}

func contentID() Param {
	return Param{Name: "contentId", Kind: KindQuery, Type: TypeString, Required: true,
		Description: "Identifier of a single piece of content"}
}

func getOp(name, path, description string, params ...Param) Operation {
	return Operation{Name: name, Method: http.MethodGet, Path: path, Params: params, Description: description}
}

func searchOp(name, path, platform string) Operation {
	return Operation{Name: name, Method: http.MethodPost, Path: path, Body: BodySearch,
		Description: fmt.Sprintf("Search %s creators with structured filters", platform)}
}

func nlsOp(name, path, platform string) Operation {
	return Operation{Name: name, Method: http.MethodPost, Path: path, Body: BodyNaturalLanguage,
		Description: fmt.Sprintf("Search %s creators with a natural-language query", platform)}
}

// registry is the full operation set, defined once at process start and never
// mutated afterwards.
var registry = []Operation{
	getOp("get_usage", "/usage", "Report API credit usage for the account",
		Param{Name: "start", Kind: KindQuery, Type: TypeString, Description: "Start date (inclusive)"},
		Param{Name: "end", Kind: KindQuery, Type: TypeString, Description: "End date (inclusive)"}),

	// Instagram
	getOp("instagram_get_profile", "/instagram/profile", "Fetch an Instagram creator profile", creatorID("uniqueId")),
	getOp("instagram_get_contact_details", "/instagram/contact", "Fetch contact details for an Instagram creator", creatorID("uniqueId")),
	getOp("instagram_get_content_detail", "/instagram/content-detail", "Fetch one Instagram post in detail", creatorID("uniqueId"), contentID()),
	getOp("instagram_get_performance", "/instagram/performance", "Fetch Instagram performance metrics", creatorID("uniqueId")),
	getOp("instagram_get_performance_history", "/instagram/performance-history", "Fetch historical Instagram performance", creatorID("uniqueId")),
	getOp("instagram_get_sponsorship", "/instagram/sponsorship", "Fetch Instagram sponsorship activity", creatorID("uniqueId")),
	getOp("instagram_get_audience", "/instagram/audience", "Fetch Instagram audience demographics", creatorID("uniqueId")),
	getOp("instagram_get_niches", "/instagram/niches", "Fetch the niches assigned to an Instagram creator", creatorID("uniqueId")),
	getOp("instagram_list_niches", "/instagram/niches/list", "List all supported Instagram niches"),
	searchOp("instagram_search", "/instagram/search", "Instagram"),
	nlsOp("instagram_natural_language_search", "/instagram/natural-language-search", "Instagram"),

	// YouTube
	getOp("youtube_get_profile", "/youtube/profile", "Fetch a YouTube channel profile", creatorID("channelId")),
	getOp("youtube_get_performance", "/youtube/performance", "Fetch YouTube performance metrics", creatorID("channelId")),
	getOp("youtube_get_performance_history", "/youtube/performance-history", "Fetch historical YouTube performance", creatorID("channelId")),
	getOp("youtube_get_content_detail", "/youtube/content-detail", "Fetch one YouTube video in detail", creatorID("channelId"), contentID()),
	getOp("youtube_get_sponsorship", "/youtube/sponsorship", "Fetch YouTube sponsorship activity", creatorID("channelId")),
	getOp("youtube_get_contact_details", "/youtube/contact", "Fetch contact details for a YouTube channel", creatorID("channelId")),
	getOp("youtube_get_audience", "/youtube/audience", "Fetch YouTube audience demographics", creatorID("channelId")),
	getOp("youtube_get_topics", "/youtube/topics", "Fetch the topics assigned to a YouTube channel", creatorID("channelId")),
	getOp("youtube_get_niches", "/youtube/niches", "Fetch the niches assigned to a YouTube channel", creatorID("channelId")),
	getOp("youtube_list_niches", "/youtube/niches/list", "List all supported YouTube niches"),
	getOp("youtube_list_topics", "/youtube/topics/list", "List all supported YouTube topics"),
	searchOp("youtube_search", "/youtube/search", "YouTube"),
	nlsOp("youtube_natural_language_search", "/youtube/natural-language-search", "YouTube"),

	// TikTok
	getOp("tiktok_get_profile", "/tiktok/profile", "Fetch a TikTok creator profile", creatorID("uniqueId")),
	getOp("tiktok_get_contact_details", "/tiktok/contact", "Fetch contact details for a TikTok creator", creatorID("uniqueId")),
	getOp("tiktok_get_performance", "/tiktok/performance", "Fetch TikTok performance metrics", creatorID("uniqueId")),
	getOp("tiktok_get_performance_history", "/tiktok/performance-history", "Fetch historical TikTok performance", creatorID("uniqueId")),
	getOp("tiktok_get_content_detail", "/tiktok/content-detail", "Fetch one TikTok video in detail", creatorID("uniqueId"), contentID()),
	getOp("tiktok_get_audience", "/tiktok/audience", "Fetch TikTok audience demographics", creatorID("uniqueId")),
	getOp("tiktok_get_niches", "/tiktok/niches", "Fetch the niches assigned to a TikTok creator", creatorID("uniqueId")),
	getOp("tiktok_list_niches", "/tiktok/niches/list", "List all supported TikTok niches"),
	searchOp("tiktok_search", "/tiktok/search", "TikTok"),
	nlsOp("tiktok_natural_language_search", "/tiktok/natural-language-search", "TikTok"),
}

var byName = make(map[string]Operation, len(registry))

func init() {
	for _, op := range registry {
		if _, exists := byName[op.Name]; exists {
			panic(fmt.Sprintf("ops: duplicate operation name %q", op.Name))
		}
		byName[op.Name] = op
	}
}

// Lookup returns the registry entry for name.
func Lookup(name string) (Operation, bool) {
	op, ok := byName[name]
	return op, ok
}

// All returns every registered operation in declaration order. The returned
// slice must not be modified.
func All() []Operation {
	return registry
}
