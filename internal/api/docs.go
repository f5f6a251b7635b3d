package api

import (
	"fmt"

	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the REST surface. The
// inbound gateway is deliberately left out; its contract is private to
// the email transport integration.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.Docs.Title, cfg.Version)
	spec.SetDescription(cfg.API.Docs.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Error": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error":   {Type: "string"},
				"message": {Type: "string"},
			},
		},
	})
	spec.Components.AddResponses(map[string]*openapi.Response{
		"NotFound": openapi.ResponseJSON("Record not found.", "Error"),
	})

	for _, r := range []struct {
		prefix string
		tag    string
		noun   string
	}{
		{"/comps", "comps", "transaction comp"},
		{"/permits", "permits", "building permit"},
		{"/contacts", "contacts", "prospect contact"},
		{"/availabilities", "availabilities", "space availability"},
		{"/leases", "leases", "lease abstract"},
	} {
		addCollection(spec, r.prefix, r.tag, r.noun)
	}

	spec.Paths["/failures"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List extraction failures, newest first.",
			Tags:    []string{"failures"},
			Parameters: []*openapi.Parameter{
				{Name: "tag", In: "query", Schema: &openapi.Schema{Type: "string"}},
				{Name: "since", In: "query", Schema: &openapi.Schema{Type: "string", Format: "date"}},
				{Name: "limit", In: "query", Schema: &openapi.Schema{Type: "integer"}},
			},
			Responses: map[int]*openapi.Response{200: {Description: "A page of failure entries."}},
		},
		Delete: &openapi.Operation{
			Summary: "Prune failure entries older than the given timestamp.",
			Tags:    []string{"failures"},
			Parameters: []*openapi.Parameter{
				{Name: "olderThan", In: "query", Required: true, Schema: &openapi.Schema{Type: "string", Format: "date-time"}},
			},
			Responses: map[int]*openapi.Response{200: {Description: "Number of removed entries."}},
		},
	}

	return openapi.MarshalJSON(spec)
}

func addCollection(spec *openapi.Spec, prefix, tag, noun string) {
	spec.Paths[prefix] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: fmt.Sprintf("List %s records.", noun),
			Tags:    []string{tag},
			Parameters: []*openapi.Parameter{
				{Name: "page", In: "query", Schema: &openapi.Schema{Type: "integer"}},
				{Name: "page_size", In: "query", Schema: &openapi.Schema{Type: "integer"}},
			},
			Responses: map[int]*openapi.Response{200: {Description: fmt.Sprintf("A page of %s records.", noun)}},
		},
	}
	spec.Paths[prefix+"/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: fmt.Sprintf("Fetch one %s record.", noun),
			Tags:    []string{tag},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "integer"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: fmt.Sprintf("The %s record.", noun)},
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary: fmt.Sprintf("Delete one %s record.", noun),
			Tags:    []string{tag},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "integer"}},
			},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted."},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
