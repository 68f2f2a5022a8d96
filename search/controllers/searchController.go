package controllers

import (
	"strings"

	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/search/services"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	Indexing services.IndexingServiceInterface
}

func NewSearchController(indexing services.IndexingServiceInterface) *SearchController {
	return &SearchController{Indexing: indexing}
}

// SearchCasesController full-text searches cases. Client actors are scoped
// to their own organization with a conjunct term filter.
func (sc *SearchController) SearchCasesController(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Query parameter q is required",
		})
	}

	actor := middleware.ActorFromContext(c)

	var q query.Query = bleve.NewMatchQuery(term)
	if actor.IsClient() {
		scoped := bleve.NewTermQuery(actor.Client.ID.String())
		scoped.SetField("client_id")
		q = bleve.NewConjunctionQuery(q, scoped)
	}

	result, err := sc.Indexing.SearchIndex(services.CaseIndex, q, 25)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": searchHits(result)})
}

// SearchClientsController full-text searches client organizations. Staff
// only.
func (sc *SearchController) SearchClientsController(c *fiber.Ctx) error {
	if actor := middleware.ActorFromContext(c); actor == nil || !actor.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Forbidden",
		})
	}

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Query parameter q is required",
		})
	}

	result, err := sc.Indexing.SearchIndex(services.ClientIndex, bleve.NewMatchQuery(term), 25)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": searchHits(result)})
}

func searchHits(result *bleve.SearchResult) []fiber.Map {
	hits := make([]fiber.Map, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, fiber.Map{
			"id":     hit.ID,
			"score":  hit.Score,
			"fields": hit.Fields,
		})
	}
	return hits
}
