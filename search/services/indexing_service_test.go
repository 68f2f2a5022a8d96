package services

import (
	"sync"
	"testing"

	"horeca-compliance-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *IndexingService {
	t.Helper()
	return NewIndexingService(zap.NewNop(), t.TempDir())
}

func scopedCaseQuery(term, clientID string) query.Query {
	match := bleve.NewMatchQuery(term)
	scoped := bleve.NewTermQuery(clientID)
	scoped.SetField("client_id")
	return bleve.NewConjunctionQuery(match, scoped)
}

func TestClientScopedSearchMatchesOwnCases(t *testing.T) {
	svc := newTestService(t)

	clientID := uuid.New()
	description := "Terras aan de gracht"
	cs := &models.Case{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       "Terrasvergunning",
		Description: &description,
		CaseType:    models.CaseTerrasvergunning,
		Status:      models.StatusIntake,
	}

	if err := svc.IndexDocument(CaseIndex, cs.ID.String(), NewCaseSearchDoc(cs)); err != nil {
		t.Fatal(err)
	}

	// The hyphenated UUID must survive as one term for the scope filter.
	result, err := svc.SearchIndex(CaseIndex, scopedCaseQuery("terras", clientID.String()), 25)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 1 {
		t.Fatalf("client searching its own case should get 1 hit, got %d", len(result.Hits))
	}
	if result.Hits[0].ID != cs.ID.String() {
		t.Errorf("got hit %s, want %s", result.Hits[0].ID, cs.ID)
	}
}

func TestClientScopedSearchExcludesForeignCases(t *testing.T) {
	svc := newTestService(t)

	cs := &models.Case{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Title:    "Alcoholvergunning",
		CaseType: models.CaseAlcoholvergunning,
		Status:   models.StatusReview,
	}
	if err := svc.IndexDocument(CaseIndex, cs.ID.String(), NewCaseSearchDoc(cs)); err != nil {
		t.Fatal(err)
	}

	result, err := svc.SearchIndex(CaseIndex, scopedCaseQuery("alcohol", uuid.New().String()), 25)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 0 {
		t.Fatalf("foreign client must get 0 hits, got %d", len(result.Hits))
	}
}

func TestDeleteDocumentRemovesHit(t *testing.T) {
	svc := newTestService(t)

	cs := &models.Case{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Title:    "Overname horecapand",
		CaseType: models.CaseOvername,
		Status:   models.StatusIntake,
	}
	if err := svc.IndexDocument(CaseIndex, cs.ID.String(), NewCaseSearchDoc(cs)); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteDocument(CaseIndex, cs.ID.String()); err != nil {
		t.Fatal(err)
	}

	result, err := svc.SearchIndex(CaseIndex, bleve.NewMatchQuery("overname"), 25)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 0 {
		t.Fatalf("deleted document must not be found, got %d hits", len(result.Hits))
	}
}

func TestConcurrentFirstUse(t *testing.T) {
	svc := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cs := &models.Case{
				ID:       uuid.New(),
				ClientID: uuid.New(),
				Title:    "Verbouwing",
				CaseType: models.CaseVerbouwing,
				Status:   models.StatusIntake,
			}
			if err := svc.IndexDocument(CaseIndex, cs.ID.String(), NewCaseSearchDoc(cs)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	result, err := svc.SearchIndex(CaseIndex, bleve.NewMatchQuery("verbouwing"), 25)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 8 {
		t.Fatalf("all concurrent writes must land in one index, got %d hits", len(result.Hits))
	}
}
