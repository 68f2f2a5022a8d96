package services

import (
	"horeca-compliance-backend/db/models"
)

// CaseSearchDoc is the stored shape of a case in the search index.
type CaseSearchDoc struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CaseType     string `json:"case_type"`
	Status       string `json:"status"`
	Municipality string `json:"municipality"`
}

func NewCaseSearchDoc(cs *models.Case) CaseSearchDoc {
	doc := CaseSearchDoc{
		ID:       cs.ID.String(),
		ClientID: cs.ClientID.String(),
		Title:    cs.Title,
		CaseType: string(cs.CaseType),
		Status:   string(cs.Status),
	}
	if cs.Description != nil {
		doc.Description = *cs.Description
	}
	if cs.Municipality != nil {
		doc.Municipality = *cs.Municipality
	}
	return doc
}

// ClientSearchDoc is the stored shape of a client organization.
type ClientSearchDoc struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Status      string `json:"status"`
}

func NewClientSearchDoc(client *models.ClientOrganization) ClientSearchDoc {
	doc := ClientSearchDoc{
		ID:          client.ID.String(),
		CompanyName: client.CompanyName,
		ContactName: client.ContactName,
		Email:       client.Email,
		Status:      string(client.Status),
	}
	if client.City != nil {
		doc.City = *client.City
	}
	return doc
}
