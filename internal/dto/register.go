package dto

import (
	"strings"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/ShrishPande/tallyinsight/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// RegisterQuery defines query parameters for listing a register.
// A token, when present, overrides page and pageSize.
type RegisterQuery struct {
	CompanyID string `form:"companyId"` // defaults to the session's selection
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"pageSize,default=10"`
	Token     string `form:"token"`
}

// ExportQuery defines query parameters for a register export.
type ExportQuery struct {
	CompanyID string `form:"companyId"`
	Format    string `form:"format"`
	IDs       string `form:"ids"` // comma separated
}

// ParsedIDs splits IDs, dropping blanks.
func (q ExportQuery) ParsedIDs() []string {
	var ids []string
	for _, id := range strings.Split(q.IDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// TransactionResponse defines the data returned for one register row.
type TransactionResponse struct {
	ID        string                   `json:"id"`
	Date      string                   `json:"date"`
	InvoiceNo string                   `json:"invoiceNo"`
	PartyName string                   `json:"partyName"`
	Amount    decimal.Decimal          `json:"amount"`
	Status    domain.TransactionStatus `json:"status"`
	Items     []domain.LineItem        `json:"items"`
	RawXML    string                   `json:"rawXml,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	items := t.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return TransactionResponse{
		ID:        t.ID,
		Date:      t.Date.Format(domain.DateLayout),
		InvoiceNo: t.InvoiceNo,
		PartyName: t.PartyName,
		Amount:    t.Amount,
		Status:    t.Status,
		Items:     items,
		RawXML:    t.RawXML,
	}
}

// RegisterPageResponse defines the data returned for one register page.
type RegisterPageResponse struct {
	Kind       domain.RegisterKind   `json:"kind"`
	CompanyID  string                `json:"companyId"`
	Rows       []TransactionResponse `json:"rows"`
	TotalCount int                   `json:"totalCount"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	NextToken  string                `json:"nextToken,omitempty"`
}

// ToRegisterPageResponse converts a page and mints the token for the next one, if any.
func ToRegisterPageResponse(kind domain.RegisterKind, companyID string, p *domain.TransactionPage) RegisterPageResponse {
	rows := make([]TransactionResponse, len(p.Rows))
	for i, t := range p.Rows {
		rows[i] = ToTransactionResponse(t)
	}
	resp := RegisterPageResponse{
		Kind:       kind,
		CompanyID:  companyID,
		Rows:       rows,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	if p.HasNext() {
		resp.NextToken = pagination.EncodeToken(pagination.PageCursor{
			Kind:      string(kind),
			CompanyID: companyID,
			Page:      p.Page + 1,
			PageSize:  p.PageSize,
		})
	}
	return resp
}
