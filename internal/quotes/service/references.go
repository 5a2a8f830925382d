package service

import (
	"context"

	catalogrepo "presupuestos_backend/internal/catalog/repository"
	"presupuestos_backend/platform/apperr"

	"github.com/google/uuid"
)

// ValidateReferences confirms that the client (when given) and every distinct
// article exist, checking the client first and then articles in line order.
// It returns the catalog description of each article so lines can snapshot it.
// Nothing is written; a failure here means no mutation may follow.
func ValidateReferences(ctx context.Context, catalog catalogrepo.Reader, clientID *uuid.UUID, articleIDs []string) (map[string]string, error) {
	if clientID != nil {
		if _, err := catalog.GetClient(ctx, *clientID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.ReferenceNotFound("client", clientID.String())
			}
			return nil, err
		}
	}

	descriptions := make(map[string]string, len(articleIDs))
	for _, id := range articleIDs {
		if _, seen := descriptions[id]; seen {
			continue
		}
		article, err := catalog.GetArticle(ctx, id)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.ReferenceNotFound("article", id)
			}
			return nil, err
		}
		descriptions[id] = article.Description
	}
	return descriptions, nil
}
