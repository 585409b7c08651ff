package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListPaymentsQueryHandler struct {
	db *gorm.DB
}

func NewListPaymentsQueryHandler(db *gorm.DB) ListPaymentsQueryHandler {
	return ListPaymentsQueryHandler{db: db}
}

// Handle filters by the projection rule after reading, so paging counts reportable entries only.
func (h ListPaymentsQueryHandler) Handle(ctx context.Context, query ListPaymentsQuery) ([]PaymentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	var stmt *gorm.DB
	if query.Status() == "" {
		stmt = db.Raw(paymentsSelect + `
			ORDER BY p.created_at DESC, p.timeline_id`)
	} else {
		stmt = db.Raw(paymentsSelect+`
			WHERE p.status = ?
			ORDER BY p.created_at DESC, p.timeline_id`, string(query.Status()))
	}

	all, err := scanPayments(stmt)
	if err != nil {
		return nil, err
	}

	if query.Offset() >= len(all) {
		return []PaymentView{}, nil
	}
	end := min(query.Offset()+query.Limit(), len(all))
	return all[query.Offset():end], nil
}
