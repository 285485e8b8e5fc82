package importer

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
)

// Repository is the slice of the entity store the importer needs.
type Repository interface {
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	CreateTarget(ctx context.Context, orgID, groupID int64, in domain.InsertTarget) (*domain.Target, error)
}
