package bet

import (
	"github.com/go-playground/validator/v10"

	"fairbet/repository"
	"fairbet/services"
)

// Handler bundles the settlement core dependencies for the bet routes.
// Unlike the session/identity glue, nothing here touches package-level
// state: the store and services are injected at startup.
type Handler struct {
	settlement *services.Settlement
	verifier   *services.Verifier
	store      repository.Store
	validate   *validator.Validate
}

func NewHandler(settlement *services.Settlement, verifier *services.Verifier, store repository.Store) *Handler {
	return &Handler{
		settlement: settlement,
		verifier:   verifier,
		store:      store,
		validate:   validator.New(),
	}
}
