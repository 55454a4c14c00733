package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
	apierrors "github.com/Sistema-CRM-Ariol/exports-ms/internal/shared/errors"
)

// responder translates application errors into RFC 7807 responses.
var responder = apierrors.NewChainedResponder("", mapExportError)

// mapExportError maps exports application errors onto problem templates.
// Order matters: the saga failure classes wrap the more generic sentinels,
// so they are matched first.
func mapExportError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInconsistentState):
		problem := apierrors.ErrDataInconsistency.WithDetail(err.Error()).
			WithExtension("incident", true)
		return problem, true
	case errors.Is(err, application.ErrCompensatedFailure):
		return apierrors.ErrOrderRolledBack.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrDuplicateOrder):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrStockVerification):
		problem := apierrors.ErrStockShortage.WithDetail(err.Error())
		var shortage *application.StockShortageError
		if errors.As(err, &shortage) {
			problem = problem.
				WithExtension("productId", shortage.ProductID).
				WithExtension("productName", shortage.ProductName).
				WithExtension("requested", shortage.Requested).
				WithExtension("available", shortage.Available)
		}
		return problem, true
	case errors.Is(err, application.ErrInvalidRequest):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrPersistenceFailure):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
