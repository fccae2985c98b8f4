package handlers

import (
	"net/http"

	"wikiracer/pkg/common"
	pkgerrors "wikiracer/pkg/errors"
)

// respondError maps an application error onto the response envelope. Unknown
// errors collapse to a generic 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.RespondErrorWithDetails(w, status, string(appErr.Type), appErr.Message, appErr.Details)
		return
	}

	common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
