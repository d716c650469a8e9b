package request

import (
	"net/http"

	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
)

var ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "date_from must not be after date_to")
