package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
// IDs are opaque: the demo fixture uses short numeric ids, the database uses UUIDs.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,max=64"`
}

// DateRangeParams holds the common date window query parameters (YYYY-MM-DD).
type DateRangeParams struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// Validate performs custom validation for DateRangeParams.
func (r *DateRangeParams) Validate() error {
	if r.DateFrom != "" && r.DateTo != "" && r.DateFrom > r.DateTo {
		return ErrInvalidDateRange
	}
	return nil
}
