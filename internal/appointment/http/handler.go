package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/nekogravitycat/academy-console/internal/pkg/request"
	"github.com/nekogravitycat/academy-console/internal/pkg/response"
	"github.com/nekogravitycat/academy-console/internal/timeslot"
)

const feedName = "Academy agenda"

type Handler struct {
	booking      *appointment.BookingService
	availability *appointment.AvailabilityService
	calendar     *appointment.CalendarService
}

func NewHandler(
	booking *appointment.BookingService,
	availability *appointment.AvailabilityService,
	calendar *appointment.CalendarService,
) *Handler {
	return &Handler{
		booking:      booking,
		availability: availability,
		calendar:     calendar,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	a, err := h.booking.Book(c.Request.Context(), appointment.BookRequest{
		StudentID:    body.StudentID,
		InstructorID: body.InstructorID,
		ServiceID:    body.ServiceID,
		LocationID:   body.LocationID,
		Date:         body.Date,
		StartTime:    body.StartTime,
		Notes:        body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// Re-read to pick up student and instructor names. The booking is
	// committed either way, so a failed read still answers 201.
	if enriched, err := h.calendar.GetByID(c.Request.Context(), a.ID); err == nil {
		a = enriched
	} else {
		_ = c.Error(err)
	}

	c.JSON(http.StatusCreated, NewAppointmentResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	appointments, err := h.calendar.List(c.Request.Context(), req.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newAppointmentResponses(appointments)))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	a, err := h.calendar.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	start, err := timeslot.ParseClock(req.Start)
	if err != nil {
		response.Error(c, apperror.WrapAs(err, appointment.ErrInvalidTimeRange))
		return
	}
	end, err := timeslot.ParseClock(req.End)
	if err != nil {
		response.Error(c, apperror.WrapAs(err, appointment.ErrInvalidTimeRange))
		return
	}

	conflicts, err := h.availability.Conflicts(c.Request.Context(), appointment.Query{
		Date:         req.Date,
		Start:        start,
		End:          end,
		LocationID:   req.LocationID,
		LocationName: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Date:       req.Date,
		StartTime:  start.String(),
		EndTime:    end.String(),
		LocationID: req.LocationID,
		Location:   req.Location,
		Available:  len(conflicts) == 0,
		Conflicts:  newAppointmentResponses(conflicts),
	})
}

func (h *Handler) Calendar(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	cal, err := h.calendar.ListWindow(c.Request.Context(), req.WindowDays())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCalendarResponse(cal))
}

func (h *Handler) Today(c *gin.Context) {
	appointments, err := h.calendar.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newAppointmentResponses(appointments)))
}

func (h *Handler) Feed(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	cal, err := h.calendar.ListWindow(c.Request.Context(), req.WindowDays())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="agenda.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.ICS(h.calendar.Location(), feedName)))
}
