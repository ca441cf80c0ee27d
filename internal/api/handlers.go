package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/catalog"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/nats"
	"github.com/polaron/polaron/internal/quote"
)

// DepositResponse is the body of POST /v1/bookings/deposit.
type DepositResponse struct {
	Deposit    int            `json:"deposit"`
	Formatted  string         `json:"formatted"`
	Multiplier float64        `json:"multiplier"`
	AddOns     booking.AddOns `json:"addOns"`
}

// ValidateRequest is the body of POST /v1/steps/validate. Step 0 checks
// every step.
type ValidateRequest struct {
	Flow   string         `json:"flow" binding:"required"`
	Step   int            `json:"step"`
	Fields map[string]any `json:"fields"`
}

// ValidateResponse reports validity per step.
type ValidateResponse struct {
	Flow  string       `json:"flow"`
	Valid bool         `json:"valid"`
	Steps map[int]bool `json:"steps"`
}

func badRequest(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	_ = c.Error(err)
}

func (s *Server) getHealth(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}

func (s *Server) getCatalog(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, catalog.Get())
}

func (s *Server) getActivity(c *gin.Context) {
	if s.activity == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": events.ErrNoHistory.Error()})
		return
	}
	keep := 20
	if raw := c.Query("keep"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, fmt.Errorf("invalid keep %q", raw))
			return
		}
		keep = n
	}
	act, err := s.activity.Activity(c.Request.Context(), keep)
	if errors.Is(err, events.ErrNoHistory) {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, act)
}

func (s *Server) postEstimate(c *gin.Context) {
	var req quote.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// The estimator assumes a valid route; gate on the route step here.
	route := form.New(
		form.SetText{Field: quote.Origin, Value: req.Origin},
		form.SetText{Field: quote.Destination, Value: req.Destination},
	)
	if !quote.Validate(1, route) {
		badRequest(c, errors.New("origin and destination must be longer than 2 characters"))
		return
	}

	q := s.estimator.Estimate(req)
	if err := s.pub.Publish(c.Request.Context(), nats.FlowQuote, nats.ActionEstimated, q); err != nil {
		logger.Warn("Failed to publish estimate: %v", err)
	}
	c.IndentedJSON(http.StatusOK, q)
}

func (s *Server) postDeposit(c *gin.Context) {
	var addOns booking.AddOns
	if err := c.ShouldBindJSON(&addOns); err != nil {
		badRequest(c, err)
		return
	}
	deposit := booking.Deposit(addOns)
	resp := DepositResponse{
		Deposit:    deposit,
		Formatted:  money.USD(deposit),
		Multiplier: addOns.Multiplier(),
		AddOns:     addOns,
	}
	if err := s.pub.Publish(c.Request.Context(), nats.FlowBooking, nats.ActionDeposit, resp); err != nil {
		logger.Warn("Failed to publish deposit: %v", err)
	}
	c.IndentedJSON(http.StatusOK, resp)
}

func (s *Server) postValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	def, ok := catalog.Definition(req.Flow)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown flow %q", req.Flow)})
		return
	}
	if req.Step < 0 || req.Step > def.Len() {
		badRequest(c, fmt.Errorf("step must be between 0 and %d", def.Len()))
		return
	}

	state := def.Initial.Merge(form.FromMap(req.Fields))

	resp := ValidateResponse{Flow: def.Name, Valid: true, Steps: make(map[int]bool)}
	first, last := 1, def.Len()
	if req.Step != 0 {
		first, last = req.Step, req.Step
	}
	for step := first; step <= last; step++ {
		v := def.Validate(step, state)
		resp.Steps[step] = v
		resp.Valid = resp.Valid && v
	}
	c.IndentedJSON(http.StatusOK, resp)
}
