package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/services"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaults fill in whatever a request leaves out.
type Defaults struct {
	View    geo.View
	Metric  models.Metric
	MinDate time.Time
	MaxDate time.Time
}

// queryParams is the raw form of a dashboard query, shared by the REST
// endpoints (query string) and the SSE endpoint (Datastar signals).
type queryParams struct {
	View   string `json:"view" validate:"oneof=World USA"`
	Metric string `json:"metric" validate:"oneof=customers rentals payments rentals_per_customer payments_per_customer payment_per_rental"`
	Start  string `json:"startDate" validate:"datetime=2006-01-02"`
	End    string `json:"endDate" validate:"datetime=2006-01-02"`
}

func fromQuery(r *http.Request) queryParams {
	q := r.URL.Query()
	return queryParams{
		View:   q.Get("view"),
		Metric: q.Get("metric"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
}

func (p queryParams) withDefaults(d Defaults) queryParams {
	if strings.TrimSpace(p.View) == "" {
		p.View = d.View.Name
	}
	if strings.TrimSpace(p.Metric) == "" {
		p.Metric = string(d.Metric)
	}
	if strings.TrimSpace(p.Start) == "" {
		p.Start = d.MinDate.Format(time.DateOnly)
	}
	if strings.TrimSpace(p.End) == "" {
		p.End = d.MaxDate.Format(time.DateOnly)
	}
	return p
}

// query validates p and converts it to a pipeline query. Validation failures
// come back as *validationError.
func (p queryParams) query(d Defaults) (services.Query, error) {
	p = p.withDefaults(d)

	if err := validate.Struct(p); err != nil {
		return services.Query{}, newValidationError(err)
	}

	view, err := geo.ParseView(p.View)
	if err != nil {
		return services.Query{}, err
	}
	metric, err := models.ParseMetric(p.Metric)
	if err != nil {
		return services.Query{}, err
	}

	start, _ := time.Parse(time.DateOnly, p.Start)
	end, _ := time.Parse(time.DateOnly, p.End)

	return services.Query{
		View:   view,
		Metric: metric,
		Range:  models.DateRange{Start: start, End: end},
	}, nil
}

type validationError struct {
	fields []string
	cause  error
}

func newValidationError(err error) *validationError {
	ve := &validationError{cause: err}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			ve.fields = append(ve.fields, strings.ToLower(fe.Field()))
		}
	}
	return ve
}

func (e *validationError) Error() string {
	if len(e.fields) == 0 {
		return "invalid query: " + e.cause.Error()
	}
	return "invalid query parameters: " + strings.Join(e.fields, ", ")
}

func (e *validationError) Unwrap() error {
	return e.cause
}
