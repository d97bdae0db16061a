package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
	"github.com/fintrack/networth-backend/internal/usecase/account"
	"github.com/fintrack/networth-backend/internal/usecase/grid"
	"github.com/fintrack/networth-backend/internal/usecase/valueentry"
)

// userIDContextKey is where RequireUser stores the resolved owner id
const userIDContextKey = "userID"

// userIDHeader carries the owner identity. Authentication proper lives in
// front of this service; the header is the seam where a session layer
// would resolve the user.
const userIDHeader = "X-User-ID"

// Handlers holds the usecase services behind the API
type Handlers struct {
	Grid     *grid.GridService
	Entries  *valueentry.ValueEntryService
	Accounts *account.AccountService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(gridService *grid.GridService, entryService *valueentry.ValueEntryService, accountService *account.AccountService) *Handlers {
	return &Handlers{
		Grid:     gridService,
		Entries:  entryService,
		Accounts: accountService,
	}
}

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// RequireUser resolves the owning user from the request and rejects
// requests without one
func (h *Handlers) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(userIDHeader)
		if raw == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing user identity"})
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid user identity"})
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

func currentUserID(c echo.Context) uuid.UUID {
	return c.Get(userIDContextKey).(uuid.UUID)
}

// writeError maps domain errors onto HTTP status codes: not-found → 404,
// name conflict → 409, validation → 400. Everything else is logged and
// surfaced as a generic 500.
func writeError(c echo.Context, err error) error {
	var ve *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateName):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	default:
		log.Printf("internal error handling %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "something went wrong, please try again later"})
	}
}

// parseDate accepts YYYY-MM-DD or a full ISO-8601 datetime
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(domain.DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("date must be YYYY-MM-DD or an ISO-8601 datetime")
}

// ---- grid data ----

// GetGridData handles GET /api/v1/grid-data
func (h *Handlers) GetGridData(c echo.Context) error {
	opts := grid.Options{
		ShowArchived: c.QueryParam("show_archived") == "true",
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid 'from' date: " + err.Error()})
		}
		from = domain.NormalizeDate(from)
		opts.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid 'to' date: " + err.Error()})
		}
		to = domain.NormalizeDate(to)
		opts.To = &to
	}

	data, err := h.Grid.GetGridData(c.Request().Context(), currentUserID(c), opts)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, data)
}

// ---- value entries ----

// UpsertValueEntryRequest is the POST /value-entries body. cash_flow and
// gain_loss distinguish absent/null (derive) from an explicit 0 (supplied).
type UpsertValueEntryRequest struct {
	AccountID string           `json:"account_id"`
	Date      string           `json:"date"`
	Value     decimal.Decimal  `json:"value"`
	CashFlow  *decimal.Decimal `json:"cash_flow"`
	GainLoss  *decimal.Decimal `json:"gain_loss"`
}

// ValueEntryResponse is the persisted-entry payload
type ValueEntryResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Date      string          `json:"date"`
	Value     decimal.Decimal `json:"value"`
	CashFlow  decimal.Decimal `json:"cash_flow"`
	GainLoss  decimal.Decimal `json:"gain_loss"`
}

func valueEntryResponse(entry *domain.ValueEntry) ValueEntryResponse {
	return ValueEntryResponse{
		ID:        entry.ID.String(),
		AccountID: entry.AccountID.String(),
		Date:      entry.DateKey(),
		Value:     entry.Value,
		CashFlow:  entry.CashFlow,
		GainLoss:  entry.GainLoss,
	}
}

// UpsertValueEntry handles POST /api/v1/value-entries
func (h *Handlers) UpsertValueEntry(c echo.Context) error {
	var req UpsertValueEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + err.Error()})
	}

	entry, err := h.Entries.Upsert(c.Request().Context(), currentUserID(c), valueentry.UpsertCommand{
		AccountID: accountID,
		Date:      date,
		Value:     req.Value,
		CashFlow:  req.CashFlow,
		GainLoss:  req.GainLoss,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, valueEntryResponse(entry))
}

// DeleteEntriesResponse reports a column deletion
type DeleteEntriesResponse struct {
	Deleted int `json:"deleted"`
}

// DeleteEntriesByDate handles DELETE /api/v1/value-entries?date=YYYY-MM-DD
func (h *Handlers) DeleteEntriesByDate(c echo.Context) error {
	raw := c.QueryParam("date")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing 'date' parameter"})
	}

	date, err := parseDate(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + err.Error()})
	}

	deleted, err := h.Entries.DeleteEntriesByDate(c.Request().Context(), currentUserID(c), date)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DeleteEntriesResponse{Deleted: deleted})
}

// AddColumnRequest is the POST /value-entries/column body
type AddColumnRequest struct {
	Date string `json:"date"`
}

// ColumnFailureResponse reports one account's failed column upsert
type ColumnFailureResponse struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Error     string `json:"error"`
}

// AddColumnResponse reports the bulk outcome; partial failure is a valid
// 200 with a non-empty failures list
type AddColumnResponse struct {
	Created        int                     `json:"created"`
	AlreadyPresent bool                    `json:"already_present"`
	Failures       []ColumnFailureResponse `json:"failures"`
}

// AddColumn handles POST /api/v1/value-entries/column
func (h *Handlers) AddColumn(c echo.Context) error {
	var req AddColumnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + err.Error()})
	}

	result, err := h.Entries.AddColumn(c.Request().Context(), currentUserID(c), date)
	if err != nil {
		return writeError(c, err)
	}

	resp := AddColumnResponse{
		Created:        result.Created,
		AlreadyPresent: result.AlreadyPresent,
		Failures:       make([]ColumnFailureResponse, 0, len(result.Failures)),
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, ColumnFailureResponse{
			AccountID: failure.AccountID.String(),
			Name:      failure.Name,
			Error:     failure.Err.Error(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// ---- accounts ----

// AccountResponse is the account payload
type AccountResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Type       domain.AccountType `json:"type"`
	Currency   string             `json:"currency"`
	ArchivedAt *time.Time         `json:"archived_at"`
	CreatedAt  time.Time          `json:"created_at"`
}

func accountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID.String(),
		Name:       a.Name,
		Type:       a.Type,
		Currency:   a.Currency,
		ArchivedAt: a.ArchivedAt,
		CreatedAt:  a.CreatedAt,
	}
}

// ListAccounts handles GET /api/v1/accounts
func (h *Handlers) ListAccounts(c echo.Context) error {
	includeArchived := c.QueryParam("archived") == "true"

	accounts, err := h.Accounts.List(c.Request().Context(), currentUserID(c), includeArchived)
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, accountResponse(a))
	}

	return c.JSON(http.StatusOK, resp)
}

// CreateAccountRequest is the POST /accounts body
type CreateAccountRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Currency     string          `json:"currency"`
	Date         string          `json:"date"`
	InitialValue decimal.Decimal `json:"initial_value"`
}

// CreateAccount handles POST /api/v1/accounts
func (h *Handlers) CreateAccount(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + err.Error()})
	}

	created, err := h.Accounts.Create(c.Request().Context(), currentUserID(c), account.CreateCommand{
		Name:         req.Name,
		Type:         domain.AccountType(req.Type),
		Currency:     req.Currency,
		Date:         date,
		InitialValue: req.InitialValue,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, accountResponse(created))
}

// UpdateAccountRequest is the PATCH /accounts/:id body; omitted fields are
// left unchanged
type UpdateAccountRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

// UpdateAccount handles PATCH /api/v1/accounts/:id
func (h *Handlers) UpdateAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	cmd := account.UpdateCommand{Name: req.Name}
	if req.Type != nil {
		accountType := domain.AccountType(*req.Type)
		cmd.Type = &accountType
	}

	updated, err := h.Accounts.Update(c.Request().Context(), currentUserID(c), id, cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, accountResponse(updated))
}

// SetArchivedRequest is the POST /accounts/:id/archive body
type SetArchivedRequest struct {
	Archived bool `json:"archived"`
}

// SetAccountArchived handles POST /api/v1/accounts/:id/archive
func (h *Handlers) SetAccountArchived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
	}

	var req SetArchivedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := h.Accounts.SetArchived(c.Request().Context(), currentUserID(c), id, req.Archived); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *Handlers) DeleteAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
	}

	if err := h.Accounts.Delete(c.Request().Context(), currentUserID(c), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
