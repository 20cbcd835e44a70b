package handler

import (
	"net/http"
	"strconv"

	md "github.com/ashmetov/booklib/pkg/middleware"

	"github.com/ashmetov/booklib/pkg/auth"
	"github.com/ashmetov/booklib/pkg/validate"
	"github.com/ashmetov/booklib/public/internal/errs"
	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	publicSvc PublicService
	syncToken string
	log       *zap.Logger
}

func New(publicSvc PublicService, syncToken string, log *zap.Logger) *Handler {
	return &Handler{
		publicSvc: publicSvc,
		syncToken: syncToken,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.ListBooks, auth.MiddlewareUserName)
	api.GET("/books/my-borrowed", h.MyBorrowed, auth.MiddlewareUserName)
	api.GET("/books/:id", h.GetBook, auth.MiddlewareUserName)
	api.POST("/books/borrow", h.BorrowBook, auth.MiddlewareUserName)
	api.POST("/books/:borrowUid/return", h.ReturnBook, auth.MiddlewareUserName)

	internal := e.Group("/api/internal",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		md.ServiceTokenAuth(h.syncToken),
	)
	internal.POST("/sync-book", h.SyncBookUpsert)
	internal.DELETE("/sync-book/:isbn", h.SyncBookDelete)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()

	filter := model.BooksFilter{
		PublisherName: c.QueryParam("publisher_name"),
		CategoryName:  c.QueryParam("category_name"),
		Search:        c.QueryParam("search"),
	}
	var err error
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if filter.Size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}

	books, err := h.publicSvc.ListBooks(ctx, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	book, err := h.publicSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	userName, err := auth.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	borrowed, err := h.publicSvc.Borrow(c.Request().Context(), userName, req.BookID, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrNotAvailable):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, borrowed)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	userName, err := auth.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrowUID := c.Param("borrowUid")
	if borrowUID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "borrowUid is empty")
	}

	borrowed, err := h.publicSvc.Return(c.Request().Context(), userName, borrowUID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAlreadyReturned):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, borrowed)
}

func (h *Handler) MyBorrowed(c echo.Context) error {
	userName, err := auth.GetUserName(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrowed, err := h.publicSvc.MyBorrowed(c.Request().Context(), userName)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, borrowed)
}

func (h *Handler) SyncBookUpsert(c echo.Context) error {
	var req model.SyncBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, created, err := h.publicSvc.UpsertBook(c.Request().Context(), req)
	if err != nil {
		h.log.Error("sync upsert", zap.String("isbn", req.ISBN), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, book)
}

func (h *Handler) SyncBookDelete(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn is empty")
	}
	if err := h.publicSvc.DeleteBook(c.Request().Context(), isbn); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
