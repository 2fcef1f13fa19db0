// Package medisendtest provides an in-memory Medisend API for tests.
package medisendtest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/turfaa/halodoc-medisend-api/domain"
	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
	"github.com/turfaa/halodoc-medisend-api/pkg/httputil"
	"github.com/turfaa/halodoc-medisend-api/pkg/logger"
	"github.com/turfaa/halodoc-medisend-api/pkg/middleware"
	"github.com/turfaa/halodoc-medisend-api/pkg/pagination"
)

// Request is what the server saw of one incoming call.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Cookies       map[string]string
	CorrelationID string
	ContentType   string
	Body          []byte
}

// Failure is an error response injected into the next matching calls.
type Failure struct {
	Status int
	// Body is written verbatim. When empty, Code and Message are encoded as
	// the usual error object.
	Body    string
	Code    string
	Message string
}

// Server is a fake Medisend API backed by an ordered product list.
type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	products     []domain.Product
	requests     []Request
	cookies      *domain.Cookies
	pageFailures map[int]Failure
	failure      *Failure
	endless      bool
}

// NewServer starts a fake API serving products in the given order.
func NewServer(products ...domain.Product) *Server {
	s := &Server{
		products:     append([]domain.Product(nil), products...),
		pageFailures: make(map[int]Failure),
	}
	s.srv = httptest.NewServer(s.routes(logger.Discard()))
	return s
}

func (s *Server) routes(l *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(l))
	r.Use(middleware.RequestLogging(l))
	r.Use(s.record)
	r.Use(s.authenticate)
	r.Use(s.injectFailure)

	r.Get("/products", s.listProducts)
	r.Put("/products/{id}", s.updateProduct)
	return r
}

// URL is the base URL to hand to the client.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// RequireCookies makes every call without exactly these cookies fail with 401.
func (s *Server) RequireCookies(c domain.Cookies) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = &c
}

// FailPage makes list calls for the given page number fail.
func (s *Server) FailPage(page int, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageFailures[page] = f
}

// FailAll makes every call fail until ClearFailures.
func (s *Server) FailAll(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = &f
}

// ClearFailures removes every injected failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = nil
	s.pageFailures = make(map[int]Failure)
}

// SetEndlessPaging makes every list response report another page.
func (s *Server) SetEndlessPaging(endless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endless = endless
}

// Products returns the current catalog.
func (s *Server) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.products...)
}

// Requests returns every call received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestCount returns how many calls were received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		cookies := make(map[string]string)
		for _, c := range r.Cookies() {
			cookies[c.Name] = c.Value
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Cookies:       cookies,
			CorrelationID: r.Header.Get(middleware.CorrelationIDHeader),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := s.cookies
		s.mu.Unlock()

		if want != nil {
			userID, _ := r.Cookie(domain.UserIDCookie)
			session, _ := r.Cookie(domain.SessionIDCookie)
			if userID == nil || session == nil || userID.Value != want.UserID || session.Value != want.SessionID {
				httputil.WriteError(w, apperrors.NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "invalid session"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *Failure
		if s.failure != nil {
			cp := *s.failure
			f = &cp
		} else if r.Method == http.MethodGet {
			page := pagination.FromRequest(r).Page
			if pf, ok := s.pageFailures[page]; ok {
				f = &pf
			}
		}
		s.mu.Unlock()

		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		if f.Body != "" {
			w.WriteHeader(f.Status)
			_, _ = io.WriteString(w, f.Body)
			return
		}
		httputil.WriteJSON(w, f.Status, httputil.ErrorResponse{Code: f.Code, Message: f.Message})
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	name := strings.ToLower(r.URL.Query().Get("name"))

	s.mu.Lock()
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if name == "" || strings.Contains(strings.ToLower(p.Name), name) {
			matched = append(matched, p)
		}
	}
	endless := s.endless
	s.mu.Unlock()

	res := pagination.Paginate(matched, params)
	page := domain.Page[domain.Product]{
		Result:     res.Data,
		NextPage:   res.HasNext || endless,
		TotalCount: int64(res.TotalCount),
	}
	if page.Result == nil {
		page.Result = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, page.ToMap(domain.Product.ToMap))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, apperrors.NewAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "invalid product id"))
		return
	}

	tree, err := domain.DecodeTree(r.Body)
	if err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	product, err := domain.ProductFromMap(tree)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if product.ID != id {
		httputil.WriteError(w, apperrors.NewAPIError(http.StatusBadRequest, "ID_MISMATCH", "product id does not match path"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = product
			httputil.WriteJSON(w, http.StatusOK, product.ToMap())
			return
		}
	}
	httputil.WriteError(w, apperrors.NewAPIError(http.StatusNotFound, "NOT_FOUND", "no such product"))
}
