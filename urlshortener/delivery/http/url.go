package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/kit/code"
	"github.com/superj80820/url-shortener/kit/http/transport"
)

const URLPathPrefix = "/api/v1/urls"

type urlCreateRequest struct {
	LongURL string `json:"longUrl"`
}

type urlCreateResponse struct {
	ShortKey string `json:"shortKey"`
	ShortURL string `json:"shortUrl"`
}

type urlResolveRequest struct {
	ShortKey string
}

type urlRedirectResponse struct {
	OriginalURL string
}

type urlMetaResponse struct {
	OriginalURL string `json:"originalUrl"`
}

func MakeURLCreateEndpoint(svc domain.URLUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlCreateRequest)
		shortURL, err := svc.Create(ctx, req.LongURL)
		if err != nil {
			return nil, err
		}
		return urlCreateResponse{ShortKey: shortURL.ShortKey, ShortURL: shortURL.ShortURL}, nil
	}
}

func MakeURLRedirectEndpoint(svc domain.URLUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlResolveRequest)
		originalURL, err := svc.Resolve(ctx, req.ShortKey)
		if err != nil {
			return nil, err
		}
		return urlRedirectResponse{OriginalURL: originalURL}, nil
	}
}

func MakeURLMetaEndpoint(svc domain.URLUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(urlResolveRequest)
		originalURL, err := svc.Resolve(ctx, req.ShortKey)
		if err != nil {
			return nil, err
		}
		return urlMetaResponse{OriginalURL: originalURL}, nil
	}
}

var DecodeURLCreateRequest = transport.DecodeJsonRequest[urlCreateRequest]

func DecodeURLResolveRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	shortKey, ok := mux.Vars(r)["shortKey"]
	if !ok || shortKey == "" {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidShortKey)
	}
	return urlResolveRequest{ShortKey: shortKey}, nil
}

func EncodeURLCreateResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(urlCreateResponse)
	w.Header().Set("Location", URLPathPrefix+"/"+res.ShortKey)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return transport.EncodeJsonResponse(ctx, w, res)
}

func EncodeURLRedirectResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(urlRedirectResponse)
	w.Header().Set("Location", res.OriginalURL)
	w.WriteHeader(http.StatusMovedPermanently)
	return nil
}

var EncodeURLMetaResponse = transport.EncodeJsonResponse

func MakeHTTPHandler(r *mux.Router, svc domain.URLUseCase, middleware endpoint.Middleware, options ...httptransport.ServerOption) {
	r.Methods(http.MethodPost).Path(URLPathPrefix).Handler(
		httptransport.NewServer(
			middleware(MakeURLCreateEndpoint(svc)),
			DecodeURLCreateRequest,
			EncodeURLCreateResponse,
			options...,
		))
	r.Methods(http.MethodGet).Path(URLPathPrefix + "/{shortKey}").Handler(
		httptransport.NewServer(
			middleware(MakeURLRedirectEndpoint(svc)),
			DecodeURLResolveRequest,
			EncodeURLRedirectResponse,
			options...,
		))
	r.Methods(http.MethodGet).Path(URLPathPrefix + "/{shortKey}/meta").Handler(
		httptransport.NewServer(
			middleware(MakeURLMetaEndpoint(svc)),
			DecodeURLResolveRequest,
			EncodeURLMetaResponse,
			options...,
		))
	r.Methods(http.MethodGet).Path("/api/health").Handler(
		httptransport.NewServer(
			func(ctx context.Context, request interface{}) (interface{}, error) { return nil, nil },
			transport.DecodeEmptyRequest,
			transport.EncodeOKResponse,
			options...,
		))
}
