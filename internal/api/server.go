package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"
	"github.com/samcharles93/bytepair/internal/webui"
)

const defaultRuleLimit = 100

type Server struct {
	service *TokenizerService
}

func NewServer(service *TokenizerService) *Server {
	return &Server{service: service}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/tokenize", s.handleTokenize)
	e.POST("/v1/encode", s.handleEncode)
	e.POST("/v1/decode", s.handleDecode)
	e.GET("/v1/vocabs", s.handleListVocabs)
	e.GET("/v1/vocabs/:name", s.handleGetVocab)

	files := http.FileServer(webui.StaticFS())
	serveStatic := func(c *echo.Context) error {
		files.ServeHTTP(c.Response(), c.Request())
		return nil
	}
	e.GET("/", serveStatic)
	e.GET("/app.js", serveStatic)
}

func (s *Server) handleTokenize(c *echo.Context) error {
	req, err := decodeJSON[TokenizeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Tokenize(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEncode(c *echo.Context) error {
	req, err := decodeJSON[EncodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.Encode(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecode(c *echo.Context) error {
	req, err := decodeJSON[DecodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Tokens == nil {
		return writeBadRequest(c, "tokens is required")
	}
	resp, err := s.service.Decode(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListVocabs(c *echo.Context) error {
	names, err := s.service.ListVocabs()
	if err != nil {
		return writeServiceError(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, VocabListResponse{Object: "list", Data: names})
}

func (s *Server) handleGetVocab(c *echo.Context) error {
	limit := defaultRuleLimit
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return writeBadRequest(c, "limit must be an integer")
		}
		limit = n
	}
	resp, err := s.service.Describe(c.Request().Context(), c.Param("name"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
