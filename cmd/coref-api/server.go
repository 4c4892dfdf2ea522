/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib"
)

const requestIDHeader = "X-Request-Id"

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func (e HttpError) Unwrap() error {
	return e.error
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.POST("/entities", requestID, validateBody, s.Resolve)
	r.GET("/config", s.Config)
}

func (s server) Resolve(c *gin.Context) {
	if ct := c.ContentType(); ct != "" && ct != gin.MIMEJSON {
		handleError(c, NewHttpError(415, errors.New("invalid content type - must be application/json")))
		return
	}

	entities, err := s.controller.Resolve(c.Request.Body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, entities)
}

func (s server) Config(c *gin.Context) {
	c.JSON(200, s.controller.Config())
}

// requestID tags the request with the caller's id, or a new one.
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(lib.RequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
		return
	}
	var herr HttpError
	if errors.As(err, &herr) {
		abort(c, herr.code, herr.error)
		return
	}
	abort(c, 500, err)
}

func abort(c *gin.Context, code int, err error) {
	if code >= 500 {
		log.Error().Err(err).Str(lib.RequestIDKey, c.GetString(lib.RequestIDKey)).Msg("request failed")
	}
	c.JSON(code, map[string]interface{}{
		"status":  code,
		"message": err.Error(),
	})
	c.Abort()
}
