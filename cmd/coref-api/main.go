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
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

// config structure
type corefAPIConfig struct {
	lib.EngineConfig `mapstructure:",squash"`
	Server           struct {
		HttpPort       int      `mapstructure:"http_port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	}
}

func (c corefAPIConfig) Validate() error {
	if c.Server.HttpPort < 1 || c.Server.HttpPort > 65535 {
		return &resolver.ConfigError{Key: "server.http_port", Value: c.Server.HttpPort, Reason: "must be a valid port"}
	}
	return c.EngineConfig.Validate()
}

var config corefAPIConfig

func initConfig() {
	defaults := lib.EngineDefaults()
	defaults["server"] = map[string]interface{}{
		"http_port":       8080,
		"allowed_origins": []string{"*"},
	}
	if err := lib.InitializeConfig("./config/coref-api.yml", defaults, &config); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newRouter(c controller, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || contains(allowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AddAllowHeaders(requestIDHeader)
	corsConfig.AddExposeHeaders(requestIDHeader)
	r.Use(cors.New(corsConfig))

	s := server{controller: c}
	s.RegisterRoutes(r)
	return r
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func main() {
	initConfig()

	res, err := lib.NewEngine(config.EngineConfig)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	go lib.HandleInterrupt()

	r := newRouter(controller{resolver: res}, config.Server.AllowedOrigins)
	log.Info().Int("port", config.Server.HttpPort).Msg("starting coreference api")
	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
