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

// Command model-loader copies a model set into redis so that resolvers
// started with model_source=redis can share it.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

// config structure
type modelLoaderConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	// ModelDir is read instead of the built-in models when set.
	ModelDir    string `mapstructure:"model_dir"`
	Redis       remote.RedisConfig
	WaitSeconds int `mapstructure:"wait_seconds"`
	Retries     int `mapstructure:"retries"`
}

func (c modelLoaderConfig) Validate() error {
	if c.Retries < 1 {
		return &resolver.ConfigError{Key: "retries", Value: c.Retries, Reason: "must be at least 1"}
	}
	if c.WaitSeconds < 0 {
		return &resolver.ConfigError{Key: "wait_seconds", Value: c.WaitSeconds, Reason: "must not be negative"}
	}
	return nil
}

var config modelLoaderConfig

func initConfig() {
	err := lib.InitializeConfig("./config/model-loader.yml", map[string]interface{}{
		"log_level":    "info",
		"model_dir":    "",
		"wait_seconds": 10,
		"retries":      6,
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

// source picks the model set to publish.
func source(dir string) (model.Source, error) {
	if dir == "" {
		return model.DefaultSource()
	}
	return model.DirSource{Dir: dir}, nil
}

// waitReady polls the client until it answers, giving up after retries attempts.
func waitReady(ctx context.Context, client remote.Client, retries int, wait time.Duration) error {
	for i := 0; i < retries; i++ {
		if client.Ready() {
			return nil
		}
		log.Info().Int("attempt", i+1).Msg("redis is not ready, waiting...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lib.ErrRedisUnavailable
}

// load checks that src holds a usable model set, then publishes it.
func load(client remote.Client, src model.Source) error {
	if _, err := model.Load(src); err != nil {
		return fmt.Errorf("refusing to publish: %w", err)
	}
	return remote.Publish(client, src, model.Names())
}

func main() {
	initConfig()

	src, err := source(config.ModelDir)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	ctx, stop := lib.InterruptContext()
	defer stop()

	client := remote.NewRedisClient(config.Redis)
	if err := waitReady(ctx, client, config.Retries, time.Duration(config.WaitSeconds)*time.Second); err != nil {
		log.Fatal().Err(err).Str("host", config.Redis.Host).Int("port", config.Redis.Port).Send()
	}

	if err := load(client, src); err != nil {
		log.Fatal().Err(err).Send()
	}
}
