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

// Command coref resolves JSON documents given as file arguments, or on stdin,
// and prints one entity JSON line per document.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

// config structure
type corefConfig struct {
	lib.EngineConfig `mapstructure:",squash"`
	Workers          int `mapstructure:"workers"`
}

func (c corefConfig) Validate() error {
	if c.Workers < 1 {
		return &resolver.ConfigError{Key: "workers", Value: c.Workers, Reason: "must be at least 1"}
	}
	return c.EngineConfig.Validate()
}

var config corefConfig

func initConfig() {
	defaults := lib.EngineDefaults()
	defaults["workers"] = 4
	if err := lib.InitializeConfig("./config/coref.yml", defaults, &config); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func main() {
	initConfig()
	log.Logger = log.With().Str("run", uuid.New().String()).Logger()

	r, err := lib.NewEngine(config.EngineConfig)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	var inputs []input
	if pflag.NArg() == 0 {
		inputs = append(inputs, input{name: "stdin", r: os.Stdin})
	}
	for _, path := range pflag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		defer f.Close()
		inputs = append(inputs, input{name: path, r: f})
	}

	jobs, err := readJobs(inputs)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	ctx, stop := lib.InterruptContext()
	defer stop()

	failed, err := runBatch(ctx, r, jobs, os.Stdout, config.Workers)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	log.Info().Int("documents", len(jobs)).Int("failed", failed).Msg("batch complete")
	if failed > 0 {
		stop()
		fmt.Fprintf(os.Stderr, "%d of %d documents failed\n", failed, len(jobs))
		os.Exit(1)
	}
}
