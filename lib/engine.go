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

package lib

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/language/english"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

const (
	ModelsBuiltin = "builtin"
	ModelsFile    = "file"
	ModelsRedis   = "redis"
)

var ErrRedisUnavailable = errors.New("redis is not reachable")

// ModelConfig says where models and language rule tables come from.
type ModelConfig struct {
	ModelSource string `mapstructure:"model_source"`
	ModelDir    string `mapstructure:"model_dir"`
	Redis       remote.RedisConfig
	// RulesPath replaces the built-in language rule tables when set.
	RulesPath string `mapstructure:"rules_path"`
}

// EngineConfig is the config shared by every binary that resolves documents.
type EngineConfig struct {
	BaseConfig `mapstructure:",squash"`
	Models     ModelConfig `mapstructure:",squash"`
	Resolver   resolver.Config
}

func (c EngineConfig) Validate() error {
	switch c.Models.ModelSource {
	case ModelsBuiltin, ModelsRedis:
	case ModelsFile:
		if c.Models.ModelDir == "" {
			return &resolver.ConfigError{Key: "model_dir", Value: c.Models.ModelDir, Reason: "required when model_source is file"}
		}
	default:
		return &resolver.ConfigError{Key: "model_source", Value: c.Models.ModelSource, Reason: "must be one of builtin, file, redis"}
	}
	return c.Resolver.Validate()
}

// EngineDefaults returns viper defaults for EngineConfig, suitable for local development.
func EngineDefaults() map[string]interface{} {
	defaults := map[string]interface{}{
		"log_level":    "info",
		"model_source": ModelsBuiltin,
		"model_dir":    "./models",
		"rules_path":   "",
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
		},
	}
	for k, v := range resolver.Defaults("resolver") {
		defaults[k] = v
	}
	return defaults
}

var newRedisClient = remote.NewRedisClient

// LoadModels loads the model bundle from the configured source.
func LoadModels(c ModelConfig) (*model.Bundle, error) {
	switch c.ModelSource {
	case ModelsFile:
		log.Info().Str("dir", c.ModelDir).Msg("loading models from files")
		return model.Load(model.DirSource{Dir: c.ModelDir})
	case ModelsRedis:
		client := newRedisClient(c.Redis)
		if !client.Ready() {
			return nil, fmt.Errorf("%w: %s:%d", ErrRedisUnavailable, c.Redis.Host, c.Redis.Port)
		}
		log.Info().Str("host", c.Redis.Host).Int("port", c.Redis.Port).Msg("loading models from redis")
		return model.Load(remote.NewSource(client))
	default:
		return model.Default()
	}
}

// LoadLanguage returns the language implementation named by lang.
func LoadLanguage(lang, rulesPath string) (language.Language, error) {
	if lang != english.Name {
		return nil, &resolver.ConfigError{Key: "language", Value: lang, Reason: "unsupported language"}
	}
	if rulesPath == "" {
		return english.Default()
	}
	tables, err := lexicon.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	return english.New(tables), nil
}

// NewEngine builds a resolver from config. Models are loaded once and shared
// by every document the resolver handles.
func NewEngine(c EngineConfig) (*resolver.Resolver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lang, err := LoadLanguage(c.Resolver.Language, c.Models.RulesPath)
	if err != nil {
		return nil, err
	}
	models, err := LoadModels(c.Models)
	if err != nil {
		return nil, err
	}
	return resolver.New(c.Resolver, lang, models)
}
