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

package model

import (
	"embed"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrMalformed = errors.New("malformed model")
	ErrNotFound  = errors.New("model not found")
)

//go:embed defaults/*.yml
var defaults embed.FS

// Source fetches serialised model resources by name.
type Source interface {
	Fetch(name string) ([]byte, error)
}

// BatchSource can fetch several resources in one round trip.
type BatchSource interface {
	Source
	FetchAll(names []string) (map[string][]byte, error)
}

// DirSource reads <Dir>/<name>.yml.
type DirSource struct {
	Dir string
}

func (d DirSource) Fetch(name string) ([]byte, error) {
	b, err := ioutil.ReadFile(filepath.Join(d.Dir, name+".yml"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, d.Dir)
	}
	return b, err
}

// MemorySource is an in-process store of model blobs.
type MemorySource struct {
	store map[string][]byte
	mut   *sync.RWMutex
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		store: make(map[string][]byte),
		mut:   &sync.RWMutex{},
	}
}

func (m *MemorySource) Fetch(name string) ([]byte, error) {
	m.mut.RLock()
	defer m.mut.RUnlock()

	b, ok := m.store[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b, nil
}

func (m *MemorySource) Set(name string, data []byte) {
	m.mut.Lock()
	defer m.mut.Unlock()

	m.store[name] = data
}

func (m *MemorySource) Delete(name string) {
	m.mut.Lock()
	defer m.mut.Unlock()

	delete(m.store, name)
}

// Names lists the stored resources.
func (m *MemorySource) Names() []string {
	m.mut.RLock()
	defer m.mut.RUnlock()

	names := make([]string, 0, len(m.store))
	for k := range m.store {
		names = append(names, k)
	}
	return names
}

// DefaultSource holds the models compiled into the binary.
func DefaultSource() (*MemorySource, error) {
	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		return nil, err
	}
	src := NewMemorySource()
	for _, e := range entries {
		b, err := defaults.ReadFile(path.Join("defaults", e.Name()))
		if err != nil {
			return nil, err
		}
		src.Set(strings.TrimSuffix(e.Name(), ".yml"), b)
	}
	return src, nil
}
