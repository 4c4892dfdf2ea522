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
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/entityset"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/resolver"
)

const acmeDoc = `{"id": "acme", "sentences": [
	{"parse": "(S (NP (NNP Acme) (NNP Corp)) (VP (VBD announced) (NP (NNS layoffs))) (. .))",
	 "mentions": [{"id": 7, "start": 0, "end": 2, "kind": "name", "type": "ORG"}]},
	{"parse": "(S (NP (DT The) (NN company)) (VP (VBD said) (SBAR (S (NP (PRP it)) (VP (VBZ regrets) (NP (DT the) (NN decision)))))) (. .))",
	 "mentions": [{"id": 8, "start": 0, "end": 2, "kind": "desc", "type": "ORG"}, {"id": 9, "start": 3, "end": 4, "kind": "pron", "type": "UNDET"}]}
]}`

const untypedDoc = `{"id": "untyped", "sentences": [
	{"parse": "(S (NP (NNP Acme)) (VP (VBD grew)))", "mentions": [{"id": 1, "start": 0, "end": 1, "kind": "name"}]}
]}`

const badParseDoc = `{"id": "bad", "sentences": [{"parse": "(S (NP (NNP Acme)", "mentions": []}]}`

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(doc *document.Document) (*entityset.Set, error) {
	args := m.Called(doc)
	set, _ := args.Get(0).(*entityset.Set)
	return set, args.Error(1)
}

func (m *mockResolver) Config() resolver.Config {
	return m.Called().Get(0).(resolver.Config)
}

type ControllerSuite struct {
	suite.Suite
	controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.controller = controller{resolver: newTestEngine(s.T())}
}

func (s *ControllerSuite) Test_controller_Resolve() {
	got, err := s.Resolve(strings.NewReader(acmeDoc))
	s.Require().NoError(err)
	s.Equal("acme", got.DocumentID)
	s.Require().Len(got.Entities, 1)
	s.Equal("ORG", got.Entities[0].Type)
	s.ElementsMatch([]int{7, 8, 9}, got.Entities[0].Mentions)
}

func (s *ControllerSuite) Test_controller_Resolve_errors() {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "invalid json", body: `{"id": `, wantCode: http.StatusBadRequest},
		{name: "malformed parse", body: badParseDoc, wantCode: http.StatusBadRequest},
		{name: "untyped name", body: untypedDoc, wantCode: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		s.T().Log(tt.name)
		_, err := s.Resolve(strings.NewReader(tt.body))
		var herr HttpError
		s.Require().True(errors.As(err, &herr), tt.name)
		s.Equal(tt.wantCode, herr.code, tt.name)
	}
}

func (s *ControllerSuite) Test_controller_Resolve_internal() {
	failure := errors.New("model store unavailable")
	r := &mockResolver{}
	r.On("Resolve", mock.AnythingOfType("*document.Document")).Return(nil, failure)

	_, err := controller{resolver: r}.Resolve(strings.NewReader(acmeDoc))
	s.Equal(failure, err)
	r.AssertExpectations(s.T())
}

func (s *ControllerSuite) Test_controller_Config() {
	cfg := resolver.DefaultConfig()
	cfg.BeamWidth = 7
	r := &mockResolver{}
	r.On("Config").Return(cfg)

	s.Equal(7, controller{resolver: r}.Config().BeamWidth)
	r.AssertExpectations(s.T())
}
