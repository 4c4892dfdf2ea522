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

package remote_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/gen/mocks"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/coreference/lib/model/remote"
)

type SourceSuite struct {
	suite.Suite
	embedded *model.MemorySource
}

func TestSourceSuite(t *testing.T) {
	suite.Run(t, new(SourceSuite))
}

func (s *SourceSuite) SetupTest() {
	src, err := model.DefaultSource()
	s.Require().NoError(err)
	s.embedded = src
}

// getPipelineServing returns a pipeline mock that answers from store.
func (s *SourceSuite) getPipelineServing(store map[string][]byte, names []string) *mocks.GetPipeline {
	pipe := &mocks.GetPipeline{}
	for _, name := range names {
		pipe.On("Get", name).Once()
	}
	pipe.On("ExecGet", mock.Anything).Return(func(onResult func(string, []byte) error) error {
		for _, name := range names {
			if err := onResult(name, store[name]); err != nil {
				return err
			}
		}
		return nil
	})
	return pipe
}

func (s *SourceSuite) Test_Load_FromRemote() {
	store := map[string][]byte{}
	for _, name := range model.Names() {
		b, err := s.embedded.Fetch(name)
		s.Require().NoError(err)
		store[name] = b
	}

	pipe := s.getPipelineServing(store, model.Names())
	client := &mocks.Client{}
	client.On("NewGetPipeline", len(model.Names())).Return(pipe)

	bundle, err := model.Load(remote.NewSource(client))
	s.Require().NoError(err)
	s.Equal(model.PronounPrior, bundle.PronounPrior.Name)
	pipe.AssertExpectations(s.T())
	client.AssertExpectations(s.T())
}

func (s *SourceSuite) Test_Fetch_Missing() {
	pipe := s.getPipelineServing(map[string][]byte{}, []string{"absent"})
	client := &mocks.Client{}
	client.On("NewGetPipeline", 1).Return(pipe)

	_, err := remote.NewSource(client).Fetch("absent")
	s.True(errors.Is(err, model.ErrNotFound))
}

func (s *SourceSuite) Test_Fetch_ExecError() {
	pipe := &mocks.GetPipeline{}
	pipe.On("Get", "a").Once()
	pipe.On("ExecGet", mock.Anything).Return(errors.New("connection refused"))
	client := &mocks.Client{}
	client.On("NewGetPipeline", 1).Return(pipe)

	_, err := remote.NewSource(client).Fetch("a")
	s.EqualError(err, "connection refused")
}

func (s *SourceSuite) Test_Publish() {
	names := model.Names()
	pipe := &mocks.SetPipeline{}
	for _, name := range names {
		b, err := s.embedded.Fetch(name)
		s.Require().NoError(err)
		pipe.On("Set", name, b).Once()
	}
	pipe.On("ExecSet").Return(nil)
	pipe.On("Size").Return(len(names))
	client := &mocks.Client{}
	client.On("NewSetPipeline", len(names)).Return(pipe)

	s.NoError(remote.Publish(client, s.embedded, names))
	pipe.AssertExpectations(s.T())
}

func (s *SourceSuite) Test_Publish_MissingSource() {
	client := &mocks.Client{}
	client.On("NewSetPipeline", 1).Return(&mocks.SetPipeline{})

	err := remote.Publish(client, model.NewMemorySource(), []string{"absent"})
	s.True(errors.Is(err, model.ErrNotFound))
}
