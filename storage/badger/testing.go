// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

// MemoryStores bundles in-memory repositories for tests.
type MemoryStores struct {
	Backend   *Backend
	Documents *DocumentRepository
	Chunks    *ChunkRepository
	Queue     *JobQueue
	Submit    *SubmitStore
}

// NewMemoryStores creates an in-memory backend with document, chunk, queue
// and submit stores for testing. Caller must Close when done.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}

	queue, err := NewJobQueue(backend)
	if err != nil {
		chunks.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Backend:   backend,
		Documents: docs,
		Chunks:    chunks,
		Queue:     queue,
		Submit:    NewSubmitStore(backend, docs, queue),
	}, nil
}

// Close releases all stores and the backend.
func (m *MemoryStores) Close() {
	m.Queue.Close()
	m.Chunks.Close()
	m.Documents.Close()
	m.Backend.Close()
}
