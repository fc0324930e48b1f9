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


// Package storage provides the storage abstraction layer for docrag.
//
// It defines the repository, queue and blob-store interfaces that decouple
// the ingestion pipeline and search orchestrator from any concrete backend.
// The default backend is BadgerDB (storage/badger) for metadata, chunks and
// the job queue, and the local filesystem (storage/blob) for raw uploads.
//
// All repository constructors return interfaces so consumers never couple to
// backend specifics, and mock or in-memory implementations can be swapped in
// for tests.
package storage
