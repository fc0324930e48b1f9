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


// Package ingestion implements the asynchronous document ingestion pipeline.
//
// Uploads enter through the Coordinator, which stores the raw bytes and
// atomically records a pending document together with its queued job. Worker
// loops consume jobs and run each document through extraction, chunking,
// embedding and chunk persistence, advancing the document's status as they
// go. Workers runs several loops concurrently on a shared pool.
//
// Failures in any stage mark the document failed and are tagged with a
// stage sentinel (ErrExtraction, ErrModel, ErrPersistence, ErrBlobStorage).
// There is no retry or dead-letter handling; a failed document stays failed
// until resubmitted as a new upload.
package ingestion
