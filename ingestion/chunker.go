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


package ingestion

// Chunking defaults. A 500-rune window with a 50-rune overlap keeps
// neighboring chunks semantically connected; slices at or below the minimum
// length carry too little signal to embed and are dropped.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultMinChunkLen  = 50
)

// Chunk splits text into overlapping windows of at most window runes,
// advancing window-overlap runes per step. Slices whose length is less than
// or equal to minLength are dropped. The function is pure; the windows cover
// the text in order and consecutive chunks share exactly overlap runes
// (except the final, possibly shorter one).
//
// Non-positive window falls back to DefaultChunkSize; a negative overlap
// falls back to DefaultChunkOverlap; an overlap >= window is reduced so the
// step stays positive.
func Chunk(text string, window, overlap, minLength int) []string {
	if window <= 0 {
		window = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= window {
		overlap = window - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := window - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		if end-start > minLength {
			chunks = append(chunks, string(runes[start:end]))
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
