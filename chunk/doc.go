// Copyright 2025 Teambrief Systems
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


// Package chunk splits document text into token-bounded, overlapping
// segments sized for embedding.
//
// Chunking is deterministic: the same text and configuration always yield a
// byte-identical segmentation. Token counting uses the same tokenizer the
// embedding models bill against, so segment token counts are exact.
package chunk
