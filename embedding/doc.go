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


// Package embedding wraps the embedding service with spend governance.
//
// Every call is priced before it leaves the process: the governor
// estimates token usage with the same tokenizer the chunker sizes with,
// reserves the projected cost against a monthly ceiling, and reconciles
// the reservation with the provider's billed figure afterwards. Calls
// that would push spend past the ceiling are refused without reaching
// the network.
package embedding
