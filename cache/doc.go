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


// Package cache is a BadgerDB-backed key/value cache with per-entry
// expiry. Entries keep their own expiry timestamps rather than using the
// engine's TTL, so expired entries stay observable to Stats until a read
// or a sweep removes them. Reads never refresh an entry's TTL.
package cache
