// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package services adapts components to suture.Service.
//
//   - HTTPServerService: ListenAndServe plus graceful Shutdown
//   - PeriodicService: runs a task on a ticker
//   - NewValueLogGCService: badger value log GC on a PeriodicService
//   - NewSessionSweeperService: expired login session cleanup
//
// Every service returns ctx.Err() when its context is canceled and
// implements fmt.Stringer so supervisor events name it.
package services
