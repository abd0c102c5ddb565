// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package supervisor runs long-lived components under a suture/v4 tree.

The tree has two layers below the root:

	reelrank
	├── data-layer   store value log GC, login session sweeper
	└── api-layer    HTTP server

A crash in the data layer restarts only that layer's services; the HTTP
server keeps answering. Supervisor events go through sutureslog to the
process logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSessionSweeperService(manager, time.Minute, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Service wrappers live in the services subpackage.
*/
package supervisor
