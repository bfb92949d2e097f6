// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import "go.uber.org/zap"

// logger is the package-level structured logger used for job panics and
// scheduler lifecycle events. Callers embedding this package in a larger
// service can replace it with SetLogger before starting any Scheduler.
var logger = zap.NewNop()

// SetLogger installs the zap logger the scheduler package uses for job
// panic reports, add/remove events and shutdown notices. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}
