// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import "github.com/cronlib/jcron/calendar"

// Result holds the computed instant from Next or Prev, along with its
// broken-down calendar form, per spec.md §3.3. Zero-valued until filled.
type Result struct {
	// NextTime is populated by Next; zero when Result came from Prev.
	NextTime int64
	// PrevTime is populated by Prev; zero when Result came from Next.
	PrevTime int64
	Date     calendar.Date
}
