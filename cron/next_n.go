// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

// NextN returns the n smallest instants >= t0 that satisfy p, in
// ascending order, per spec.md §4.8's batched driver. Each subsequent
// candidate is sought starting one minute past the previous result, so a
// pattern matching every minute still produces n distinct results rather
// than the same instant n times.
func NextN(t0 int64, p *Pattern, n int) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]Result, 0, n)
	seed := t0
	for i := 0; i < n; i++ {
		r, err := Next(seed, p)
		if err != nil {
			return out, err
		}
		out = append(out, r)
		seed = r.NextTime + 60
	}
	return out, nil
}

// PrevN returns the n largest instants < t0 that satisfy p, in descending
// order. Each subsequent search is seeded from the previous result's
// pre-modifier instant (r.Date), so Prev's scan starts one minute before
// that match even when an SOD/EOD modifier has moved r.PrevTime later.
func PrevN(t0 int64, p *Pattern, n int) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]Result, 0, n)
	seed := t0
	for i := 0; i < n; i++ {
		r, err := Prev(seed, p)
		if err != nil {
			return out, err
		}
		out = append(out, r)
		seed = r.Date.ToUnix()
	}
	return out, nil
}
